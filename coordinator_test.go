package ignition

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veggerby/ignition/internal/plan"
	"github.com/veggerby/ignition/internal/result"
	"github.com/veggerby/ignition/internal/scheduler"
	"github.com/veggerby/ignition/signal"
)

func quickSignal(t *testing.T, name string, err error) signal.Signal {
	t.Helper()
	s, e := signal.New(name, func(ctx context.Context) error { return err })
	require.NoError(t, e)
	return s
}

func TestWaitAllSucceedsAndCachesResult(t *testing.T) {
	coord, err := New([]signal.Signal{quickSignal(t, "a", nil), quickSignal(t, "b", nil)})
	require.NoError(t, err)

	_, ok := coord.Result()
	assert.False(t, ok)

	agg, err := coord.WaitAll(context.Background())
	require.NoError(t, err)
	assert.True(t, agg.AllSucceeded())
	assert.Equal(t, StateCompleted, coord.State())

	cached, ok := coord.Result()
	require.True(t, ok)
	assert.Equal(t, agg, cached)
}

func TestWaitAllIsIdempotentUnderConcurrentCallers(t *testing.T) {
	coord, err := New([]signal.Signal{quickSignal(t, "a", nil)})
	require.NoError(t, err)

	var wg sync.WaitGroup
	aggs := make([]result.Aggregate, 5)
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg, err := coord.WaitAll(context.Background())
			require.NoError(t, err)
			aggs[i] = agg
		}()
	}
	wg.Wait()

	for i := 1; i < len(aggs); i++ {
		assert.Equal(t, aggs[0], aggs[i])
	}
}

func TestWaitAllRaisesCompositeErrorUnderFailFast(t *testing.T) {
	boom := errors.New("boom")
	coord, err := New(
		[]signal.Signal{quickSignal(t, "ok", nil), quickSignal(t, "bad", boom)},
		WithMode(plan.ModeParallel),
		WithPolicy(scheduler.PolicyFailFast),
	)
	require.NoError(t, err)

	_, err = coord.WaitAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateFailed, coord.State())

	_, err2 := coord.WaitAll(context.Background())
	require.Error(t, err2)
	assert.Equal(t, err, err2)
}

func TestNewRejectsDuplicateSignalNames(t *testing.T) {
	_, err := New([]signal.Signal{quickSignal(t, "dup", nil), quickSignal(t, "dup", nil)})
	require.Error(t, err)
}

func TestHardGlobalTimeoutReachesTimedOutState(t *testing.T) {
	slow, err := signal.New("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	coord, err := New([]signal.Signal{slow},
		WithGlobalTimeout(30*time.Millisecond),
		WithCancelOnGlobalTimeout(true),
	)
	require.NoError(t, err)

	agg, err := coord.WaitAll(context.Background())
	require.NoError(t, err)
	assert.True(t, agg.GlobalTimeoutObserved)
	assert.Equal(t, StateTimedOut, coord.State())
}
