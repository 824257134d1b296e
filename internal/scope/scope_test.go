package scope

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelIsIdempotent(t *testing.T) {
	s := NewRoot("root")
	s.Cancel(ReasonManual, "first")
	s.Cancel(ReasonSignalFailure, "second")

	reason, trigger := s.ReasonTrigger()
	assert.Equal(t, ReasonManual, reason)
	assert.Equal(t, "first", trigger)
}

func TestUncancelledScopeReasonIsNone(t *testing.T) {
	s := NewRoot("root")
	reason, trigger := s.ReasonTrigger()
	assert.Equal(t, ReasonNone, reason)
	assert.Empty(t, trigger)
	assert.False(t, s.Cancelled())
}

func TestChildInheritsParentCancellation(t *testing.T) {
	parent := NewRoot("parent")
	child := parent.NewChild("child")

	parent.Cancel(ReasonGlobalTimeout, "db")

	select {
	case <-child.Done():
	case <-time.After(time.Second):
		t.Fatal("child was not cancelled by parent")
	}

	reason, trigger := child.ReasonTrigger()
	assert.Equal(t, ReasonGlobalTimeout, reason)
	assert.Equal(t, "db", trigger)
}

func TestChildCancellationDoesNotPropagateToParent(t *testing.T) {
	parent := NewRoot("parent")
	child := parent.NewChild("child")

	child.Cancel(ReasonSignalFailure, "child-signal")

	assert.False(t, parent.Cancelled())
}

func TestGrandchildInheritsAcrossTwoLevels(t *testing.T) {
	root := NewRoot("root")
	mid := root.NewChild("mid")
	leaf := mid.NewChild("leaf")

	root.Cancel(ReasonManual, "")

	select {
	case <-leaf.Done():
	case <-time.After(time.Second):
		t.Fatal("grandchild was not cancelled transitively")
	}
}

func TestTimeoutCancelsAfterDuration(t *testing.T) {
	s := NewRoot("timed")
	start := time.Now()
	s.Timeout(20*time.Millisecond, ReasonSignalTimeout, "slow")

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("scope was not cancelled by timeout")
	}
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	reason, trigger := s.ReasonTrigger()
	assert.Equal(t, ReasonSignalTimeout, reason)
	assert.Equal(t, "slow", trigger)
}

func TestTimeoutDoesNotFireIfAlreadyCancelled(t *testing.T) {
	s := NewRoot("pre-cancelled")
	s.Cancel(ReasonManual, "early")
	s.Timeout(10*time.Millisecond, ReasonSignalTimeout, "late")

	time.Sleep(30 * time.Millisecond)
	reason, _ := s.ReasonTrigger()
	assert.Equal(t, ReasonManual, reason)
}

func TestPropagateAmbientCancelsOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewRoot("root")
	s.PropagateAmbient(ctx)

	cancel()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("scope was not cancelled by ambient context")
	}
	reason, _ := s.ReasonTrigger()
	assert.Equal(t, ReasonManual, reason)
}

func TestContextPromotesScopeCancellation(t *testing.T) {
	s := NewRoot("root")
	ctx, cancelFn := s.Context(context.Background())
	defer cancelFn()

	s.Cancel(ReasonSignalFailure, "x")

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("promoted context was not cancelled")
	}
}

func TestDisposeClearsChildrenWithoutCancelling(t *testing.T) {
	root := NewRoot("root")
	child := root.NewChild("child")
	grandchild := child.NewChild("grandchild")

	require.NotNil(t, grandchild)
	root.Dispose()
	assert.Empty(t, root.children)
	assert.Empty(t, child.children)
	// Dispose clears bookkeeping only; it must not itself cancel.
	assert.False(t, root.Cancelled())
	assert.False(t, child.Cancelled())
}
