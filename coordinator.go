// Package ignition is the startup readiness signal coordinator: a library
// embedded in a host process that drives a bounded set of asynchronous
// readiness signals to completion and hands back a deterministic,
// inspectable outcome. See SPEC_FULL.md for the full component breakdown.
package ignition

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veggerby/ignition/events"
	"github.com/veggerby/ignition/internal/plan"
	"github.com/veggerby/ignition/internal/result"
	"github.com/veggerby/ignition/internal/scheduler"
	"github.com/veggerby/ignition/internal/scope"
	"github.com/veggerby/ignition/signal"
)

// State is the coordinator's public lifecycle value.
type State int32

const (
	StateNotStarted State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Coordinator is the public façade. Construct one with New and drive it
// with WaitAll; a Coordinator is safe for concurrent use and runs its
// signal population at most once per lifetime.
type Coordinator struct {
	opts    Options
	plan    *plan.Plan
	signals []signal.Signal
	root    *scope.Scope
	runID   uuid.UUID
	sink    events.Sink

	state atomic.Int32

	once sync.Once
	done chan struct{}

	agg result.Aggregate
	err error
}

// New constructs a Coordinator for the given signal population. Construction
// errors — duplicate names, unresolved prerequisites, a dependency cycle, or
// an invalid option — are returned synchronously; the coordinator never
// enters the running state without a valid plan.
func New(signals []signal.Signal, opts ...Option) (*Coordinator, error) {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}

	p, err := plan.Build(o.Mode, signals)
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	zapSink := events.NewZapSink(o.Logger.With(zap.String("run_id", runID.String())))

	return &Coordinator{
		opts:    o,
		plan:    p,
		signals: append([]signal.Signal(nil), signals...),
		root:    scope.NewRoot("ignition"),
		runID:   runID,
		sink:    events.Multi(zapSink, o.Events),
		done:    make(chan struct{}),
	}, nil
}

// RunID returns the correlation identifier generated for this coordinator,
// stable for its lifetime and attached to every log line and event it
// emits.
func (c *Coordinator) RunID() uuid.UUID { return c.runID }

// State returns the coordinator's current lifecycle value.
func (c *Coordinator) State() State { return State(c.state.Load()) }

// Result returns the cached aggregate, if WaitAll has reached a terminal
// state. The second return value is false while the coordinator is
// not-started or running.
func (c *Coordinator) Result() (result.Aggregate, bool) {
	select {
	case <-c.done:
		return c.agg, true
	default:
		return result.Aggregate{}, false
	}
}

// WaitAll drives every registered signal to completion and returns the
// aggregate outcome. It is idempotent: the first call performs the run;
// every subsequent call, concurrent or serial, observes the same cached
// aggregate and (under a fail-fast policy) the same composite error. Only the
// ctx of the call that triggers the run is passed to it. Concurrent callers
// block until that run has finished; a caller whose ctx is already done at
// that point may receive ctx.Err() instead of the cached aggregate.
func (c *Coordinator) WaitAll(ctx context.Context) (result.Aggregate, error) {
	c.once.Do(func() { c.run(ctx) })

	select {
	case <-c.done:
		return c.agg, c.err
	case <-ctx.Done():
		return result.Aggregate{}, ctx.Err()
	}
}

func (c *Coordinator) run(ctx context.Context) {
	defer close(c.done)

	c.state.Store(int32(StateRunning))
	started := time.Now()

	sched := scheduler.New(c.plan, c.signals, c.root, scheduler.Config{
		Policy:                    c.opts.Policy,
		StagePolicy:               c.opts.StagePolicy,
		EarlyPromotionThreshold:   c.opts.EarlyPromotionThreshold,
		MaxConcurrency:            c.opts.MaxConcurrency,
		GlobalTimeout:             c.opts.GlobalTimeout,
		CancelOnGlobalTimeout:     c.opts.CancelOnGlobalTimeout,
		CancelIndividualOnTimeout: c.opts.CancelIndividualOnTimeout,
		CancelDependentsOnFailure: c.opts.CancelDependentsOnFailure,
		Strategy:                  c.opts.Strategy,
		Events:                    c.sink,
		Metrics:                   c.opts.Metrics,
	})

	outcome := sched.Run(ctx)
	total := time.Since(started)
	c.opts.Metrics.RecordAggregateDuration(total)

	c.agg = result.Aggregate{
		TotalDuration:         total,
		GlobalTimeoutObserved: outcome.GlobalTimeoutFired,
		Signals:               outcome.Signals.Snapshot(),
		Stages:                outcome.Stages,
	}

	final := StateCompleted
	switch {
	case outcome.GlobalTimeoutFired:
		final = StateTimedOut
	case !c.agg.AllSucceeded():
		final = StateFailed
	}

	if c.opts.Policy == scheduler.PolicyFailFast {
		if failures := c.agg.Failures(); len(failures) > 0 {
			c.err = compositeFailure(failures)
		}
	}

	c.state.Store(int32(final))
	c.sink.CoordinatorCompleted(final.String(), total)
}
