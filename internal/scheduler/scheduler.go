// Package scheduler drives a plan.Plan to completion: it dispatches waves of
// signals, applies the timeout strategy and cancellation scope tree to each
// attempt, classifies terminal outcomes, and enforces the coordinator-level
// and stage-level failure policies. It has no notion of the public façade's
// idempotence or cached result — that belongs one layer up.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/veggerby/ignition/events"
	"github.com/veggerby/ignition/internal/plan"
	"github.com/veggerby/ignition/internal/result"
	"github.com/veggerby/ignition/internal/scope"
	"github.com/veggerby/ignition/internal/timeout"
	"github.com/veggerby/ignition/metrics"
	"github.com/veggerby/ignition/signal"
)

// Policy is the coordinator-level failure policy.
type Policy int

const (
	PolicyBestEffort Policy = iota
	PolicyFailFast
	PolicyContinueOnTimeout
)

// StagePolicy governs stage-to-stage progression in staged mode. It has no
// effect outside plan.ModeStaged.
type StagePolicy int

const (
	StageAllMustSucceed StagePolicy = iota
	StageBestEffort
	StageFailFast
	StageEarlyPromotion
)

// ErrSignalTimeout is the synthesized failure attached to a timed-out
// signal result.
var ErrSignalTimeout = errors.New("ignition: signal exceeded its effective timeout")

// Config carries the coordinator options relevant to scheduling.
type Config struct {
	Policy                    Policy
	StagePolicy               StagePolicy
	EarlyPromotionThreshold   float64
	MaxConcurrency            int64 // 0 means unbounded
	GlobalTimeout             time.Duration
	CancelOnGlobalTimeout     bool
	CancelIndividualOnTimeout bool
	CancelDependentsOnFailure bool
	Strategy                  timeout.Strategy
	Events                    events.Sink
	Metrics                   metrics.Sink
}

// Outcome is everything a scheduler run produced, handed to the coordinator
// for aggregation.
type Outcome struct {
	Signals            *result.Collector
	Stages             []result.StageResult
	GlobalTimeoutFired bool
}

// Scheduler drives one Plan exactly once.
type Scheduler struct {
	cfg       Config
	plan      *plan.Plan
	root      *scope.Scope
	collector *result.Collector
	byName    map[string]signal.Signal
	sem       *semaphore.Weighted

	scopesMu sync.Mutex
	scopes   map[string]*scope.Scope

	haltFlag           atomic.Bool
	globalTimeoutFired atomic.Bool

	stages []result.StageResult
}

// New prepares a Scheduler for p. signals must be the same population p was
// built from, in any order; root is the coordinator's root cancellation
// scope.
func New(p *plan.Plan, signals []signal.Signal, root *scope.Scope, cfg Config) *Scheduler {
	if cfg.Strategy == nil {
		cfg.Strategy = timeout.Default
	}
	if cfg.Events == nil {
		cfg.Events = events.NoopSink{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NoopSink{}
	}

	byName := make(map[string]signal.Signal, len(signals))
	for _, sig := range signals {
		byName[sig.Name()] = sig
	}

	var sem *semaphore.Weighted
	if cfg.MaxConcurrency > 0 {
		sem = semaphore.NewWeighted(cfg.MaxConcurrency)
	}

	return &Scheduler{
		cfg:       cfg,
		plan:      p,
		root:      root,
		collector: result.NewCollector(p.Names()),
		byName:    byName,
		sem:       sem,
		scopes:    make(map[string]*scope.Scope),
	}
}

// Run dispatches the plan to completion and returns the collected outcome.
// It blocks until every registered signal has a terminal result.
func (s *Scheduler) Run(ctx context.Context) Outcome {
	stop := s.watchGlobalTimeout()
	defer stop()

	s.root.PropagateAmbient(ctx)

	switch s.plan.Mode {
	case plan.ModeStaged:
		s.runStaged(ctx)
	case plan.ModeDependencyAware:
		s.runWaves(ctx, s.plan.Waves, true)
	default:
		s.runWaves(ctx, s.plan.Waves, false)
	}

	return Outcome{
		Signals:            s.collector,
		Stages:             s.stages,
		GlobalTimeoutFired: s.globalTimeoutFired.Load(),
	}
}

// haltRequested reports whether remaining undispatched waves/stages should
// be skipped rather than dispatched — either because a fail-fast policy
// halt was raised, or because a hard global timeout already fired.
func (s *Scheduler) haltRequested() bool {
	return s.haltFlag.Load() || s.globalTimeoutFired.Load()
}

// runWaves drives a plain list of waves to completion, halting before any
// wave not yet dispatched once a fail-fast halt has been requested.
// dependencyAware gates each signal on its prerequisites' terminal status
// before dispatch, as required by dependency-aware mode.
func (s *Scheduler) runWaves(ctx context.Context, waves []plan.Wave, dependencyAware bool) {
	for i, wave := range waves {
		if s.haltRequested() {
			s.skipWaves(waves[i:])
			return
		}
		s.dispatchWave(ctx, wave, dependencyAware)
	}
}

func (s *Scheduler) dispatchWave(ctx context.Context, wave plan.Wave, dependencyAware bool) {
	var wg sync.WaitGroup
	for _, sig := range wave.Signals {
		sig := sig
		if dependencyAware {
			if gated, skip := s.prerequisiteGate(sig); skip {
				s.collector.Record(gated)
				continue
			}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.dispatchOne(ctx, sig)
		}()
	}
	wg.Wait()
}

// dispatchOne runs the per-signal execution envelope and records the result,
// raising the coordinator-level halt flag on the first non-success under
// fail-fast.
func (s *Scheduler) dispatchOne(ctx context.Context, sig signal.Signal) {
	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			s.collector.Record(result.SignalResult{Name: sig.Name(), Status: result.StatusCancelled})
			return
		}
		defer s.sem.Release(1)
	}

	res := s.runSignal(ctx, sig)
	s.collector.Record(res)

	if !res.Status.Success() && s.cfg.Policy == PolicyFailFast {
		s.haltFlag.Store(true)
	}
}

// runSignal is the per-signal execution envelope from step 1 through step 7:
// compose the effective token, invoke the callable, classify, emit events
// and metrics, and cascade scope cancellation on failure.
func (s *Scheduler) runSignal(ctx context.Context, sig signal.Signal) result.SignalResult {
	name := sig.Name()
	started := time.Now()
	s.cfg.Events.SignalStarted(name, started)

	kind, scopeName, cancelOnFailure := sig.Kind()
	sigScope := s.root
	if kind == signal.KindScoped {
		sigScope = s.scopeFor(scopeName)
	}

	runCtx, cancelRun := sigScope.Context(ctx)
	defer cancelRun()

	decision := s.cfg.Strategy(sig, timeout.Settings{CancelIndividualOnTimeout: s.cfg.CancelIndividualOnTimeout})

	var timedOut atomic.Bool
	if decision.HasTimeout {
		timer := time.AfterFunc(decision.Timeout, func() {
			timedOut.Store(true)
			if decision.CancelOnExceed {
				cancelRun()
			}
		})
		defer timer.Stop()
	}

	err := sig.Invoke(runCtx)
	ended := time.Now()
	duration := ended.Sub(started)

	status, failure := classifyOutcome(err, timedOut.Load(), sigScope)

	res := result.SignalResult{
		Name:      name,
		Status:    status,
		Duration:  duration,
		Failure:   failure,
		StartedAt: started,
		EndedAt:   ended,
	}
	if decision.HasTimeout {
		res.HasEffectiveTimeout = true
		res.EffectiveTimeout = decision.Timeout
	}
	if status == result.StatusCancelled {
		res.CancelReason, res.CancelTrigger = sigScope.ReasonTrigger()
	}

	s.cfg.Events.SignalCompleted(name, status, duration)
	s.cfg.Metrics.RecordSignalDuration(name, duration)
	s.cfg.Metrics.RecordSignalStatus(name, status)

	if status == result.StatusFailed && kind == signal.KindScoped && cancelOnFailure {
		sigScope.Cancel(scope.ReasonSignalFailure, name)
	}

	return res
}

// classifyOutcome applies the precedence fixed by the coordinator:
// signal-failure > signal-timeout > global-timeout > cancelled-by-scope. A
// nil err with no timeout and an uncancelled scope is succeeded.
func classifyOutcome(err error, timedOut bool, sc *scope.Scope) (result.Status, error) {
	if err != nil && !isCancellationLike(err) {
		return result.StatusFailed, err
	}
	if timedOut {
		return result.StatusTimedOut, ErrSignalTimeout
	}
	// A hard global timeout cancels the root scope as its propagation
	// mechanism, but its user-visible classification is timed-out, not
	// cancelled — cancelled is reserved for manual/dependency/signal
	// cancellation sources. This overrides even a nil err: a signal that
	// ignores cancellation and returns success after the deadline has
	// already passed is still timed-out as of the moment the timer fired.
	if reason, _ := sc.ReasonTrigger(); reason == scope.ReasonGlobalTimeout {
		return result.StatusTimedOut, ErrSignalTimeout
	}
	if err != nil && sc.Cancelled() {
		return result.StatusCancelled, nil
	}
	if err != nil {
		return result.StatusFailed, err
	}
	return result.StatusSucceeded, nil
}

func isCancellationLike(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// prerequisiteGate reports whether sig must be gated rather than dispatched,
// because at least one of its declared prerequisites ended in a non-success
// status. When cancel-dependents-on-failure is enabled and sig shares a
// named scope with a failing prerequisite, the gate cancels that scope and
// returns a cancelled result instead of a skipped one.
func (s *Scheduler) prerequisiteGate(sig signal.Signal) (result.SignalResult, bool) {
	prereqs := sig.Prerequisites()
	if len(prereqs) == 0 {
		return result.SignalResult{}, false
	}

	var failedNames []string
	for _, p := range prereqs {
		if r, ok := s.collector.Get(p); ok && !r.Status.Success() {
			failedNames = append(failedNames, p)
		}
	}
	if len(failedNames) == 0 {
		return result.SignalResult{}, false
	}

	if s.cfg.CancelDependentsOnFailure {
		if kind, scopeName, _ := sig.Kind(); kind == signal.KindScoped {
			for _, p := range failedNames {
				prereqSig := s.byName[p]
				if pk, pScope, _ := prereqSig.Kind(); pk == signal.KindScoped && pScope == scopeName {
					sc := s.scopeFor(scopeName)
					sc.Cancel(scope.ReasonDependencyFailure, p)
					reason, trigger := sc.ReasonTrigger()
					return result.SignalResult{
						Name:                sig.Name(),
						Status:              result.StatusCancelled,
						FailedPrerequisites: failedNames,
						CancelReason:        reason,
						CancelTrigger:       trigger,
					}, true
				}
			}
		}
	}

	return result.SignalResult{
		Name:                sig.Name(),
		Status:              result.StatusSkipped,
		FailedPrerequisites: failedNames,
	}, true
}

func (s *Scheduler) scopeFor(name string) *scope.Scope {
	s.scopesMu.Lock()
	defer s.scopesMu.Unlock()
	if sc, ok := s.scopes[name]; ok {
		return sc
	}
	sc := s.root.NewChild(name)
	s.scopes[name] = sc
	return sc
}

// skipWaves marks every not-yet-recorded signal in waves as skipped, used
// when a coordinator-level halt or a stage policy aborts remaining
// dispatch.
func (s *Scheduler) skipWaves(waves []plan.Wave) {
	for _, w := range waves {
		for _, sig := range w.Signals {
			if _, ok := s.collector.Get(sig.Name()); ok {
				continue
			}
			s.collector.Record(result.SignalResult{Name: sig.Name(), Status: result.StatusSkipped})
		}
	}
}

func (s *Scheduler) watchGlobalTimeout() func() {
	if s.cfg.GlobalTimeout <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		timer := time.NewTimer(s.cfg.GlobalTimeout)
		defer timer.Stop()
		select {
		case <-timer.C:
			s.onGlobalTimeout()
		case <-done:
		}
	}()
	return func() { close(done) }
}

func (s *Scheduler) onGlobalTimeout() {
	if !s.globalTimeoutFired.CompareAndSwap(false, true) {
		return
	}
	now := time.Now()
	s.cfg.Events.GlobalTimeoutFired(now)
	if s.cfg.CancelOnGlobalTimeout {
		s.root.Cancel(scope.ReasonGlobalTimeout, "")
	}
}
