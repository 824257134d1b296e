package ignition

import (
	"time"

	"go.uber.org/zap"

	"github.com/veggerby/ignition/events"
	"github.com/veggerby/ignition/internal/plan"
	"github.com/veggerby/ignition/internal/scheduler"
	"github.com/veggerby/ignition/internal/timeout"
	"github.com/veggerby/ignition/metrics"
)

// Options holds every coordinator-wide setting from spec.md §6. Callers
// configure it via the Option functional-options accepted by New, the way
// randalmurphal-orc's WorkflowExecutorOption configures its executor facade.
type Options struct {
	Mode                      plan.Mode
	Policy                    scheduler.Policy
	StagePolicy               scheduler.StagePolicy
	EarlyPromotionThreshold   float64
	MaxConcurrency            int64
	GlobalTimeout             time.Duration
	CancelOnGlobalTimeout     bool
	CancelIndividualOnTimeout bool
	CancelDependentsOnFailure bool
	Strategy                  timeout.Strategy
	Events                    events.Sink
	Metrics                   metrics.Sink
	Logger                    *zap.Logger
}

func defaultOptions() Options {
	return Options{
		Mode:          plan.ModeParallel,
		Policy:        scheduler.PolicyBestEffort,
		StagePolicy:   scheduler.StageAllMustSucceed,
		GlobalTimeout: 30 * time.Second,
		Strategy:      timeout.Default,
		Events:        events.NoopSink{},
		Metrics:       metrics.NoopSink{},
		Logger:        zap.NewNop(),
	}
}

// Option configures a Coordinator at construction time.
type Option func(*Options)

// WithMode selects the execution mode (default parallel).
func WithMode(m plan.Mode) Option { return func(o *Options) { o.Mode = m } }

// WithPolicy selects the coordinator-level failure policy (default
// best-effort).
func WithPolicy(p scheduler.Policy) Option { return func(o *Options) { o.Policy = p } }

// WithStagePolicy selects the staged-mode stage policy (default
// all-must-succeed). Ignored outside ModeStaged.
func WithStagePolicy(p scheduler.StagePolicy) Option {
	return func(o *Options) { o.StagePolicy = p }
}

// WithEarlyPromotionThreshold sets the success-fraction threshold used by
// StageEarlyPromotion. Values outside (0, 1] fall back to 1 (a full
// barrier).
func WithEarlyPromotionThreshold(fraction float64) Option {
	return func(o *Options) { o.EarlyPromotionThreshold = fraction }
}

// WithMaxConcurrency bounds the number of signals in flight at once. Zero
// (the default) leaves concurrency unbounded.
func WithMaxConcurrency(n int64) Option { return func(o *Options) { o.MaxConcurrency = n } }

// WithGlobalTimeout overrides the default 30s global deadline.
func WithGlobalTimeout(d time.Duration) Option { return func(o *Options) { o.GlobalTimeout = d } }

// WithCancelOnGlobalTimeout selects a hard global deadline: on expiry the
// root scope is cancelled and in-flight signals observing it become
// timed-out rather than merely flagged.
func WithCancelOnGlobalTimeout(b bool) Option {
	return func(o *Options) { o.CancelOnGlobalTimeout = b }
}

// WithCancelIndividualOnTimeout selects whether a signal's own timer
// cancels its token on expiry, versus letting it run to natural completion
// with a fixed timed-out classification.
func WithCancelIndividualOnTimeout(b bool) Option {
	return func(o *Options) { o.CancelIndividualOnTimeout = b }
}

// WithCancelDependentsOnFailure enables upgrading a skipped dependent to
// cancelled when it shares a scope with a failing prerequisite.
func WithCancelDependentsOnFailure(b bool) Option {
	return func(o *Options) { o.CancelDependentsOnFailure = b }
}

// WithTimeoutStrategy overrides the default per-signal timeout strategy.
func WithTimeoutStrategy(s timeout.Strategy) Option { return func(o *Options) { o.Strategy = s } }

// WithEventSink registers an events.Sink. The coordinator always also logs
// through its configured *zap.Logger; WithEventSink adds to that, it does
// not replace it.
func WithEventSink(s events.Sink) Option { return func(o *Options) { o.Events = s } }

// WithMetricsSink registers a metrics.Sink (default metrics.NoopSink).
func WithMetricsSink(s metrics.Sink) Option { return func(o *Options) { o.Metrics = s } }

// WithLogger sets the *zap.Logger backing the coordinator's built-in event
// logging (default zap.NewNop()).
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
