// Package signal defines the unit of work the coordinator schedules: a
// named, optionally scoped, optionally timed operation with a single
// "wait" behavior. It also carries the convenience constructors spec.md
// §4.1 calls out as collaborators outside the scheduling core — the core
// only ever sees the Signal contract these produce.
package signal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// WaitFunc is the behavior contract a signal fulfills: a single callable
// taking a cancellation-aware context and producing success or a failure.
// Implementations are expected to honor ctx.Done when practical.
type WaitFunc func(ctx context.Context) error

// Kind distinguishes a plain signal from one bound to a named cancellation
// scope, replacing the subtype relationship the source language expresses
// via "interface with optional interface" (spec.md §9) with an explicit
// tagged variant.
type Kind int

const (
	KindPlain Kind = iota
	KindScoped
)

// Signal is a uniquely named async readiness operation.
type Signal struct {
	name   string
	waitFn WaitFunc

	hasTimeout bool
	timeout    time.Duration

	hasStage bool
	stage    int

	prerequisites []string

	kind                 Kind
	scopeName            string
	cancelScopeOnFailure bool
}

// Option configures a Signal at construction time.
type Option func(*Signal)

// WithTimeout sets a positive per-signal timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Signal) {
		s.hasTimeout = d > 0
		s.timeout = d
	}
}

// WithStage assigns a non-negative stage index for staged mode.
func WithStage(index int) Option {
	return func(s *Signal) {
		s.hasStage = true
		s.stage = index
	}
}

// WithPrerequisites declares prerequisite signal names for dependency-aware
// mode.
func WithPrerequisites(names ...string) Option {
	return func(s *Signal) {
		s.prerequisites = append(s.prerequisites, names...)
	}
}

// WithScope binds the signal to a named cancellation scope. When
// cancelOnFailure is true, the signal's own scope is cancelled with
// ReasonSignalFailure if the callable fails — giving the scheduler a
// concrete scope to raise per spec.md §4.7's cancel-dependents-on-failure
// behavior.
func WithScope(name string, cancelOnFailure bool) Option {
	return func(s *Signal) {
		s.kind = KindScoped
		s.scopeName = name
		s.cancelScopeOnFailure = cancelOnFailure
	}
}

// New constructs a Signal. name must be non-empty; wait must be non-nil.
func New(name string, wait WaitFunc, opts ...Option) (Signal, error) {
	if name == "" {
		return Signal{}, fmt.Errorf("signal: name must not be empty")
	}
	if wait == nil {
		return Signal{}, fmt.Errorf("signal %q: wait function must not be nil", name)
	}
	s := Signal{name: name, waitFn: wait, kind: KindPlain}
	for _, opt := range opts {
		opt(&s)
	}
	return s, nil
}

// Name returns the signal's stable identity.
func (s *Signal) Name() string { return s.name }

// Timeout returns the configured per-signal timeout, if any.
func (s *Signal) Timeout() (time.Duration, bool) { return s.timeout, s.hasTimeout }

// Stage returns the configured stage index, if any.
func (s *Signal) Stage() (int, bool) { return s.stage, s.hasStage }

// Prerequisites returns the declared prerequisite names, for dependency-aware
// mode.
func (s *Signal) Prerequisites() []string { return append([]string(nil), s.prerequisites...) }

// Kind reports whether the signal is plain or scoped, and the scope
// attributes when scoped.
func (s *Signal) Kind() (kind Kind, scopeName string, cancelOnFailure bool) {
	return s.kind, s.scopeName, s.cancelScopeOnFailure
}

// Invoke runs the signal's wait function. The coordinator's scheduler is
// responsible for ensuring a given Signal is invoked at most once per
// coordinator lifetime; Signal itself carries no invocation state so that
// it remains a cheap, freely copyable value.
func (s *Signal) Invoke(ctx context.Context) error {
	return s.waitFn(ctx)
}

// FromFuture builds a signal that succeeds or fails according to a
// pre-existing future, represented as a channel that yields a single error
// (nil for success) and then may close.
func FromFuture(name string, future <-chan error) (Signal, error) {
	return New(name, func(ctx context.Context) error {
		select {
		case err := <-future:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// FromFunc builds a signal from a factory that produces a future given the
// cancellation token, deferring future creation until the signal actually
// runs.
func FromFunc(name string, factory func(ctx context.Context) (<-chan error, error)) (Signal, error) {
	return New(name, func(ctx context.Context) error {
		future, err := factory(ctx)
		if err != nil {
			return err
		}
		select {
		case err := <-future:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// ReadyChecker is implemented by a service instance that can report its own
// readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// FromSelector builds a signal that extracts readiness from a service
// instance via the ReadyChecker contract.
func FromSelector(name string, svc ReadyChecker) (Signal, error) {
	return New(name, func(ctx context.Context) error {
		return svc.Ready(ctx)
	})
}

// Composite builds a signal that waits for every instance of a kind to
// become ready, running them concurrently and failing if any one fails.
func Composite(name string, members ...Signal) (Signal, error) {
	if len(members) == 0 {
		return New(name, func(ctx context.Context) error { return nil })
	}
	return New(name, func(ctx context.Context) error {
		group, gctx := errgroup.WithContext(ctx)
		for i := range members {
			m := members[i]
			group.Go(func() error {
				return m.Invoke(gctx)
			})
		}
		return group.Wait()
	})
}
