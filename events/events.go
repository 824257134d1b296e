// Package events defines the coordinator's observer interface (spec.md
// §4.8/§4.9) and a handful of ready-to-use sinks. There is no built-in bus
// and no async delivery — handlers run synchronously on the scheduler's
// emitting goroutine, isolated from one another so a panicking handler
// cannot take down the coordinator or its siblings.
package events

import (
	"time"

	"github.com/veggerby/ignition/internal/result"
)

// Sink receives lifecycle notifications as the coordinator runs. The core
// invokes a Sink from the same goroutine that classifies a signal; sinks
// must therefore be non-blocking or arrange their own buffering.
type Sink interface {
	SignalStarted(name string, startedAt time.Time)
	SignalCompleted(name string, status result.Status, duration time.Duration)
	GlobalTimeoutFired(at time.Time)
	CoordinatorCompleted(state string, totalDuration time.Duration)
}

// NoopSink discards every event. It is the default when no sink is
// configured.
type NoopSink struct{}

func (NoopSink) SignalStarted(string, time.Time)                      {}
func (NoopSink) SignalCompleted(string, result.Status, time.Duration) {}
func (NoopSink) GlobalTimeoutFired(time.Time)                         {}
func (NoopSink) CoordinatorCompleted(string, time.Duration)           {}

var _ Sink = NoopSink{}

// Multi fans out to every given sink, catching panics per-sink so that one
// faulty handler cannot affect the others or the coordinator's own
// progress.
func Multi(sinks ...Sink) Sink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return &multiSink{sinks: filtered}
}

type multiSink struct {
	sinks []Sink
}

func (m *multiSink) SignalStarted(name string, startedAt time.Time) {
	for _, s := range m.sinks {
		m.safe(func() { s.SignalStarted(name, startedAt) })
	}
}

func (m *multiSink) SignalCompleted(name string, status result.Status, duration time.Duration) {
	for _, s := range m.sinks {
		m.safe(func() { s.SignalCompleted(name, status, duration) })
	}
}

func (m *multiSink) GlobalTimeoutFired(at time.Time) {
	for _, s := range m.sinks {
		m.safe(func() { s.GlobalTimeoutFired(at) })
	}
}

func (m *multiSink) CoordinatorCompleted(state string, totalDuration time.Duration) {
	for _, s := range m.sinks {
		m.safe(func() { s.CoordinatorCompleted(state, totalDuration) })
	}
}

func (m *multiSink) safe(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
