// Package metrics defines the coordinator's metrics sink (spec.md §4.9) and
// a no-op default. Unlike events.Sink, which reports lifecycle transitions
// one at a time, metrics.Sink accumulates numeric series meant for
// aggregation by a scrape or push backend.
package metrics

import (
	"time"

	"github.com/veggerby/ignition/internal/result"
)

// Sink receives numeric observations as the coordinator runs.
type Sink interface {
	RecordSignalDuration(name string, d time.Duration)
	RecordSignalStatus(name string, status result.Status)
	RecordAggregateDuration(d time.Duration)
}

// NoopSink discards every observation. It is the default when no sink is
// configured.
type NoopSink struct{}

func (NoopSink) RecordSignalDuration(string, time.Duration) {}
func (NoopSink) RecordSignalStatus(string, result.Status)   {}
func (NoopSink) RecordAggregateDuration(time.Duration)      {}

var _ Sink = NoopSink{}
