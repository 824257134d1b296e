// Package result implements the Result Aggregator: it assembles per-signal
// and overall outcome records and classifies terminal status.
package result

import (
	"time"

	"github.com/veggerby/ignition/internal/scope"
)

// Status is a signal's terminal classification. It is absorbing: once
// assigned it never changes.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
	StatusTimedOut
	StatusSkipped
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed-out"
	case StatusSkipped:
		return "skipped"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Success reports whether the status counts as a successful outcome.
func (s Status) Success() bool { return s == StatusSucceeded }

// SignalResult is the terminal record for a single signal.
type SignalResult struct {
	Name     string
	Status   Status
	Duration time.Duration

	HasEffectiveTimeout bool
	EffectiveTimeout    time.Duration

	Failure error

	FailedPrerequisites []string

	CancelReason  scope.Reason
	CancelTrigger string

	StartedAt time.Time
	EndedAt   time.Time
}

// StageResult summarizes one stage's execution in staged mode.
type StageResult struct {
	Index         int
	StartedAt     time.Time
	EndedAt       time.Time
	Counts        map[Status]int
	StageTerminal bool
}

// Aggregate is the coordinator's immutable, terminal outcome report.
type Aggregate struct {
	TotalDuration         time.Duration
	GlobalTimeoutObserved bool
	Signals               []SignalResult
	Stages                []StageResult
}

// AllSucceeded reports whether every signal in the aggregate succeeded.
func (a Aggregate) AllSucceeded() bool {
	for _, r := range a.Signals {
		if !r.Status.Success() {
			return false
		}
	}
	return true
}

// Failures returns every SignalResult whose status is not succeeded.
func (a Aggregate) Failures() []SignalResult {
	var out []SignalResult
	for _, r := range a.Signals {
		if !r.Status.Success() {
			out = append(out, r)
		}
	}
	return out
}

// ByName returns the result for a given signal name, if present.
func (a Aggregate) ByName(name string) (SignalResult, bool) {
	for _, r := range a.Signals {
		if r.Name == name {
			return r, true
		}
	}
	return SignalResult{}, false
}
