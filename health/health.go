// Package health implements the Health Adapter: a pure mapping from a
// cached aggregate result to a ternary probe status, plus ready-to-mount
// HTTP handlers for the two web frameworks the example pack favors.
package health

import "github.com/veggerby/ignition/internal/result"

// Status is the ternary outcome a readiness probe consumes.
type Status int

const (
	StatusHealthy Status = iota
	StatusDegraded
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Evaluate maps an aggregate to a ternary status: healthy if every signal
// succeeded and the global deadline was never observed; degraded if the
// global deadline fired softly with no signal-level failures; unhealthy
// otherwise.
func Evaluate(agg result.Aggregate) Status {
	if agg.AllSucceeded() && !agg.GlobalTimeoutObserved {
		return StatusHealthy
	}
	if agg.GlobalTimeoutObserved && agg.AllSucceeded() {
		return StatusDegraded
	}
	return StatusUnhealthy
}

// Report is the JSON-serializable shape returned by the HTTP adapters.
type Report struct {
	Status   string          `json:"status"`
	Signals  []SignalSummary `json:"signals"`
	Duration string          `json:"duration"`
}

// SignalSummary is one signal's entry in a Report.
type SignalSummary struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// BuildReport flattens an aggregate into the wire shape the HTTP adapters
// serialize.
func BuildReport(agg result.Aggregate) Report {
	summaries := make([]SignalSummary, 0, len(agg.Signals))
	for _, r := range agg.Signals {
		summaries = append(summaries, SignalSummary{Name: r.Name, Status: r.Status.String()})
	}
	return Report{
		Status:   Evaluate(agg).String(),
		Signals:  summaries,
		Duration: agg.TotalDuration.String(),
	}
}
