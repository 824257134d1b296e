// Package timeline exports a cached aggregate result as a versioned JSON
// document suitable for archival or a deployment dashboard. It is a pure
// consumer of result.Aggregate; it does not retain any state of its own.
package timeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/veggerby/ignition/internal/result"
)

// SchemaVersion is the stable version tag every exported document carries,
// bumped only on a breaking field change.
const SchemaVersion = "1"

// Document is the exported wire shape.
type Document struct {
	SchemaVersion string         `json:"schema_version"`
	RunID         string         `json:"run_id"`
	TotalDuration string         `json:"total_duration"`
	TimedOut      bool           `json:"global_timeout_observed"`
	Signals       []SignalRecord `json:"signals"`
	Stages        []StageRecord  `json:"stages,omitempty"`
}

// SignalRecord is one signal's entry in the exported timeline.
type SignalRecord struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Duration  string    `json:"duration"`
	Failure   string    `json:"failure,omitempty"`
}

// StageRecord is one stage's entry in the exported timeline.
type StageRecord struct {
	Index     int            `json:"index"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	Counts    map[string]int `json:"counts"`
	Terminal  bool           `json:"terminal"`
}

// Build assembles a Document from agg, tagging it with runID for
// correlation against the same coordinator run's logs and traces.
func Build(agg result.Aggregate, runID uuid.UUID) Document {
	signals := make([]SignalRecord, 0, len(agg.Signals))
	for _, r := range agg.Signals {
		rec := SignalRecord{
			Name:      r.Name,
			Status:    r.Status.String(),
			StartedAt: r.StartedAt,
			EndedAt:   r.EndedAt,
			Duration:  r.Duration.String(),
		}
		if r.Failure != nil {
			rec.Failure = r.Failure.Error()
		}
		signals = append(signals, rec)
	}

	stages := make([]StageRecord, 0, len(agg.Stages))
	for _, s := range agg.Stages {
		counts := make(map[string]int, len(s.Counts))
		for status, n := range s.Counts {
			counts[status.String()] = n
		}
		stages = append(stages, StageRecord{
			Index:     s.Index,
			StartedAt: s.StartedAt,
			EndedAt:   s.EndedAt,
			Counts:    counts,
			Terminal:  s.StageTerminal,
		})
	}

	return Document{
		SchemaVersion: SchemaVersion,
		RunID:         runID.String(),
		TotalDuration: agg.TotalDuration.String(),
		TimedOut:      agg.GlobalTimeoutObserved,
		Signals:       signals,
		Stages:        stages,
	}
}

// Export writes agg as an indented JSON document to w.
func Export(w io.Writer, agg result.Aggregate, runID uuid.UUID) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Build(agg, runID))
}
