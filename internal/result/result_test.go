package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllSucceeded(t *testing.T) {
	agg := Aggregate{Signals: []SignalResult{
		{Name: "a", Status: StatusSucceeded},
		{Name: "b", Status: StatusSucceeded},
	}}
	assert.True(t, agg.AllSucceeded())

	agg.Signals = append(agg.Signals, SignalResult{Name: "c", Status: StatusFailed})
	assert.False(t, agg.AllSucceeded())
}

func TestFailuresFiltersNonSuccess(t *testing.T) {
	boom := errors.New("boom")
	agg := Aggregate{Signals: []SignalResult{
		{Name: "a", Status: StatusSucceeded},
		{Name: "b", Status: StatusFailed, Failure: boom},
		{Name: "c", Status: StatusSkipped, FailedPrerequisites: []string{"b"}},
	}}
	failures := agg.Failures()
	assert.Len(t, failures, 2)
}

func TestByName(t *testing.T) {
	agg := Aggregate{Signals: []SignalResult{{Name: "a", Status: StatusSucceeded}}}
	r, ok := agg.ByName("a")
	assert.True(t, ok)
	assert.Equal(t, StatusSucceeded, r.Status)

	_, ok = agg.ByName("missing")
	assert.False(t, ok)
}

func TestCollectorRecordsExactlyOnce(t *testing.T) {
	c := NewCollector([]string{"a", "b"})
	c.Record(SignalResult{Name: "a", Status: StatusSucceeded})
	c.Record(SignalResult{Name: "a", Status: StatusFailed}) // ignored, first wins

	r, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, StatusSucceeded, r.Status)
	assert.False(t, c.Complete())

	c.Record(SignalResult{Name: "b", Status: StatusTimedOut})
	assert.True(t, c.Complete())
}

func TestCollectorSnapshotPreservesRegistrationOrder(t *testing.T) {
	c := NewCollector([]string{"c", "a", "b"})
	c.Record(SignalResult{Name: "a", Status: StatusSucceeded})
	c.Record(SignalResult{Name: "b", Status: StatusSucceeded})
	c.Record(SignalResult{Name: "c", Status: StatusSucceeded})

	names := make([]string, 0, 3)
	for _, r := range c.Snapshot() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestCollectorPending(t *testing.T) {
	c := NewCollector([]string{"a", "b"})
	c.Record(SignalResult{Name: "a", Status: StatusSucceeded})
	assert.Equal(t, []string{"b"}, c.Pending())
}
