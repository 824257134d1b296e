package result

import "sync"

// Collector accumulates SignalResults from concurrent scheduler workers and
// hands back a deterministic, registration-ordered snapshot. Each signal
// slot is written exactly once by its classifying worker; readers after
// classification observe a stable value.
type Collector struct {
	mu       sync.Mutex
	order    []string
	written  map[string]bool
	results  map[string]SignalResult
}

// NewCollector prepares a collector for the given registration-ordered
// signal names.
func NewCollector(names []string) *Collector {
	return &Collector{
		order:   append([]string(nil), names...),
		written: make(map[string]bool, len(names)),
		results: make(map[string]SignalResult, len(names)),
	}
}

// Record writes a signal's terminal result. A second call for the same name
// is a no-op — the first classification wins, matching the "terminal status
// is assigned exactly once" invariant.
func (c *Collector) Record(r SignalResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.written[r.Name] {
		return
	}
	c.written[r.Name] = true
	c.results[r.Name] = r
}

// Get returns the recorded result for name, if any.
func (c *Collector) Get(name string) (SignalResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[name]
	return r, ok
}

// Pending returns the registered names that have not yet been recorded.
func (c *Collector) Pending() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, name := range c.order {
		if !c.written[name] {
			out = append(out, name)
		}
	}
	return out
}

// Snapshot returns every recorded result in registration order. Names never
// recorded are omitted — the scheduler is responsible for ensuring every
// registered signal is recorded before the snapshot is taken.
func (c *Collector) Snapshot() []SignalResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SignalResult, 0, len(c.order))
	for _, name := range c.order {
		if r, ok := c.results[name]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Complete reports whether every registered name has a recorded result.
func (c *Collector) Complete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.written) == len(c.order)
}
