// Package plan builds the static schedule the scheduler drives: a list of
// execution waves derived from the registered signals and the configured
// execution mode. All four modes — parallel, sequential, staged,
// dependency-aware — are expressed as "a list of waves"; only how waves are
// derived differs.
package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/veggerby/ignition/signal"
)

// Mode selects how waves are derived from the registered signals.
type Mode int

const (
	ModeParallel Mode = iota
	ModeSequential
	ModeStaged
	ModeDependencyAware
)

func (m Mode) String() string {
	switch m {
	case ModeParallel:
		return "parallel"
	case ModeSequential:
		return "sequential"
	case ModeStaged:
		return "staged"
	case ModeDependencyAware:
		return "dependency-aware"
	default:
		return "unknown"
	}
}

// Wave is a set of signals the scheduler dispatches together, awaiting
// their collective settlement before proceeding to the next wave.
type Wave struct {
	// StageIndex is meaningful only in staged mode; it is -1 otherwise.
	StageIndex int
	Signals    []signal.Signal
}

// Plan is the precomputed schedule for a coordinator run.
type Plan struct {
	Mode  Mode
	Waves []Wave

	// Prerequisites maps a dependency-aware signal name to its direct
	// prerequisite names. Empty in other modes.
	Prerequisites map[string][]string

	// names preserves registration order for all modes, used by the
	// scheduler and result collector to report one entry per signal even
	// for signals that never entered a wave (e.g. skipped under fail-fast).
	names []string
}

// Names returns every registered signal name in registration order.
func (p *Plan) Names() []string { return append([]string(nil), p.names...) }

// Build constructs a Plan for the given mode from the registered signals,
// in registration order. Construction errors — duplicate names, unresolved
// prerequisites, or a dependency cycle — are returned synchronously and
// never reach a running coordinator.
func Build(mode Mode, signals []signal.Signal) (*Plan, error) {
	names := make([]string, 0, len(signals))
	seen := make(map[string]bool, len(signals))
	for _, s := range signals {
		if seen[s.Name()] {
			return nil, fmt.Errorf("plan: duplicate signal name %q", s.Name())
		}
		seen[s.Name()] = true
		names = append(names, s.Name())
	}

	switch mode {
	case ModeParallel:
		return &Plan{Mode: mode, names: names, Waves: []Wave{{StageIndex: -1, Signals: signals}}}, nil
	case ModeSequential:
		return buildSequential(mode, names, signals), nil
	case ModeStaged:
		return buildStaged(mode, names, signals)
	case ModeDependencyAware:
		return buildDependencyAware(mode, names, signals)
	default:
		return nil, fmt.Errorf("plan: unknown execution mode %v", mode)
	}
}

func buildSequential(mode Mode, names []string, signals []signal.Signal) *Plan {
	waves := make([]Wave, 0, len(signals))
	for _, s := range signals {
		waves = append(waves, Wave{StageIndex: -1, Signals: []signal.Signal{s}})
	}
	return &Plan{Mode: mode, names: names, Waves: waves}
}

func buildStaged(mode Mode, names []string, signals []signal.Signal) (*Plan, error) {
	byStage := make(map[int][]signal.Signal)
	for _, s := range signals {
		stage, ok := s.Stage()
		if !ok {
			stage = 0
		}
		if stage < 0 {
			return nil, fmt.Errorf("plan: signal %q has negative stage index %d", s.Name(), stage)
		}
		byStage[stage] = append(byStage[stage], s)
	}

	stages := make([]int, 0, len(byStage))
	for idx := range byStage {
		stages = append(stages, idx)
	}
	sort.Ints(stages)

	waves := make([]Wave, 0, len(stages))
	for _, idx := range stages {
		waves = append(waves, Wave{StageIndex: idx, Signals: byStage[idx]})
	}
	return &Plan{Mode: mode, names: names, Waves: waves}, nil
}

func buildDependencyAware(mode Mode, names []string, signals []signal.Signal) (*Plan, error) {
	byName := make(map[string]signal.Signal, len(signals))
	for _, s := range signals {
		byName[s.Name()] = s
	}

	prereqs := make(map[string][]string, len(signals))
	dependents := make(map[string][]string, len(signals))
	inDegree := make(map[string]int, len(signals))

	for _, s := range signals {
		inDegree[s.Name()] = 0
	}
	for _, s := range signals {
		for _, dep := range s.Prerequisites() {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("plan: signal %q depends on unknown prerequisite %q", s.Name(), dep)
			}
			prereqs[s.Name()] = append(prereqs[s.Name()], dep)
			dependents[dep] = append(dependents[dep], s.Name())
			inDegree[s.Name()]++
		}
	}

	remaining := inDegree
	waves := make([]Wave, 0)
	placed := make(map[string]bool, len(signals))

	for len(placed) < len(signals) {
		var ready []string
		for _, name := range names {
			if placed[name] {
				continue
			}
			if remaining[name] == 0 {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			return nil, fmt.Errorf("plan: dependency cycle detected involving %s", cyclePath(names, placed, prereqs))
		}

		wave := Wave{StageIndex: -1}
		for _, name := range ready {
			wave.Signals = append(wave.Signals, byName[name])
			placed[name] = true
		}
		waves = append(waves, wave)

		for _, name := range ready {
			for _, dep := range dependents[name] {
				remaining[dep]--
			}
		}
	}

	return &Plan{Mode: mode, names: names, Waves: waves, Prerequisites: prereqs}, nil
}

// cyclePath walks the unplaced signals' prerequisite edges to produce a
// human-readable diagnostic path through the cycle.
func cyclePath(names []string, placed map[string]bool, prereqs map[string][]string) string {
	var start string
	for _, n := range names {
		if !placed[n] {
			start = n
			break
		}
	}
	if start == "" {
		return "(unknown)"
	}

	visited := map[string]bool{}
	path := []string{start}
	current := start
	for {
		visited[current] = true
		var next string
		for _, p := range prereqs[current] {
			if !placed[p] {
				next = p
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if visited[next] {
			break
		}
		current = next
		if len(path) > len(names)+1 {
			break // defensive: should not happen given finite prerequisite sets
		}
	}
	return strings.Join(path, " -> ")
}
