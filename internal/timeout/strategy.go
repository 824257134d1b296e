// Package timeout implements the pluggable Timeout Strategy: a pure
// function from a signal and the coordinator's settings to an effective
// timeout and whether exceeding it cancels the signal.
package timeout

import (
	"time"

	"github.com/veggerby/ignition/signal"
)

// Settings carries the subset of coordinator options a Strategy may need.
type Settings struct {
	CancelIndividualOnTimeout bool
	// StageOverride, when non-nil, lets a custom strategy look up a
	// per-stage timeout scale or override; the default strategy ignores it.
	StageOverride map[int]time.Duration
}

// Decision is a Strategy's answer for one signal.
type Decision struct {
	Timeout        time.Duration
	HasTimeout     bool
	CancelOnExceed bool
}

// Strategy decides the effective timeout for a signal. Implementations must
// be pure functions of their inputs.
type Strategy func(sig signal.Signal, settings Settings) Decision

// Default uses the per-signal timeout if present, else none; cancel-on-
// exceed mirrors the coordinator-wide CancelIndividualOnTimeout setting.
func Default(sig signal.Signal, settings Settings) Decision {
	if d, ok := sig.Timeout(); ok {
		return Decision{Timeout: d, HasTimeout: true, CancelOnExceed: settings.CancelIndividualOnTimeout}
	}
	return Decision{CancelOnExceed: settings.CancelIndividualOnTimeout}
}

// Scaled returns a Strategy that applies Default and then multiplies any
// resulting timeout by factor — a building block for custom strategies that
// need to loosen or tighten every signal uniformly (e.g. slower CI
// environments).
func Scaled(factor float64) Strategy {
	return func(sig signal.Signal, settings Settings) Decision {
		d := Default(sig, settings)
		if d.HasTimeout {
			d.Timeout = time.Duration(float64(d.Timeout) * factor)
		}
		return d
	}
}

// PerStage returns a Strategy that overrides the timeout for signals in a
// given stage, falling back to Default for everything else.
func PerStage(stage int, override time.Duration) Strategy {
	return func(sig signal.Signal, settings Settings) Decision {
		if s, ok := sig.Stage(); ok && s == stage {
			return Decision{Timeout: override, HasTimeout: override > 0, CancelOnExceed: settings.CancelIndividualOnTimeout}
		}
		return Default(sig, settings)
	}
}
