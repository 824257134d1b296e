package ignition

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/veggerby/ignition/internal/result"
)

// compositeFailure folds every non-success signal result into a single
// error under go.uber.org/multierr, the same accumulation pattern zap's own
// codebase uses for reporting multiple independent causes. The combined
// error's Unwrap() []error lets callers still use errors.Is/errors.As
// against an individual signal's captured failure.
func compositeFailure(failures []result.SignalResult) error {
	var combined error
	for _, f := range failures {
		if f.Failure != nil {
			combined = multierr.Append(combined, fmt.Errorf("signal %q: %w", f.Name, f.Failure))
			continue
		}
		combined = multierr.Append(combined, fmt.Errorf("signal %q: %s", f.Name, f.Status))
	}
	return combined
}
