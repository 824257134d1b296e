package health

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veggerby/ignition/internal/result"
)

// ResultFunc is a live accessor into a running coordinator's cached result,
// the same shape the chi and gin adapters both consume so that a probe
// request always reflects the coordinator's current state rather than a
// value captured at mount time.
type ResultFunc func() (result.Aggregate, bool)

// NewChiRouter mounts /healthz, /readyz, and /livez on a fresh chi router.
// /healthz and /readyz report the full ternary status; /livez always
// answers 200 once the process is up, independent of readiness.
func NewChiRouter(fn ResultFunc) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", chiReadinessHandler(fn))
	r.Get("/readyz", chiReadinessHandler(fn))
	r.Get("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func chiReadinessHandler(fn ResultFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agg, ok := fn()
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(Report{Status: "not-yet-computed"})
			return
		}

		report := BuildReport(agg)
		status := Evaluate(agg)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatusFor(status))
		_ = json.NewEncoder(w).Encode(report)
	}
}

func httpStatusFor(s Status) int {
	switch s {
	case StatusHealthy:
		return http.StatusOK
	case StatusDegraded:
		return http.StatusOK
	default:
		return http.StatusServiceUnavailable
	}
}
