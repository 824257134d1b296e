package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veggerby/ignition/internal/result"
)

func TestEvaluateHealthy(t *testing.T) {
	agg := result.Aggregate{Signals: []result.SignalResult{{Name: "a", Status: result.StatusSucceeded}}}
	assert.Equal(t, StatusHealthy, Evaluate(agg))
}

func TestEvaluateDegradedOnSoftGlobalTimeoutWithNoFailures(t *testing.T) {
	agg := result.Aggregate{
		GlobalTimeoutObserved: true,
		Signals:               []result.SignalResult{{Name: "a", Status: result.StatusSucceeded}},
	}
	assert.Equal(t, StatusDegraded, Evaluate(agg))
}

func TestEvaluateUnhealthyOnAnyFailure(t *testing.T) {
	agg := result.Aggregate{
		Signals: []result.SignalResult{
			{Name: "a", Status: result.StatusSucceeded},
			{Name: "b", Status: result.StatusFailed},
		},
	}
	assert.Equal(t, StatusUnhealthy, Evaluate(agg))
}

func TestChiRouterReportsNotYetComputed(t *testing.T) {
	router := NewChiRouter(func() (result.Aggregate, bool) { return result.Aggregate{}, false })

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestChiRouterReportsHealthy(t *testing.T) {
	agg := result.Aggregate{Signals: []result.SignalResult{{Name: "a", Status: result.StatusSucceeded}}}
	router := NewChiRouter(func() (result.Aggregate, bool) { return agg, true })

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestChiRouterLivezAlwaysOK(t *testing.T) {
	router := NewChiRouter(func() (result.Aggregate, bool) { return result.Aggregate{}, false })

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
