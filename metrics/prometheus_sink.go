package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/veggerby/ignition/internal/result"
)

// PrometheusSink records coordinator activity as Prometheus vectors, the
// same registration style linkflow-go and kubernaut use for their service
// metrics: each sink creates its own vectors and registers them against a
// caller-supplied registerer. Two sinks with the same namespace on the same
// registerer collide, and the second registration panics.
type PrometheusSink struct {
	signalDuration    *prometheus.HistogramVec
	signalStatusTotal *prometheus.CounterVec
	aggregateDuration prometheus.Histogram
}

// NewPrometheusSink creates and registers the vectors against reg. Passing
// prometheus.DefaultRegisterer matches client_golang's usual top-level
// wiring; pass a dedicated registry in tests to avoid collisions between
// runs.
func NewPrometheusSink(reg prometheus.Registerer, namespace string) *PrometheusSink {
	s := &PrometheusSink{
		signalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ignition",
			Name:      "signal_duration_seconds",
			Help:      "Duration of individual readiness signal evaluations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"signal"}),
		signalStatusTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ignition",
			Name:      "signal_status_total",
			Help:      "Count of readiness signal completions by terminal status.",
		}, []string{"signal", "status"}),
		aggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ignition",
			Name:      "aggregate_duration_seconds",
			Help:      "Duration of a full WaitAll invocation across all signals.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(s.signalDuration, s.signalStatusTotal, s.aggregateDuration)
	return s
}

var _ Sink = (*PrometheusSink)(nil)

func (p *PrometheusSink) RecordSignalDuration(name string, d time.Duration) {
	p.signalDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (p *PrometheusSink) RecordSignalStatus(name string, status result.Status) {
	p.signalStatusTotal.WithLabelValues(name, status.String()).Inc()
}

func (p *PrometheusSink) RecordAggregateDuration(d time.Duration) {
	p.aggregateDuration.Observe(d.Seconds())
}
