package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/veggerby/ignition/internal/result"
)

func TestPrometheusSinkRecordsObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewPrometheusSink(reg, "test")

	sink.RecordSignalDuration("db", 50*time.Millisecond)
	sink.RecordSignalStatus("db", result.StatusSucceeded)
	sink.RecordAggregateDuration(200 * time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	var sawStatus bool
	for _, fam := range families {
		if fam.GetName() == "test_ignition_signal_status_total" {
			sawStatus = true
			require.Len(t, fam.Metric, 1)
			require.Equal(t, float64(1), fam.Metric[0].GetCounter().GetValue())
		}
	}
	require.True(t, sawStatus, "expected signal_status_total metric family")
}
