package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Generations.WithLabelValues("success").Inc()
	m.RowsLoaded.WithLabelValues("NC").Set(8760)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["tmy_report_generations_total"])
	assert.True(t, names["tmy_report_rows_loaded"])
	assert.Equal(t, 8760.0, testutil.ToFloat64(m.RowsLoaded.WithLabelValues("NC")))
}

func TestNewMetricsForTestingIsIsolated(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.Generations.WithLabelValues("error").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Generations.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Generations.WithLabelValues("error")))
}
