package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheahjs/punchsim/internal/sim"
)

func TestMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg, LinearBuckets(10, 5, 0.05))
	require.NoError(t, err)

	m.Observe(sim.Outcome{Converged: true, Iterations: 3, Elapsed: 100 * time.Millisecond})
	m.Observe(sim.Outcome{Converged: true, Iterations: 42, Elapsed: 2050 * time.Millisecond})
	m.Observe(sim.Outcome{Converged: false, Iterations: 100, Elapsed: 4950 * time.Millisecond})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Trials.WithLabelValues("converged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Trials.WithLabelValues("capped")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Trials))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != IterationsName {
			continue
		}
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(2), h.GetSampleCount())
		assert.Equal(t, 45.0, h.GetSampleSum())
		require.Len(t, h.GetBucket(), 5)
		assert.Equal(t, 10.0, h.GetBucket()[0].GetUpperBound())
		assert.Equal(t, uint64(1), h.GetBucket()[0].GetCumulativeCount())
		assert.Equal(t, uint64(2), h.GetBucket()[4].GetCumulativeCount())
	}
}

func TestMetricsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg, LinearBuckets(10, 5, 0.05))
	require.NoError(t, err)

	_, err = NewMetrics(reg, LinearBuckets(10, 5, 0.05))
	require.Error(t, err)
}
