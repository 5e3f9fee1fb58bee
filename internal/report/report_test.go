package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheahjs/punchsim/internal/metrics"
	"github.com/cheahjs/punchsim/internal/sim"
)

const tick = 50 * time.Millisecond

func converged(rounds int) sim.Outcome {
	return sim.Outcome{Converged: true, Iterations: rounds, Elapsed: time.Duration(rounds-1) * tick}
}

func testBatch() *sim.Batch {
	b := &sim.Batch{ID: uuid.New(), WallTime: time.Second}
	for i := 1; i <= 10; i++ {
		b.Outcomes = append(b.Outcomes, converged(i*10))
	}
	b.Outcomes = append(b.Outcomes, sim.Outcome{Converged: false, Iterations: 1000, Elapsed: 999 * tick})
	return b
}

func TestSummarize(t *testing.T) {
	s := Summarize(testBatch())

	assert.Equal(t, 11, s.Trials)
	assert.Equal(t, 10, s.Converged)
	assert.Equal(t, 1, s.Capped)
	assert.Equal(t, 55.0, s.MeanIterations)
	assert.Equal(t, 54*tick, s.MeanElapsed)
	require.Len(t, s.Quantiles, 3)
	assert.Equal(t, Quantile{Q: 0.5, Iterations: 50, Elapsed: 49 * tick}, s.Quantiles[0])
	assert.Equal(t, Quantile{Q: 0.9, Iterations: 90, Elapsed: 89 * tick}, s.Quantiles[1])
	assert.Equal(t, Quantile{Q: 0.99, Iterations: 100, Elapsed: 99 * tick}, s.Quantiles[2])

	out := s.GetOutput()
	assert.Contains(t, out, "[ROUNDS TO SUCCESS]")
	assert.Contains(t, out, "p50")
	assert.Contains(t, out, "Round cap exhausted = 1")
}

func TestSummarizeNothingConverged(t *testing.T) {
	b := &sim.Batch{Outcomes: []sim.Outcome{{Iterations: 5, Elapsed: 4 * tick}}}

	s := Summarize(b)
	assert.Equal(t, 1, s.Capped)
	assert.Empty(t, s.Quantiles)
	assert.NotContains(t, s.GetOutput(), "[ROUNDS TO SUCCESS]")
}

func TestGatherHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewMetrics(reg, metrics.LinearBuckets(25, 2, tick.Seconds()))
	require.NoError(t, err)
	for _, o := range testBatch().Outcomes {
		m.Observe(o)
	}

	h, err := GatherHistogram(reg, metrics.IterationsName)
	require.NoError(t, err)

	assert.Equal(t, uint64(10), h.Total)
	require.Len(t, h.Buckets, 3)
	assert.Equal(t, Bucket{UpperBound: 25, Count: 2, Cumulative: 0.2}, h.Buckets[0])
	assert.Equal(t, Bucket{UpperBound: 50, Count: 3, Cumulative: 0.5}, h.Buckets[1])
	assert.True(t, math.IsInf(h.Buckets[2].UpperBound, 1))
	assert.Equal(t, uint64(5), h.Buckets[2].Count)
	assert.Equal(t, 1.0, h.Buckets[2].Cumulative)

	out := h.GetOutput()
	assert.Contains(t, out, "+Inf")
	assert.Contains(t, out, "100.00%")
}

func TestHistogramJSONEncodesInfBound(t *testing.T) {
	h := &Histogram{
		Name:  "x",
		Total: 4,
		Buckets: []Bucket{
			{UpperBound: 25, Count: 2, Cumulative: 0.5},
			{UpperBound: math.Inf(1), Count: 2, Cumulative: 1},
		},
	}

	out, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "x",
		"total": 4,
		"buckets": [
			{"upper_bound": "25", "count": 2, "cumulative": 0.5},
			{"upper_bound": "+Inf", "count": 2, "cumulative": 1}
		]
	}`, string(out))
}

func TestGatherHistogramMissing(t *testing.T) {
	_, err := GatherHistogram(prometheus.NewRegistry(), "nope")
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []sim.Outcome{
		converged(3),
		{Converged: false, Iterations: 7, Elapsed: 6 * tick},
	}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"trial", "converged", "iterations", "elapsed_seconds"},
		{"0", "true", "3", "0.1"},
		{"1", "false", "7", "0.3"},
	}, records)
}
