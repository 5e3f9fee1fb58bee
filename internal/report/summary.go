// Package report turns simulation batches into console tables, histograms
// and CSV rows.
package report

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/cheahjs/punchsim/internal/sim"
)

var Quantiles = []float64{0.5, 0.9, 0.99}

type Quantile struct {
	Q          float64       `json:"q"`
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

type Summary struct {
	RunID          string        `json:"run_id"`
	Trials         int           `json:"trials"`
	Converged      int           `json:"converged"`
	Capped         int           `json:"capped"`
	MeanIterations float64       `json:"mean_iterations"`
	MeanElapsed    time.Duration `json:"mean_elapsed_ns"`
	Quantiles      []Quantile    `json:"quantiles"`
	WallTime       time.Duration `json:"wall_time_ns"`
}

// Summarize computes statistics over the converged trials of a batch.
func Summarize(batch *sim.Batch) Summary {
	s := Summary{
		RunID:    batch.ID.String(),
		Trials:   len(batch.Outcomes),
		WallTime: batch.WallTime,
	}

	var (
		iterations []int
		elapsed    []time.Duration
		sumIter    float64
		sumElapsed time.Duration
	)
	for _, o := range batch.Outcomes {
		if !o.Converged {
			s.Capped++
			continue
		}
		s.Converged++
		iterations = append(iterations, o.Iterations)
		elapsed = append(elapsed, o.Elapsed)
		sumIter += float64(o.Iterations)
		sumElapsed += o.Elapsed
	}
	if s.Converged == 0 {
		return s
	}

	s.MeanIterations = sumIter / float64(s.Converged)
	s.MeanElapsed = sumElapsed / time.Duration(s.Converged)

	slices.Sort(iterations)
	slices.Sort(elapsed)
	for _, q := range Quantiles {
		s.Quantiles = append(s.Quantiles, Quantile{
			Q:          q,
			Iterations: nearestRank(iterations, q),
			Elapsed:    nearestRank(elapsed, q),
		})
	}
	return s
}

// nearestRank returns the smallest value with at least q of the samples at or
// below it. sorted must be non-empty.
func nearestRank[T any](sorted []T, q float64) T {
	rank := int(math.Ceil(q * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

func (s Summary) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[SIMULATION]\n")
	buffer.WriteString(FormatKV([]string{
		fmt.Sprintf("Run|%s", s.RunID),
		fmt.Sprintf("Trials|%d", s.Trials),
		fmt.Sprintf("Converged|%d", s.Converged),
		fmt.Sprintf("Round cap exhausted|%d", s.Capped),
		fmt.Sprintf("Wall time|%v", s.WallTime),
	}))
	buffer.WriteString("\n")

	if s.Converged == 0 {
		return buffer.String()
	}

	buffer.WriteString("\n[ROUNDS TO SUCCESS]\n")
	rows := []string{
		"Statistic|Rounds|Simulated time",
		fmt.Sprintf("mean|%.1f|%v", s.MeanIterations, s.MeanElapsed),
	}
	for _, q := range s.Quantiles {
		rows = append(rows, fmt.Sprintf("p%g|%d|%v", q.Q*100, q.Iterations, q.Elapsed))
	}
	buffer.WriteString(FormatList(rows))
	buffer.WriteString("\n")

	return buffer.String()
}
