package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cheahjs/punchsim/internal/sim"
)

const namespace = "punchsim"

const (
	IterationsName = namespace + "_trial_iterations"
	ElapsedName    = namespace + "_trial_elapsed_seconds"
	TrialsName     = namespace + "_trials_total"
)

// Metrics records trial outcomes. Iteration and elapsed-time histograms only
// count converged trials; capped trials are counted under outcome="capped".
type Metrics struct {
	Trials     *prometheus.CounterVec
	Iterations prometheus.Histogram
	Elapsed    prometheus.Histogram
}

type Buckets struct {
	Iterations []float64
	Elapsed    []float64
}

// LinearBuckets spaces count iteration buckets width rounds apart, and sizes
// the elapsed-time buckets to match at the given seconds per round.
func LinearBuckets(width float64, count int, secondsPerRound float64) Buckets {
	return Buckets{
		Iterations: prometheus.LinearBuckets(width, width, count),
		Elapsed:    prometheus.LinearBuckets(width*secondsPerRound, width*secondsPerRound, count),
	}
}

func NewMetrics(reg prometheus.Registerer, buckets Buckets) (*Metrics, error) {
	m := &Metrics{
		Trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TrialsName,
			Help: "Number of simulated hole punching trials by outcome.",
		}, []string{"outcome"}),
		Iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    IterationsName,
			Help:    "Rounds needed before a mirrored mapping was guessed.",
			Buckets: buckets.Iterations,
		}),
		Elapsed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    ElapsedName,
			Help:    "Simulated time until a mirrored mapping was guessed.",
			Buckets: buckets.Elapsed,
		}),
	}

	for _, c := range []prometheus.Collector{m.Trials, m.Iterations, m.Elapsed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Observe(o sim.Outcome) {
	if !o.Converged {
		m.Trials.WithLabelValues("capped").Inc()
		return
	}
	m.Trials.WithLabelValues("converged").Inc()
	m.Iterations.Observe(float64(o.Iterations))
	m.Elapsed.Observe(o.Elapsed.Seconds())
}
