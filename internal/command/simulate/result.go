package simulate

import (
	"github.com/cheahjs/punchsim/internal/report"
)

type SimulateResult struct {
	Summary    report.Summary      `json:"summary"`
	Histograms []*report.Histogram `json:"histograms"`
}

func (r *SimulateResult) GetOutput() string {
	out := r.Summary.GetOutput()
	if r.Summary.Converged == 0 {
		return out
	}
	for _, h := range r.Histograms {
		out += h.GetOutput()
	}
	return out
}
