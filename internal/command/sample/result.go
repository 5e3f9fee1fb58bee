package sample

import (
	"bytes"
	"fmt"

	"github.com/cheahjs/punchsim/internal/report"
)

type SampleResult struct {
	Hard     bool    `json:"hard"`
	ASide    int     `json:"a_side"`
	BSide    int     `json:"b_side"`
	Trials   int     `json:"trials"`
	Seed     uint64  `json:"seed"`
	Analytic float64 `json:"analytic"`
	Observed float64 `json:"observed"`
}

func (r *SampleResult) GetOutput() string {
	var buffer bytes.Buffer

	mode := "easy"
	if r.Hard {
		mode = "hard"
	}

	buffer.WriteString("\n[SAMPLE]\n")
	buffer.WriteString(report.FormatKV([]string{
		fmt.Sprintf("Case|%s", mode),
		fmt.Sprintf("A side probes|%d", r.ASide),
		fmt.Sprintf("B side probes|%d", r.BSide),
		fmt.Sprintf("Trials|%d", r.Trials),
		fmt.Sprintf("Seed|%d", r.Seed),
		fmt.Sprintf("Analytic|%.2f%%", r.Analytic*100),
		fmt.Sprintf("Observed|%.2f%%", r.Observed*100),
		fmt.Sprintf("Difference|%+.2f%%", (r.Observed-r.Analytic)*100),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
