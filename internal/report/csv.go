package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cheahjs/punchsim/internal/sim"
)

var csvHeader = []string{"trial", "converged", "iterations", "elapsed_seconds"}

// WriteCSV writes one row per trial.
func WriteCSV(w io.Writer, outcomes []sim.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, o := range outcomes {
		record := []string{
			strconv.Itoa(i),
			strconv.FormatBool(o.Converged),
			strconv.Itoa(o.Iterations),
			strconv.FormatFloat(o.Elapsed.Seconds(), 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
