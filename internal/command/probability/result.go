package probability

import (
	"bytes"
	"fmt"
)

type ProbabilityResult struct {
	Hard        bool    `json:"hard"`
	ASide       int     `json:"a_side"`
	BSide       int     `json:"b_side"`
	ACoverage   float64 `json:"a_coverage"`
	BCoverage   float64 `json:"b_coverage"`
	Probability float64 `json:"probability"`
}

func (r *ProbabilityResult) GetOutput() string {
	var buffer bytes.Buffer

	if r.Hard {
		buffer.WriteString("\nSimulating the hard case:\n")
		buffer.WriteString("  peer A -> endpoint-dependent NAT --- endpoint-dependent NAT <- peer B\n\n")
		buffer.WriteString(fmt.Sprintf("  A probes %d combinations of (source port, target port)\n", r.ASide))
		buffer.WriteString(fmt.Sprintf("    (this is %.2g%% of the search space)\n", r.ACoverage*100))
		buffer.WriteString(fmt.Sprintf("  B probes %d combinations of (source port, target port)\n", r.BSide))
		buffer.WriteString(fmt.Sprintf("    (this is %.2g%% of the search space)\n", r.BCoverage*100))
	} else {
		buffer.WriteString("\nSimulating the easy case:\n")
		buffer.WriteString("  peer A -> endpoint-dependent NAT --- endpoint-independent NAT <- peer B\n\n")
		buffer.WriteString(fmt.Sprintf("  A probes 1 target port on B from %d source ports\n", r.ASide))
		buffer.WriteString(fmt.Sprintf("    (this is %.2g%% of the search space)\n", r.ACoverage*100))
		buffer.WriteString(fmt.Sprintf("  B probes %d target ports on A from 1 source port\n", r.BSide))
		buffer.WriteString(fmt.Sprintf("    (this is %.2g%% of the search space)\n", r.BCoverage*100))
	}

	buffer.WriteString(fmt.Sprintf("\nProbability of successful traversal: %.2f%%\n", r.Probability*100))

	return buffer.String()
}
