// Package paradox computes and samples the chance that two peers guessing
// ports independently pick a matching port (or port pair).
package paradox

import (
	"errors"
	"fmt"

	"github.com/cheahjs/punchsim/internal/network"
)

var ErrDomain = errors.New("guess counts outside the search space")

// SearchSpace is the number of distinct guesses available. In the hard case
// both sides must agree on a (port, port) pair.
func SearchSpace(space network.Space, hard bool) float64 {
	n := float64(space.Size())
	if hard {
		n *= n
	}
	return n
}

// Probability is ProbabilityIn over the default port space.
func Probability(aSide, bSide int, hard bool) (float64, error) {
	return ProbabilityIn(network.DefaultSpace, aSide, bSide, hard)
}

// ProbabilityIn returns the chance that an aSide-sized set and a bSide-sized
// set, each drawn without replacement, share at least one element. The sets
// are compared against each other, not within themselves, so this differs
// from the classic birthday problem.
func ProbabilityIn(space network.Space, aSide, bSide int, hard bool) (float64, error) {
	if err := space.Validate(); err != nil {
		return 0, err
	}
	options := SearchSpace(space, hard)
	if aSide < 0 || bSide < 0 || float64(aSide)+float64(bSide) > options {
		return 0, fmt.Errorf("%w: a=%d b=%d options=%.0f", ErrDomain, aSide, bSide, options)
	}
	if aSide == 0 || bSide == 0 {
		return 0, nil
	}

	// Accumulates rounding error; good enough for an estimate.
	miss := 1.0
	a := float64(aSide)
	for i := 0; i < bSide; i++ {
		n := options - float64(i)
		miss *= (n - a) / n
	}
	return 1 - miss, nil
}

// SearchSpaceFraction is the share of the search space covered by one side.
func SearchSpaceFraction(space network.Space, probes int, hard bool) float64 {
	return float64(probes) / SearchSpace(space, hard)
}
