package paradox

import (
	"fmt"

	"github.com/cheahjs/punchsim/internal/network"
)

type portPair struct {
	first  uint16
	second uint16
}

// EasyHard runs one trial of the easy case. The endpoint-dependent side opens
// hardSockets mappings towards the single known port of the other side, which
// in turn probes easyProbes ports. Traversal works if any probe lands on an
// open mapping.
func EasyHard(rng network.Rand, space network.Space, hardSockets, easyProbes int) (bool, error) {
	hardPorts, err := space.Sample(rng, hardSockets)
	if err != nil {
		return false, err
	}
	probes, err := space.Sample(rng, easyProbes)
	if err != nil {
		return false, err
	}

	open := make(map[uint16]struct{}, len(hardPorts))
	for _, p := range hardPorts {
		open[p] = struct{}{}
	}
	for _, p := range probes {
		if _, ok := open[p]; ok {
			return true, nil
		}
	}
	return false, nil
}

// HardHard runs one trial of the hard case. Every probe yields a pair of the
// NAT-allocated port and the target port; the sides succeed only if they
// pick the same pair mirrored.
func HardHard(rng network.Rand, space network.Space, aProbes, bProbes int) (bool, error) {
	aState, err := pairs(rng, space, aProbes, false)
	if err != nil {
		return false, err
	}
	bState, err := pairs(rng, space, bProbes, true)
	if err != nil {
		return false, err
	}

	for p := range bState {
		if _, ok := aState[p]; ok {
			return true, nil
		}
	}
	return false, nil
}

func pairs(rng network.Rand, space network.Space, probes int, mirrored bool) (map[portPair]struct{}, error) {
	ports, err := space.Sample(rng, probes)
	if err != nil {
		return nil, err
	}
	targets, err := space.Sample(rng, probes)
	if err != nil {
		return nil, err
	}

	state := make(map[portPair]struct{}, probes)
	for i := range ports {
		if mirrored {
			state[portPair{first: targets[i], second: ports[i]}] = struct{}{}
		} else {
			state[portPair{first: ports[i], second: targets[i]}] = struct{}{}
		}
	}
	return state, nil
}

// Estimate is the observed hit frequency of the easy or hard sampler over
// the given number of trials.
func Estimate(rng network.Rand, space network.Space, aSide, bSide int, hard bool, trials int) (float64, error) {
	if trials < 1 {
		return 0, fmt.Errorf("trials must be positive, got %d", trials)
	}

	sample := EasyHard
	if hard {
		sample = HardHard
	}

	hits := 0
	for i := 0; i < trials; i++ {
		hit, err := sample(rng, space, aSide, bSide)
		if err != nil {
			return 0, err
		}
		if hit {
			hits++
		}
	}
	return float64(hits) / float64(trials), nil
}
