package network

import (
	"errors"
	"fmt"
)

const (
	// MinPort is the lowest port a NAT hands out or a peer probes.
	MinPort = 1025
	// MaxPort is the exclusive upper bound of the usable port range.
	MaxPort = 65535
)

var (
	ErrSampleTooLarge = errors.New("sample larger than port space")
	ErrInvalidSpace   = errors.New("invalid port space")
)

// Rand is the random source every sampling and guessing operation draws from.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Space is the half-open port range [Min, Max).
type Space struct {
	Min uint16
	Max uint16
}

// DefaultSpace is the unprivileged port range, 64510 ports.
var DefaultSpace = Space{Min: MinPort, Max: MaxPort}

func (s Space) Size() int {
	return int(s.Max) - int(s.Min)
}

func (s Space) Validate() error {
	if s.Max <= s.Min {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidSpace, s.Min, s.Max)
	}
	return nil
}

func (s Space) Contains(port uint16) bool {
	return port >= s.Min && port < s.Max
}

// Port draws one port uniformly from the space.
func (s Space) Port(rng Rand) uint16 {
	return s.Min + uint16(rng.IntN(s.Size()))
}

// Sample draws k distinct ports in random order, like a partial Fisher-Yates
// shuffle of the whole space. Only displaced slots are kept in memory.
func (s Space) Sample(rng Rand, k int) ([]uint16, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	n := s.Size()
	if k < 0 || k > n {
		return nil, fmt.Errorf("%w: %d of %d", ErrSampleTooLarge, k, n)
	}

	swapped := make(map[int]int, k)
	slot := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}

	out := make([]uint16, k)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		vi, vj := slot(i), slot(j)
		swapped[i], swapped[j] = vj, vi
		out[i] = s.Min + uint16(vj)
	}
	return out, nil
}
