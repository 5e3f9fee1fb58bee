// Package sim drives birthday-paradox hole punching trials between two
// endpoint-dependent NAT devices.
package sim

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/cheahjs/punchsim/internal/network"
	"github.com/cheahjs/punchsim/internal/sim/nat"
	"github.com/cheahjs/punchsim/internal/sim/types"
)

const (
	progressEvery    = 10000
	cancelCheckEvery = 4096
)

var ErrInvalidParams = errors.New("invalid simulation parameters")

var (
	sideAIP = net.IPv4(198, 51, 100, 1)
	sideBIP = net.IPv4(203, 0, 113, 1)
)

type Params struct {
	// MappingWindow is how long a mapping survives without a refresh.
	MappingWindow time.Duration
	// TickDelta is the simulated time between rounds.
	TickDelta time.Duration
	// MaxRounds bounds the trial. The endpoint-dependent case has no
	// termination guarantee.
	MaxRounds int
	Space     network.Space
	Sink      nat.ProbeSink
}

func (p Params) Validate() error {
	if p.MappingWindow <= 0 {
		return fmt.Errorf("%w: mapping window %v", ErrInvalidParams, p.MappingWindow)
	}
	if p.TickDelta <= 0 {
		return fmt.Errorf("%w: tick delta %v", ErrInvalidParams, p.TickDelta)
	}
	if p.MaxRounds < 1 {
		return fmt.Errorf("%w: max rounds %d", ErrInvalidParams, p.MaxRounds)
	}
	if err := p.Space.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// Outcome of one trial. When Converged is false the round cap was exhausted
// and Iterations equals the cap.
type Outcome struct {
	Converged  bool
	Iterations int
	Elapsed    time.Duration
}

// Attempt runs one trial: each round A guesses at B, then B at A if A missed,
// and the clock moves on by TickDelta when both miss.
func Attempt(ctx context.Context, logger *zap.Logger, rng network.Rand, params Params) (Outcome, error) {
	if err := params.Validate(); err != nil {
		return Outcome{}, err
	}

	clock := types.NewClock()
	a, err := nat.NewDevice(logger, clock, nat.DeviceConfig{
		Name:        "a",
		WanIP:       sideAIP,
		ValidWindow: params.MappingWindow,
		Space:       params.Space,
		Sink:        params.Sink,
	})
	if err != nil {
		return Outcome{}, err
	}
	b, err := nat.NewDevice(logger, clock, nat.DeviceConfig{
		Name:        "b",
		WanIP:       sideBIP,
		ValidWindow: params.MappingWindow,
		Space:       params.Space,
		Sink:        params.Sink,
	})
	if err != nil {
		return Outcome{}, err
	}

	for round := 1; round <= params.MaxRounds; round++ {
		if a.Guess(rng, b) || b.Guess(rng, a) {
			logger.Debug("Guessed mirrored mapping",
				zap.Int("rounds", round), zap.Duration("elapsed", clock.Now()))
			return Outcome{Converged: true, Iterations: round, Elapsed: clock.Now()}, nil
		}
		if round == params.MaxRounds {
			break
		}
		if err := clock.Advance(params.TickDelta); err != nil {
			return Outcome{}, err
		}

		if round%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Outcome{}, err
			}
		}
		if round%progressEvery == 0 {
			if ce := logger.Check(zap.DebugLevel, "Still guessing"); ce != nil {
				ce.Write(zap.Int("rounds", round), zap.Int("mappings.a", a.Len()), zap.Int("mappings.b", b.Len()))
			}
		}
	}

	logger.Debug("Round cap exhausted", zap.Int("rounds", params.MaxRounds), zap.Duration("elapsed", clock.Now()))
	return Outcome{Converged: false, Iterations: params.MaxRounds, Elapsed: clock.Now()}, nil
}
