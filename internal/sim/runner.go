package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cheahjs/punchsim/internal/network"
)

// Observer is told about every finished trial.
type Observer interface {
	Observe(o Outcome)
}

// Batch is the result of running independent trials back to back.
type Batch struct {
	ID       uuid.UUID
	Params   Params
	Outcomes []Outcome
	WallTime time.Duration
}

func (b *Batch) Converged() int {
	n := 0
	for _, o := range b.Outcomes {
		if o.Converged {
			n++
		}
	}
	return n
}

type Runner struct {
	logger    *zap.SugaredLogger
	wall      clock.Clock
	rng       network.Rand
	params    Params
	observers []Observer
}

func NewRunner(logger *zap.SugaredLogger, wall clock.Clock, rng network.Rand, params Params, observers ...Observer) *Runner {
	return &Runner{
		logger:    logger,
		wall:      wall,
		rng:       rng,
		params:    params,
		observers: observers,
	}
}

// Run executes trials sequentially on one timeline. A cancelled context stops
// the batch and returns the outcomes gathered so far along with the error.
func (r *Runner) Run(ctx context.Context, trials int) (*Batch, error) {
	if trials < 1 {
		return nil, fmt.Errorf("%w: trials %d", ErrInvalidParams, trials)
	}
	if err := r.params.Validate(); err != nil {
		return nil, err
	}

	batch := &Batch{
		ID:       uuid.New(),
		Params:   r.params,
		Outcomes: make([]Outcome, 0, trials),
	}
	logger := r.logger.With("run", batch.ID.String())
	logger.Infof("Running %d trials, mapping window %v, tick %v, round cap %d",
		trials, r.params.MappingWindow, r.params.TickDelta, r.params.MaxRounds)

	start := r.wall.Now()
	defer func() {
		batch.WallTime = r.wall.Since(start)
	}()

	for i := 0; i < trials; i++ {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		outcome, err := Attempt(ctx, logger.Desugar().With(zap.Int("trial", i)), r.rng, r.params)
		if err != nil {
			return batch, err
		}
		batch.Outcomes = append(batch.Outcomes, outcome)
		for _, o := range r.observers {
			o.Observe(outcome)
		}
		if !outcome.Converged {
			logger.Warnf("Trial %d did not converge within %d rounds", i, outcome.Iterations)
		}
	}

	logger.Infof("Finished %d trials, %d converged", trials, batch.Converged())
	return batch, nil
}
