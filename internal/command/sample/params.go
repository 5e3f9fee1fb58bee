package sample

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cheahjs/punchsim/internal/command"
	"github.com/cheahjs/punchsim/internal/config"
	"github.com/cheahjs/punchsim/internal/paradox"
)

var (
	params = &sampleParams{}
)

type sampleParams struct {
	aSideProbes int
	bSideProbes int
	hard        bool
	trials      int

	cfg      *config.Config
	logger   *zap.SugaredLogger
	seed     uint64
	analytic float64
	observed float64
}

func (p *sampleParams) initConfig(cmd *cobra.Command) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case command.ASideProbesFlag:
			cfg.ASideProbes = p.aSideProbes
		case command.BSideProbesFlag:
			cfg.BSideProbes = p.bSideProbes
		case command.HardFlag:
			cfg.Hard = p.hard
		case command.TrialsFlag:
			cfg.SampleTrials = p.trials
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := command.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	p.cfg = cfg
	p.logger = logger.With("cmd", "sample")
	return nil
}

func (p *sampleParams) estimate() error {
	space := p.cfg.Space()

	analytic, err := paradox.ProbabilityIn(space, p.cfg.ASideProbes, p.cfg.BSideProbes, p.cfg.Hard)
	if err != nil {
		return err
	}

	rng, seed := command.NewRand(p.cfg.Seed)
	p.logger.Infof("Sampling %d one-shot trials with seed %d", p.cfg.SampleTrials, seed)

	observed, err := paradox.Estimate(rng, space, p.cfg.ASideProbes, p.cfg.BSideProbes, p.cfg.Hard, p.cfg.SampleTrials)
	if err != nil {
		return err
	}

	p.seed = seed
	p.analytic = analytic
	p.observed = observed
	return nil
}

func (p *sampleParams) getResult() command.CommandResult {
	return &SampleResult{
		Hard:     p.cfg.Hard,
		ASide:    p.cfg.ASideProbes,
		BSide:    p.cfg.BSideProbes,
		Trials:   p.cfg.SampleTrials,
		Seed:     p.seed,
		Analytic: p.analytic,
		Observed: p.observed,
	}
}
