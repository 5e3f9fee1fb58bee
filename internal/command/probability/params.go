package probability

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cheahjs/punchsim/internal/command"
	"github.com/cheahjs/punchsim/internal/config"
	"github.com/cheahjs/punchsim/internal/paradox"
)

var (
	params = &probabilityParams{}
)

type probabilityParams struct {
	aSideProbes int
	bSideProbes int
	hard        bool

	cfg         *config.Config
	probability float64
}

func (p *probabilityParams) initConfig(cmd *cobra.Command) error {
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
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	p.cfg = cfg
	return nil
}

func (p *probabilityParams) calculate() error {
	prob, err := paradox.ProbabilityIn(p.cfg.Space(), p.cfg.ASideProbes, p.cfg.BSideProbes, p.cfg.Hard)
	if err != nil {
		return err
	}
	p.probability = prob
	return nil
}

func (p *probabilityParams) getResult() command.CommandResult {
	space := p.cfg.Space()
	return &ProbabilityResult{
		Hard:        p.cfg.Hard,
		ASide:       p.cfg.ASideProbes,
		BSide:       p.cfg.BSideProbes,
		ACoverage:   paradox.SearchSpaceFraction(space, p.cfg.ASideProbes, p.cfg.Hard),
		BCoverage:   paradox.SearchSpaceFraction(space, p.cfg.BSideProbes, p.cfg.Hard),
		Probability: p.probability,
	}
}
