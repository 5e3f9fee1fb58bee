package simulate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cheahjs/punchsim/internal/command"
	"github.com/cheahjs/punchsim/internal/config"
	"github.com/cheahjs/punchsim/internal/metrics"
	"github.com/cheahjs/punchsim/internal/report"
	"github.com/cheahjs/punchsim/internal/sim"
	"github.com/cheahjs/punchsim/internal/sim/trace"
)

const (
	mappingWindowFlag = "mapping-window"
	tickFlag          = "tick"
	maxRoundsFlag     = "max-rounds"
	csvFlag           = "csv"
	traceFlag         = "trace"
	bucketWidthFlag   = "bucket-width"
	bucketsFlag       = "buckets"
)

var (
	params = &simulateParams{}
)

type simulateParams struct {
	trials        int
	mappingWindow time.Duration
	tick          time.Duration
	maxRounds     int
	csvPath       string
	tracePath     string
	bucketWidth   int
	buckets       int

	cfg      *config.Config
	logger   *zap.SugaredLogger
	registry *prometheus.Registry
	batch    *sim.Batch
}

func (p *simulateParams) initConfig(cmd *cobra.Command) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case command.TrialsFlag:
			cfg.Trials = p.trials
		case mappingWindowFlag:
			cfg.MappingWindow = p.mappingWindow
		case tickFlag:
			cfg.TickDelta = p.tick
		case maxRoundsFlag:
			cfg.MaxRounds = p.maxRounds
		case csvFlag:
			cfg.CSVPath = p.csvPath
		case traceFlag:
			cfg.TracePath = p.tracePath
		case bucketWidthFlag:
			cfg.BucketWidth = p.bucketWidth
		case bucketsFlag:
			cfg.BucketCount = p.buckets
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
	p.logger = logger.With("cmd", "simulate")
	return nil
}

func (p *simulateParams) run(ctx context.Context) (err error) {
	simParams := p.cfg.SimParams()

	p.registry = prometheus.NewRegistry()
	m, err := metrics.NewMetrics(p.registry, metrics.LinearBuckets(
		float64(p.cfg.BucketWidth), p.cfg.BucketCount, p.cfg.TickDelta.Seconds()))
	if err != nil {
		return err
	}

	if p.cfg.TracePath != "" {
		w, closeTrace, traceErr := p.openTrace()
		if traceErr != nil {
			return traceErr
		}
		defer func() {
			err = errors.Join(err, closeTrace())
		}()
		simParams.Sink = w
	}

	rng, seed := command.NewRand(p.cfg.Seed)
	p.logger.Infof("Using seed %d", seed)

	runner := sim.NewRunner(p.logger, clock.New(), rng, simParams, m)
	p.batch, err = runner.Run(ctx, p.cfg.Trials)
	if err != nil {
		return err
	}

	if p.cfg.CSVPath != "" {
		return p.writeCSV()
	}
	return nil
}

func (p *simulateParams) openTrace() (*trace.PcapWriter, func() error, error) {
	f, err := os.Create(p.cfg.TracePath)
	if err != nil {
		return nil, nil, err
	}

	w, err := trace.NewPcapWriter(p.logger, f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	closeTrace := func() error {
		if err := w.Err(); err != nil {
			f.Close()
			return fmt.Errorf("trace %s: %w", p.cfg.TracePath, err)
		}
		p.logger.Infof("Wrote %d probes to %s", w.Written(), p.cfg.TracePath)
		return f.Close()
	}
	return w, closeTrace, nil
}

func (p *simulateParams) writeCSV() error {
	f, err := os.Create(p.cfg.CSVPath)
	if err != nil {
		return err
	}
	if err := report.WriteCSV(f, p.batch.Outcomes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (p *simulateParams) getResult() (command.CommandResult, error) {
	result := &SimulateResult{
		Summary: report.Summarize(p.batch),
	}
	for _, name := range []string{metrics.IterationsName, metrics.ElapsedName} {
		histogram, err := report.GatherHistogram(p.registry, name)
		if err != nil {
			return nil, err
		}
		result.Histograms = append(result.Histograms, histogram)
	}
	return result, nil
}
