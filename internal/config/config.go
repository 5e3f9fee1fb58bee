package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/cheahjs/punchsim/internal/network"
	"github.com/cheahjs/punchsim/internal/sim"
)

// Config is a scenario. Files are only ever read; flags override them.
type Config struct {
	ASideProbes int  `yaml:"a_side_probes"`
	BSideProbes int  `yaml:"b_side_probes"`
	Hard        bool `yaml:"hard"`

	MappingWindow time.Duration `yaml:"mapping_window"`
	TickDelta     time.Duration `yaml:"tick_delta"`
	MaxRounds     int           `yaml:"max_rounds"`
	Trials        int           `yaml:"trials"`

	SampleTrials int `yaml:"sample_trials"`

	PortMin uint16 `yaml:"port_min"`
	PortMax uint16 `yaml:"port_max"`

	Seed *uint64 `yaml:"seed"`

	BucketWidth int `yaml:"bucket_width"`
	BucketCount int `yaml:"bucket_count"`

	CSVPath   string `yaml:"csv"`
	TracePath string `yaml:"trace"`
	LogLevel  string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		ASideProbes:   256,
		BSideProbes:   256,
		MappingWindow: 10 * time.Second,
		TickDelta:     50 * time.Millisecond,
		MaxRounds:     1_000_000,
		Trials:        1,
		SampleTrials:  10_000,
		PortMin:       network.MinPort,
		PortMax:       network.MaxPort,
		BucketWidth:   10_000,
		BucketCount:   10,
		LogLevel:      "info",
	}
}

// Load reads a YAML scenario on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Space() network.Space {
	return network.Space{Min: c.PortMin, Max: c.PortMax}
}

func (c *Config) SimParams() sim.Params {
	return sim.Params{
		MappingWindow: c.MappingWindow,
		TickDelta:     c.TickDelta,
		MaxRounds:     c.MaxRounds,
		Space:         c.Space(),
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error

	if c.ASideProbes < 0 {
		err = multierr.Append(err, fmt.Errorf("a_side_probes must not be negative, got %d", c.ASideProbes))
	}
	if c.BSideProbes < 0 {
		err = multierr.Append(err, fmt.Errorf("b_side_probes must not be negative, got %d", c.BSideProbes))
	}
	if c.MappingWindow <= 0 {
		err = multierr.Append(err, fmt.Errorf("mapping_window must be positive, got %v", c.MappingWindow))
	}
	if c.TickDelta <= 0 {
		err = multierr.Append(err, fmt.Errorf("tick_delta must be positive, got %v", c.TickDelta))
	}
	if c.MaxRounds < 1 {
		err = multierr.Append(err, fmt.Errorf("max_rounds must be at least 1, got %d", c.MaxRounds))
	}
	if c.Trials < 1 {
		err = multierr.Append(err, fmt.Errorf("trials must be at least 1, got %d", c.Trials))
	}
	if c.SampleTrials < 1 {
		err = multierr.Append(err, fmt.Errorf("sample_trials must be at least 1, got %d", c.SampleTrials))
	}
	if c.BucketWidth < 1 {
		err = multierr.Append(err, fmt.Errorf("bucket_width must be at least 1, got %d", c.BucketWidth))
	}
	if c.BucketCount < 1 {
		err = multierr.Append(err, fmt.Errorf("bucket_count must be at least 1, got %d", c.BucketCount))
	}
	if spaceErr := c.Space().Validate(); spaceErr != nil {
		err = multierr.Append(err, spaceErr)
	}

	return err
}
