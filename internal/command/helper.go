package command

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cheahjs/punchsim/internal/config"
)

const (
	ConfigFlag   = "config"
	SeedFlag     = "seed"
	LogLevelFlag = "log-level"
	PortMinFlag  = "port-min"
	PortMaxFlag  = "port-max"
	JSONFlag     = "json"

	ASideProbesFlag = "a-side-probes"
	BSideProbesFlag = "b-side-probes"
	HardFlag        = "hard"
	TrialsFlag      = "trials"
)

// CommandResult is anything a command prints on success.
type CommandResult interface {
	GetOutput() string
}

// RegisterGlobalFlags adds the flags shared by every subcommand.
func RegisterGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(ConfigFlag, "", "YAML scenario file, flags override its values")
	cmd.PersistentFlags().Uint64(SeedFlag, 0, "seed for the random source (random if unset)")
	cmd.PersistentFlags().String(LogLevelFlag, "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().Uint16(PortMinFlag, 0, "lowest port in the port space")
	cmd.PersistentFlags().Uint16(PortMaxFlag, 0, "exclusive upper bound of the port space")
	cmd.PersistentFlags().Bool(JSONFlag, false, "print the result as JSON")
}

// LoadConfig reads the scenario file, if any, and applies the global flags
// the user set explicitly.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := config.Default()
	if path, _ := flags.GetString(ConfigFlag); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var err error
	flags.Visit(func(f *pflag.Flag) {
		var flagErr error
		switch f.Name {
		case SeedFlag:
			var seed uint64
			seed, flagErr = flags.GetUint64(SeedFlag)
			cfg.Seed = &seed
		case LogLevelFlag:
			cfg.LogLevel = f.Value.String()
		case PortMinFlag:
			cfg.PortMin, flagErr = flags.GetUint16(PortMinFlag)
		case PortMaxFlag:
			cfg.PortMax, flagErr = flags.GetUint16(PortMaxFlag)
		}
		if flagErr != nil && err == nil {
			err = fmt.Errorf("--%s: %w", f.Name, flagErr)
		}
	})
	return cfg, err
}

// NewLogger builds the development logger used by every command, writing to
// stderr so results on stdout stay clean.
func NewLogger(level string) (*zap.SugaredLogger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.Level = atomicLevel
	zapConfig.OutputPaths = []string{"stderr"}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// NewRand returns the seeded random source and the seed it used.
func NewRand(seed *uint64) (*rand.Rand, uint64) {
	s := rand.Uint64()
	if seed != nil {
		s = *seed
	}
	return rand.New(rand.NewPCG(s, s)), s
}

func shouldOutputJSON(cmd *cobra.Command) bool {
	flag := cmd.Flag(JSONFlag)
	return flag != nil && flag.Changed
}

// WriteResult prints a command result to the command's output, as JSON when
// --json is set.
func WriteResult(cmd *cobra.Command, result CommandResult) error {
	if !shouldOutputJSON(cmd) {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), result.GetOutput())
		return nil
	}

	bytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(bytes))
	return nil
}
