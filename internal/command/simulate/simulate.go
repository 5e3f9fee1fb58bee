package simulate

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cheahjs/punchsim/internal/command"
)

func GetCommand() *cobra.Command {
	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Runs hole punching trials between two endpoint-dependent NATs until they guess a mirrored mapping",
		RunE:  runCommand,
	}

	setFlags(simulateCmd)

	return simulateCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(
		&params.trials,
		command.TrialsFlag,
		1,
		"number of independent trials",
	)

	cmd.Flags().DurationVar(
		&params.mappingWindow,
		mappingWindowFlag,
		10*time.Second,
		"how long a NAT mapping lives without traffic",
	)

	cmd.Flags().DurationVar(
		&params.tick,
		tickFlag,
		50*time.Millisecond,
		"simulated time between guess rounds",
	)

	cmd.Flags().IntVar(
		&params.maxRounds,
		maxRoundsFlag,
		1_000_000,
		"give up on a trial after this many rounds",
	)

	cmd.Flags().StringVar(
		&params.csvPath,
		csvFlag,
		"",
		"write one CSV row per trial to this file",
	)

	cmd.Flags().StringVar(
		&params.tracePath,
		traceFlag,
		"",
		"write every simulated probe to this pcap file",
	)

	cmd.Flags().IntVar(
		&params.bucketWidth,
		bucketWidthFlag,
		10_000,
		"histogram bucket width in rounds",
	)

	cmd.Flags().IntVar(
		&params.buckets,
		bucketsFlag,
		10,
		"number of histogram buckets",
	)
}

func runCommand(cmd *cobra.Command, _ []string) error {
	if err := params.initConfig(cmd); err != nil {
		return err
	}
	defer params.logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := params.run(ctx); err != nil {
		return err
	}

	result, err := params.getResult()
	if err != nil {
		return err
	}

	return command.WriteResult(cmd, result)
}
