package sample

import (
	"github.com/spf13/cobra"

	"github.com/cheahjs/punchsim/internal/command"
)

func GetCommand() *cobra.Command {
	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "Checks the calculated probability against one-shot random port samples",
		RunE:  runCommand,
	}

	setFlags(sampleCmd)

	return sampleCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(
		&params.aSideProbes,
		command.ASideProbesFlag,
		256,
		"number of probe attempts from the A side",
	)

	cmd.Flags().IntVar(
		&params.bSideProbes,
		command.BSideProbesFlag,
		256,
		"number of probe attempts from the B side",
	)

	cmd.Flags().BoolVar(
		&params.hard,
		command.HardFlag,
		false,
		"two endpoint-dependent NATs instead of one",
	)

	cmd.Flags().IntVar(
		&params.trials,
		command.TrialsFlag,
		10_000,
		"number of one-shot trials to sample",
	)
}

func runCommand(cmd *cobra.Command, _ []string) error {
	if err := params.initConfig(cmd); err != nil {
		return err
	}
	defer params.logger.Sync()

	if err := params.estimate(); err != nil {
		return err
	}

	return command.WriteResult(cmd, params.getResult())
}
