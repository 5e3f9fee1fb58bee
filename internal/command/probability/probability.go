package probability

import (
	"github.com/spf13/cobra"

	"github.com/cheahjs/punchsim/internal/command"
)

func GetCommand() *cobra.Command {
	probabilityCmd := &cobra.Command{
		Use:   "probability",
		Short: "Calculates the birthday paradox probability of a successful NAT traversal",
		RunE:  runCommand,
	}

	setFlags(probabilityCmd)

	return probabilityCmd
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
}

func runCommand(cmd *cobra.Command, _ []string) error {
	if err := params.initConfig(cmd); err != nil {
		return err
	}
	if err := params.calculate(); err != nil {
		return err
	}

	return command.WriteResult(cmd, params.getResult())
}
