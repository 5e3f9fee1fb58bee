package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cheahjs/punchsim/internal/command"
	"github.com/cheahjs/punchsim/internal/command/probability"
	"github.com/cheahjs/punchsim/internal/command/sample"
	"github.com/cheahjs/punchsim/internal/command/simulate"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Use:           "punchsim",
			Short:         "Estimates birthday paradox UDP hole punching between NATs",
			SilenceUsage:  true,
			SilenceErrors: true,
		},
	}

	command.RegisterGlobalFlags(rootCommand.baseCmd)

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		probability.GetCommand(),
		sample.GetCommand(),
		simulate.GetCommand(),
	)
}

func (rc *RootCommand) SetArgs(args []string) {
	rc.baseCmd.SetArgs(args)
}

func (rc *RootCommand) Command() *cobra.Command {
	return rc.baseCmd
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
