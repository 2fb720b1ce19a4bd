package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "coachctl",
		Short:         "Run interview practice evaluations from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newGoalsCmd())
	return root
}
