package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/goals"
)

func newGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "List the known interview goals and age groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			catalog, err := goals.Load(cfg.Goals.File)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GOAL\tCATEGORY\tLABEL")
			for _, g := range catalog.Goals {
				fmt.Fprintf(w, "%s\t%s\t%s\n", g.Key, g.Category, g.Label)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "AGE GROUP\tLABEL")
			for _, a := range catalog.AgeGroups {
				fmt.Fprintf(w, "%s\t%s\n", a.Key, a.Label)
			}
			return w.Flush()
		},
	}
}
