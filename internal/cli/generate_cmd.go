package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/cli/formatter"
)

func newGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <case-id>",
		Short: "Generate a succession roadmap for a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.Roadmaps.Generate(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Generated roadmap %s with %d tasks (phase: %s)\n",
				formatter.Bold(r.ID), r.TotalTasks, r.CurrentPhase)
			return nil
		},
	}
}
