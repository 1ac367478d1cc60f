package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRiskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Manage risk links on the roadmap",
	}
	cmd.AddCommand(newRiskResolveCmd(app))
	return cmd
}

func newRiskResolveCmd(app *App) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "resolve <roadmap-id> <risk-id>",
		Short: "Resolve a risk, unblocking the tasks it held",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unlocked, err := app.Roadmaps.UnlinkRisk(context.Background(), args[0], args[1], actor)
			if err != nil {
				return err
			}
			fmt.Printf("Risk %s resolved.\n", args[1])
			printUnlocked(unlocked)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Who resolves the risk")
	return cmd
}
