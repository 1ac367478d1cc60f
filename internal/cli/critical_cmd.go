package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/cli/formatter"
)

func newCriticalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "critical <roadmap-id>",
		Short: "Show the critical path and parallel opportunities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Roadmaps.CriticalPath(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatCriticalPath(view))
			return nil
		},
	}
}

func newAnalyticsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics <roadmap-id>",
		Short: "Show duration, cost and bottleneck estimates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Roadmaps.Analytics(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatAnalytics(view))
			return nil
		},
	}
}

func newOptimizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize <roadmap-id>",
		Short: "Raise priorities of critical and overdue tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upgrades, err := app.Roadmaps.Optimize(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatUpgrades(upgrades))
			return nil
		},
	}
}

func newSweepCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep <roadmap-id>",
		Short: "Flag tasks past their due date as overdue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flagged, err := app.Roadmaps.SweepOverdue(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(flagged) == 0 {
				fmt.Println("No newly overdue tasks.")
				return nil
			}
			for _, id := range flagged {
				fmt.Printf("%s %s\n", formatter.StyleRed.Render("overdue:"), id)
			}
			return nil
		},
	}
}
