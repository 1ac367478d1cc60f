package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

func newPhaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Advance the roadmap through its phases",
	}
	cmd.AddCommand(newPhaseAdvanceCmd(app), newPhaseForceCmd(app))
	return cmd
}

func newPhaseAdvanceCmd(app *App) *cobra.Command {
	var auto bool

	cmd := &cobra.Command{
		Use:   "advance <roadmap-id>",
		Short: "Advance to the next phase once the current one is complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if auto {
				advanced, err := app.Roadmaps.TryAutoAdvance(ctx, args[0])
				if err != nil {
					return err
				}
				if !advanced {
					fmt.Println("Phase threshold not met; nothing advanced.")
					return nil
				}
			} else if err := app.Roadmaps.AdvancePhase(ctx, args[0]); err != nil {
				return err
			}

			r, err := app.Roadmaps.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if r.Status == domain.RoadmapCompleted {
				fmt.Println("Roadmap completed.")
				return nil
			}
			fmt.Printf("Advanced to phase %s\n", r.CurrentPhase)
			return nil
		},
	}
	cmd.Flags().BoolVar(&auto, "if-ready", false, "Advance only when the threshold is met instead of failing")
	return cmd
}

func newPhaseForceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "force <roadmap-id> <phase>",
		Short: "Force the roadmap into a later phase, bypassing thresholds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := domain.Phase(args[1])
			if err := app.Roadmaps.ForcePhase(context.Background(), args[0], target); err != nil {
				return err
			}
			fmt.Printf("Forced phase to %s\n", target)
			return nil
		},
	}
}
