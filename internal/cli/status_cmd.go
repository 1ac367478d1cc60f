package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/cli/formatter"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/contract"
)

func newStatusCmd(app *App) *cobra.Command {
	var caseID string

	cmd := &cobra.Command{
		Use:   "status [roadmap-id]",
		Short: "Show roadmap status with phase and task progress",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var view *contract.StatusView
			var err error
			switch {
			case len(args) == 1:
				view, err = app.Roadmaps.Status(ctx, args[0])
			case caseID != "":
				r, findErr := app.Roadmaps.GetByCase(ctx, caseID)
				if findErr != nil {
					return findErr
				}
				view, err = app.Roadmaps.Status(ctx, r.ID)
			default:
				return fmt.Errorf("provide a roadmap ID or --case")
			}
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatStatus(view, time.Now().UTC()))
			return nil
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Look up the roadmap by case ID")

	return cmd
}
