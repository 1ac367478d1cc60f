package cli

import (
	"github.com/spf13/cobra"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/service"
)

// App holds the service interfaces used by CLI commands.
type App struct {
	Roadmaps service.RoadmapService
}

// NewRootCmd creates the top-level "mirathi" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "mirathi",
		Short:         "Executor roadmap engine for succession cases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCmd(app),
		newStatusCmd(app),
		newTaskCmd(app),
		newPhaseCmd(app),
		newRiskCmd(app),
		newCriticalCmd(app),
		newAnalyticsCmd(app),
		newOptimizeCmd(app),
		newSweepCmd(app),
	)

	return root
}
