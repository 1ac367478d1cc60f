package formatter

import (
	"fmt"
	"strings"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/contract"
)

// FormatCriticalPath renders the scheduling analysis: the zero-float chain
// with early start/finish windows, plus tasks safe to run in parallel.
func FormatCriticalPath(view *contract.CriticalPathView) string {
	var b strings.Builder

	b.WriteString(Bold(fmt.Sprintf("Projected duration: %d working days", view.ProjectDurationDays)) + "\n\n")

	if len(view.CriticalTasks) == 0 {
		b.WriteString(Dim("No critical path: the roadmap has no unresolved dependency chain.") + "\n")
		return RenderBox("Critical Path", b.String())
	}

	headers := []string{"", "CODE", "TITLE", "PHASE", "DAYS", "WINDOW"}
	rows := make([][]string, 0, len(view.CriticalTasks))
	for i, t := range view.CriticalTasks {
		connector := "├─"
		if i == len(view.CriticalTasks)-1 {
			connector = "└─"
		}
		rows = append(rows, []string{
			StyleRed.Render(connector),
			Dim(t.Code),
			StyleFg.Render(t.Title),
			PhaseLabel(t.Phase, false),
			fmt.Sprintf("%d", t.Duration),
			Dim(fmt.Sprintf("day %d-%d", t.ES, t.EF)),
		})
	}
	b.WriteString(RenderTable(headers, rows))

	if len(view.ParallelTaskIDs) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleGreen.Render(fmt.Sprintf("%d task(s) can proceed in parallel without delaying completion", len(view.ParallelTaskIDs))) + "\n")
	}

	return RenderBox("Critical Path", b.String())
}

// FormatAnalytics renders the planning snapshot.
func FormatAnalytics(view *contract.AnalyticsView) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%-20s %s\n", "Estimated duration", Bold(fmt.Sprintf("%d working days", view.EstimatedDays))))
	b.WriteString(fmt.Sprintf("%-20s %s\n", "Estimated cost", Bold(fmt.Sprintf("%.0f", view.EstimatedCost))))
	b.WriteString(fmt.Sprintf("%-20s %s\n", "Complexity", scoreStyled(view.ComplexityScore)))
	b.WriteString(fmt.Sprintf("%-20s %s\n", "Risk exposure", scoreStyled(view.RiskExposure)))

	if len(view.Bottlenecks) > 0 {
		b.WriteString("\n" + Header("Bottlenecks") + "\n")
		for _, bn := range view.Bottlenecks {
			marker := StyleYellow.Render("◆")
			if bn.OnCriticalPath {
				marker = StyleRed.Render("◆")
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", marker, StyleFg.Render(bn.Title),
				Dim(fmt.Sprintf("(%d downstream)", bn.Dependents))))
		}
	}

	return RenderBox("Analytics", b.String())
}

// FormatUpgrades renders applied priority upgrades.
func FormatUpgrades(upgrades []contract.PriorityUpgradeView) string {
	if len(upgrades) == 0 {
		return Dim("No priority changes suggested.") + "\n"
	}
	var b strings.Builder
	for _, u := range upgrades {
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			StyleYellow.Render("↑"),
			Dim(u.TaskID),
			Bold(fmt.Sprintf("%s → %s", u.From, u.To)),
			Dim(strings.Join(u.Reasons, "; ")),
		))
	}
	return b.String()
}

func scoreStyled(score float64) string {
	text := fmt.Sprintf("%.0f / 100", score)
	switch {
	case score >= 66:
		return StyleRed.Render(text)
	case score >= 33:
		return StyleYellow.Render(text)
	default:
		return StyleGreen.Render(text)
	}
}
