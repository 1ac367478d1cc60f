package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/contract"
)

const phaseBarWidth = 12

// FormatStatus renders the roadmap dashboard: phase progression, task table
// and the blocked/overdue summary line.
func FormatStatus(view *contract.StatusView, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n", Bold("Case "+view.CaseID), RoadmapStatusPill(view.Status)))
	b.WriteString(RenderProgress(view.OverallPercent, 2*phaseBarWidth) + Dim("  overall") + "\n\n")

	for _, p := range view.Phases {
		marker := " "
		if p.Current {
			marker = StyleHeader.Render("▶")
		}
		b.WriteString(fmt.Sprintf("%s %-14s %s  %s\n",
			marker,
			PhaseLabel(p.Phase, p.Current),
			RenderProgress(p.Percent, phaseBarWidth),
			Dim(fmt.Sprintf("%d/%d", p.Completed, p.Total)),
		))
	}
	b.WriteString("\n")

	headers := []string{"CODE", "TITLE", "PRI", "STATUS", "DUE"}
	rows := make([][]string, 0, len(view.Tasks))
	for _, t := range view.Tasks {
		due := Dim("--")
		if t.DueDate != nil {
			due = DueDateStyled(*t.DueDate, now)
		}
		title := t.Title
		if t.IsOverdue {
			title = StyleRed.Render(title)
		}
		rows = append(rows, []string{
			Dim(t.Code),
			title,
			PriorityPill(t.Priority),
			TaskStatusPill(t.Status),
			due,
		})
	}
	b.WriteString(RenderTable(headers, rows))

	b.WriteString("\n")
	completed := StyleGreen.Render(fmt.Sprintf("%d Completed", view.CompletedTasks))
	blocked := StyleRed.Render(fmt.Sprintf("%d Blocked", view.BlockedTasks))
	overdue := StyleYellow.Render(fmt.Sprintf("%d Overdue", view.OverdueTasks))
	b.WriteString(fmt.Sprintf("%s of %d  %s  %s\n", completed, view.TotalTasks, blocked, overdue))

	if len(view.BlockedByRiskIDs) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleYellow.Render(fmt.Sprintf("  WARNING: blocked by %d active risk(s): %s",
			len(view.BlockedByRiskIDs), strings.Join(view.BlockedByRiskIDs, ", "))) + "\n")
	}

	return RenderBox("Roadmap", b.String())
}
