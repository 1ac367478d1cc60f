package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// TaskStatusPill returns a colored indicator for a task status.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.TaskCompleted:
		return StyleGreen.Render("● DONE")
	case domain.TaskInProgress:
		return StyleBlue.Render("● ACTIVE")
	case domain.TaskPending:
		return StyleFg.Render("○ READY")
	case domain.TaskBlocked:
		return StyleRed.Render("● BLOCKED")
	case domain.TaskLocked:
		return StyleDim.Render("○ LOCKED")
	case domain.TaskSkipped:
		return StyleDim.Render("● SKIPPED")
	case domain.TaskWaived:
		return StylePurple.Render("● WAIVED")
	default:
		return StyleDim.Render("● ?")
	}
}

// RoadmapStatusPill returns a colored indicator for a roadmap status.
func RoadmapStatusPill(status domain.RoadmapStatus) string {
	switch status {
	case domain.RoadmapActive:
		return StyleGreen.Render("● ACTIVE")
	case domain.RoadmapCompleted:
		return StyleBlue.Render("● COMPLETED")
	case domain.RoadmapBlocked:
		return StyleRed.Render("● BLOCKED")
	case domain.RoadmapEscalated:
		return StyleRed.Render("● ESCALATED")
	case domain.RoadmapPaused:
		return StyleYellow.Render("● PAUSED")
	case domain.RoadmapAbandoned:
		return StyleDim.Render("● ABANDONED")
	default:
		return StyleDim.Render("● DRAFT")
	}
}

// PriorityPill returns a colored priority label.
func PriorityPill(p domain.TaskPriority) string {
	switch p {
	case domain.PriorityCritical:
		return StyleRed.Render("CRIT")
	case domain.PriorityHigh:
		return StyleYellow.Render("HIGH")
	case domain.PriorityMedium:
		return StyleFg.Render("MED")
	default:
		return StyleDim.Render("LOW")
	}
}

// PhaseLabel renders a phase name, highlighting the current one.
func PhaseLabel(p domain.Phase, current bool) string {
	label := strings.ReplaceAll(string(p), "_", " ")
	if current {
		return StyleHeader.Render(strings.ToUpper(label))
	}
	return StyleDim.Render(label)
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
