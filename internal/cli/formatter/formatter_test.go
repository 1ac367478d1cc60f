package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/contract"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestRenderProgress_Bounds(t *testing.T) {
	assert.Contains(t, RenderProgress(-10, 10), "  0%")
	assert.Contains(t, RenderProgress(250, 10), "100%")
	assert.Contains(t, RenderProgress(45, 10), " 45%")
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable([]string{"A", "LONGHEADER"}, [][]string{
		{"x", "y"},
		{"longer", "z"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "header, separator, two rows")
	assert.Contains(t, lines[0], "LONGHEADER")
	assert.Contains(t, lines[1], "─")
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Roadmap", "content")
	assert.Contains(t, out, "ROADMAP")
	assert.Contains(t, out, "content")
	assert.Contains(t, out, "╭")
}

func TestRelativeDateFrom(t *testing.T) {
	cases := []struct {
		offset time.Duration
		want   string
	}{
		{0, "Today"},
		{24 * time.Hour, "Tomorrow"},
		{-24 * time.Hour, "Yesterday"},
		{5 * 24 * time.Hour, "In 5d"},
		{-3 * 24 * time.Hour, "3d ago"},
		{21 * 24 * time.Hour, "In 3w"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RelativeDateFrom(testNow.Add(tc.offset), testNow), "offset=%v", tc.offset)
	}
}

func TestFormatStatus(t *testing.T) {
	due := testNow.AddDate(0, 0, 3)
	view := &contract.StatusView{
		RoadmapID:      "rm-1",
		CaseID:         "case-1",
		Status:         domain.RoadmapActive,
		CurrentPhase:   domain.PhasePreFiling,
		OverallPercent: 50,
		TotalTasks:     2,
		CompletedTasks: 1,
		Phases: []contract.PhaseProgressView{
			{Phase: domain.PhasePreFiling, Completed: 1, Total: 2, Percent: 50, Current: true},
			{Phase: domain.PhaseFiling},
		},
		Tasks: []contract.TaskView{
			{Code: "a", Title: "Obtain certificate", Priority: domain.PriorityCritical, Status: domain.TaskCompleted},
			{Code: "b", Title: "Map family tree", Priority: domain.PriorityHigh, Status: domain.TaskPending, DueDate: &due, CanStart: true},
		},
		BlockedByRiskIDs: []string{"risk-7"},
	}

	out := FormatStatus(view, testNow)
	assert.Contains(t, out, "case-1")
	assert.Contains(t, out, "Obtain certificate")
	assert.Contains(t, out, "Map family tree")
	assert.Contains(t, out, "risk-7")
	assert.Contains(t, out, "1 Completed")
}

func TestFormatCriticalPath(t *testing.T) {
	view := &contract.CriticalPathView{
		ProjectDurationDays: 12,
		CriticalTasks: []contract.CriticalTaskView{
			{TaskID: "t1", Code: "a", Title: "First", Phase: domain.PhasePreFiling, Duration: 2, ES: 0, EF: 2},
			{TaskID: "t2", Code: "b", Title: "Second", Phase: domain.PhaseFiling, Duration: 10, ES: 2, EF: 12},
		},
		ParallelTaskIDs: []string{"t3"},
	}
	out := FormatCriticalPath(view)
	assert.Contains(t, out, "12 working days")
	assert.Contains(t, out, "First")
	assert.Contains(t, out, "Second")
	assert.Contains(t, out, "in parallel")
}

func TestFormatCriticalPath_Empty(t *testing.T) {
	out := FormatCriticalPath(&contract.CriticalPathView{})
	assert.Contains(t, out, "No critical path")
}

func TestFormatUpgrades(t *testing.T) {
	out := FormatUpgrades([]contract.PriorityUpgradeView{
		{TaskID: "t1", From: domain.PriorityLow, To: domain.PriorityMedium, Reasons: []string{"Past its due date"}},
	})
	assert.Contains(t, out, "low")
	assert.Contains(t, out, "medium")
	assert.Contains(t, out, "Past its due date")

	assert.Contains(t, FormatUpgrades(nil), "No priority changes")
}
