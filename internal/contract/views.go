package contract

import (
	"time"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

// PhaseProgressView is one phase's completion accounting for display.
type PhaseProgressView struct {
	Phase     domain.Phase
	Completed int
	Total     int
	Percent   float64
	Current   bool
}

// TaskView is the presentation shape of a single task.
type TaskView struct {
	ID        string
	Code      string
	Title     string
	Category  domain.TaskCategory
	Phase     domain.Phase
	Priority  domain.TaskPriority
	Status    domain.TaskStatus
	DueDate   *time.Time
	IsOverdue bool
	CanStart  bool
}

// StatusView is the full roadmap status response.
type StatusView struct {
	RoadmapID        string
	CaseID           string
	Status           domain.RoadmapStatus
	CurrentPhase     domain.Phase
	OverallPercent   float64
	TotalTasks       int
	CompletedTasks   int
	SkippedTasks     int
	BlockedTasks     int
	OverdueTasks     int
	BlockedByRiskIDs []string
	Phases           []PhaseProgressView
	Tasks            []TaskView
}

// CriticalTaskView is one entry on the computed critical path.
type CriticalTaskView struct {
	TaskID   string
	Code     string
	Title    string
	Phase    domain.Phase
	Duration int // workdays
	ES, EF   int
	Float    int
}

// CriticalPathView is the scheduling analysis response.
type CriticalPathView struct {
	ProjectDurationDays int
	CriticalTasks       []CriticalTaskView
	// ParallelTaskIDs are pending tasks with positive float, safe to work
	// out of strict order.
	ParallelTaskIDs []string
}

// BottleneckView is a predicted chokepoint in the plan.
type BottleneckView struct {
	TaskID         string
	Title          string
	Dependents     int
	OnCriticalPath bool
}

// AnalyticsView is the recomputable planning snapshot response.
type AnalyticsView struct {
	EstimatedDays   int
	EstimatedCost   float64
	ComplexityScore float64
	RiskExposure    float64
	Bottlenecks     []BottleneckView
}

// PriorityUpgradeView is one suggested or applied priority raise.
type PriorityUpgradeView struct {
	TaskID  string
	From    domain.TaskPriority
	To      domain.TaskPriority
	Reasons []string
}
