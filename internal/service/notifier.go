package service

import (
	"context"
	"time"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

type EventKind string

const (
	EventRoadmapGenerated EventKind = "ROADMAP_GENERATED"
	EventRoadmapCompleted EventKind = "ROADMAP_COMPLETED"
	EventPhaseAdvanced    EventKind = "PHASE_ADVANCED"
	EventTaskStarted      EventKind = "TASK_STARTED"
	EventTaskCompleted    EventKind = "TASK_COMPLETED"
	EventTaskSkipped      EventKind = "TASK_SKIPPED"
	EventTaskWaived       EventKind = "TASK_WAIVED"
	EventTaskBlocked      EventKind = "TASK_BLOCKED"
	EventTaskUnblocked    EventKind = "TASK_UNBLOCKED"
	EventTaskUnlocked     EventKind = "TASK_UNLOCKED"
	EventTaskReopened     EventKind = "TASK_REOPENED"
	EventTaskOverdue      EventKind = "TASK_OVERDUE"
)

// Event is a notification-worthy fact produced by a roadmap command. The
// concrete transport (message bus, webhook) lives outside this module.
type Event struct {
	Kind      EventKind
	RoadmapID string
	CaseID    string
	TaskID    string
	Phase     domain.Phase
	RiskID    string
	At        time.Time
}

// Notifier receives events after the command's transaction has committed.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// NoopNotifier drops all events.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Event) {}
