package service

import (
	"context"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/contract"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

// ProofValidator checks a proof payload before it is attached to a task.
// Concrete implementations (document verification, payment lookup) live
// outside this module; the engine only requires that one is consulted.
type ProofValidator interface {
	Validate(ctx context.Context, proofType domain.ProofType, payload string) error
}

// AcceptAllProofs is the default validator: every payload passes.
type AcceptAllProofs struct{}

func (AcceptAllProofs) Validate(context.Context, domain.ProofType, string) error { return nil }

// RoadmapService is the command surface of the engine. Every mutating call
// loads the aggregate, applies the change, persists the whole roadmap in one
// transaction and emits the resulting events.
type RoadmapService interface {
	Generate(ctx context.Context, caseID string) (*domain.Roadmap, error)
	Get(ctx context.Context, roadmapID string) (*domain.Roadmap, error)
	GetByCase(ctx context.Context, caseID string) (*domain.Roadmap, error)
	Status(ctx context.Context, roadmapID string) (*contract.StatusView, error)

	AddTasks(ctx context.Context, roadmapID string, tasks []*domain.Task) error
	StartTask(ctx context.Context, roadmapID, taskID, actor string) error
	CompleteTask(ctx context.Context, roadmapID, taskID, actor, notes string, proof *domain.ProofReference) ([]string, error)
	SkipTask(ctx context.Context, roadmapID, taskID, actor, reason string) ([]string, error)
	WaiveTask(ctx context.Context, roadmapID, taskID, actor, reason string) ([]string, error)
	BlockTask(ctx context.Context, roadmapID, taskID, actor, reason, riskID string) error
	UnblockTask(ctx context.Context, roadmapID, taskID, actor string) error
	UnlinkRisk(ctx context.Context, roadmapID, riskID, actor string) ([]string, error)
	ReopenTask(ctx context.Context, roadmapID, taskID string) error
	CanStart(ctx context.Context, roadmapID, taskID string) (bool, error)

	AdvancePhase(ctx context.Context, roadmapID string) error
	ForcePhase(ctx context.Context, roadmapID string, target domain.Phase) error
	// TryAutoAdvance advances the phase if its threshold is met and reports
	// whether it did. Callers invoke it after completions when automatic
	// progression is wanted; the aggregate itself never self-advances.
	TryAutoAdvance(ctx context.Context, roadmapID string) (bool, error)

	SweepOverdue(ctx context.Context, roadmapID string) ([]string, error)
	CriticalPath(ctx context.Context, roadmapID string) (*contract.CriticalPathView, error)
	Analytics(ctx context.Context, roadmapID string) (*contract.AnalyticsView, error)
	// Optimize applies float-based priority upgrades and returns what changed.
	Optimize(ctx context.Context, roadmapID string) ([]contract.PriorityUpgradeView, error)
}
