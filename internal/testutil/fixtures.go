package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

var testCodeCounter atomic.Int64

// Roadmap options
type RoadmapOption func(*domain.Roadmap)

func WithRoadmapStatus(s domain.RoadmapStatus) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.Status = s
	}
}

func WithCurrentPhase(p domain.Phase) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.CurrentPhase = p
	}
}

func WithPhaseThreshold(p domain.Phase, pct float64) RoadmapOption {
	return func(r *domain.Roadmap) {
		if r.PhaseThresholds == nil {
			r.PhaseThresholds = make(map[domain.Phase]float64)
		}
		r.PhaseThresholds[p] = pct
	}
}

func NewTestRoadmap(caseID string, opts ...RoadmapOption) *domain.Roadmap {
	now := time.Now().UTC()
	r := domain.NewRoadmap(uuid.New().String(), caseID, now)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Task options
type TaskOption func(*domain.Task)

func WithCategory(c domain.TaskCategory) TaskOption {
	return func(t *domain.Task) {
		t.Category = c
	}
}

func WithPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithDependsOn(ids ...string) TaskOption {
	return func(t *domain.Task) {
		t.DependsOn = append(t.DependsOn, ids...)
	}
}

func WithBlocks(ids ...string) TaskOption {
	return func(t *domain.Task) {
		t.Blocks = append(t.Blocks, ids...)
	}
}

func WithDuration(minutes int) TaskOption {
	return func(t *domain.Task) {
		t.EstimatedDurationMinutes = minutes
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithMandatory(m bool) TaskOption {
	return func(t *domain.Task) {
		t.Mandatory = m
	}
}

func WithProofRequired(types ...domain.ProofType) TaskOption {
	return func(t *domain.Task) {
		t.RequiresProof = true
		t.AllowedProofTypes = types
	}
}

func WithRelatedRisks(riskIDs ...string) TaskOption {
	return func(t *domain.Task) {
		t.RelatedRiskIDs = append(t.RelatedRiskIDs, riskIDs...)
	}
}

func WithOrderIndex(i int) TaskOption {
	return func(t *domain.Task) {
		t.OrderIndex = i
	}
}

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	n := testCodeCounter.Add(1)
	t := &domain.Task{
		ID:                       uuid.New().String(),
		Code:                     fmt.Sprintf("test-task-%02d", n),
		Title:                    title,
		Category:                 domain.CategoryIdentity,
		Priority:                 domain.PriorityMedium,
		Status:                   domain.TaskPending,
		Mandatory:                true,
		EstimatedDurationMinutes: 480,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
