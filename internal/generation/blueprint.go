package generation

import (
	"fmt"
	"time"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/graph"
	"github.com/google/uuid"
)

// TaskBlueprint is the template-level description of one task. Dependencies
// are wired by code, since template authors cannot know generated ids.
type TaskBlueprint struct {
	Code                     string
	Title                    string
	Description              string
	Category                 domain.TaskCategory
	Priority                 domain.TaskPriority
	EstimatedDurationMinutes int
	DependsOnCodes           []string
	Mandatory                *bool // defaults to true
	RequiresProof            bool
	AllowedProofTypes        []domain.ProofType
	DueInDays                *int // relative to generation time
	OrderIndex               int
}

// TemplateProvider supplies the blueprints for a case. The concrete content
// selection (which titles, instructions and citations a case needs) lives
// outside this module.
type TemplateProvider interface {
	Blueprints(caseID string) ([]TaskBlueprint, error)
}

// BuildRoadmap turns a blueprint set into a fully wired roadmap. The whole
// batch is rejected on the first invalid category, unknown dependency code or
// dependency cycle.
func BuildRoadmap(caseID string, blueprints []TaskBlueprint, now time.Time) (*domain.Roadmap, error) {
	idByCode := make(map[string]string, len(blueprints))
	for _, bp := range blueprints {
		if bp.Code == "" {
			return nil, fmt.Errorf("blueprint %q: code is required", bp.Title)
		}
		if _, dup := idByCode[bp.Code]; dup {
			return nil, fmt.Errorf("blueprint code %q appears twice", bp.Code)
		}
		idByCode[bp.Code] = uuid.New().String()
	}

	tasks := make([]*domain.Task, 0, len(blueprints))
	for _, bp := range blueprints {
		if _, ok := domain.PhaseFor(bp.Category); !ok {
			return nil, fmt.Errorf("blueprint %q: unknown category %q", bp.Code, bp.Category)
		}

		deps := make([]string, 0, len(bp.DependsOnCodes))
		for _, code := range bp.DependsOnCodes {
			depID, ok := idByCode[code]
			if !ok {
				return nil, &domain.DanglingDependencyError{TaskID: bp.Code, MissingID: code}
			}
			deps = append(deps, depID)
		}

		priority := bp.Priority
		if priority == "" {
			priority = domain.PriorityMedium
		}

		t := &domain.Task{
			ID:                       idByCode[bp.Code],
			Code:                     bp.Code,
			Title:                    bp.Title,
			Description:              bp.Description,
			Category:                 bp.Category,
			Priority:                 priority,
			OrderIndex:               bp.OrderIndex,
			DependsOn:                deps,
			Mandatory:                domain.BoolFromPtrWithDefault(true, bp.Mandatory),
			EstimatedDurationMinutes: bp.EstimatedDurationMinutes,
			RequiresProof:            bp.RequiresProof,
			AllowedProofTypes:        bp.AllowedProofTypes,
			CreatedAt:                now,
		}
		if bp.DueInDays != nil {
			due := now.AddDate(0, 0, *bp.DueInDays)
			t.DueDate = &due
		}
		tasks = append(tasks, t)
	}

	wireInverseEdges(tasks)

	// Validate the wired graph before touching the aggregate, so a template
	// bug surfaces as a typed error and no roadmap is created.
	if err := graph.Build(tasks).Validate(); err != nil {
		return nil, err
	}

	r := domain.NewRoadmap(uuid.New().String(), caseID, now)
	if err := r.AddTasks(tasks, now); err != nil {
		return nil, err
	}
	return r, nil
}

// wireInverseEdges fills each task's Blocks list from the dependsOn edges.
func wireInverseEdges(tasks []*domain.Task) {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			if pred, ok := byID[dep]; ok {
				pred.Blocks = append(pred.Blocks, t.ID)
			}
		}
	}
}
