package repository

import (
	"context"
	"errors"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

var (
	// ErrNotFound indicates the requested roadmap does not exist.
	ErrNotFound = errors.New("roadmap not found")

	// ErrVersionConflict indicates a concurrent writer saved the roadmap
	// between this command's load and save. The command should be retried
	// against fresh state.
	ErrVersionConflict = errors.New("roadmap was modified concurrently")
)

// RoadmapRepo persists the Roadmap aggregate. Save writes the roadmap and its
// full task collection atomically; partial task-set writes never happen.
type RoadmapRepo interface {
	Save(ctx context.Context, r *domain.Roadmap) error
	FindByID(ctx context.Context, id string) (*domain.Roadmap, error)
	FindByCaseID(ctx context.Context, caseID string) (*domain.Roadmap, error)
}
