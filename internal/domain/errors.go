package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRoadmapClosed indicates a mutation was attempted on a completed
	// roadmap. Completed roadmaps accept read queries only.
	ErrRoadmapClosed = errors.New("roadmap is completed and closed to mutations")

	// ErrTaskNotFound indicates the referenced task id is not part of the
	// roadmap.
	ErrTaskNotFound = errors.New("task not found in roadmap")
)

// InvalidTransitionError reports an operation attempted from a task status
// that does not permit it. It carries enough detail for the presentation
// layer to explain the rejection without re-deriving state.
type InvalidTransitionError struct {
	TaskID    string
	From      TaskStatus
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("task %s: cannot %s from status %q", e.TaskID, e.Attempted, e.From)
}

// ProofRequiredError reports a completion attempt without a satisfying proof.
type ProofRequiredError struct {
	TaskID       string
	AllowedTypes []ProofType
}

func (e *ProofRequiredError) Error() string {
	return fmt.Sprintf("task %s requires proof of an allowed type %v before completion", e.TaskID, e.AllowedTypes)
}

// PhaseNotReadyError reports a phase advance attempted below the completion
// threshold for the current phase.
type PhaseNotReadyError struct {
	Phase       Phase
	CurrentPct  float64
	RequiredPct float64
}

func (e *PhaseNotReadyError) Error() string {
	return fmt.Sprintf("phase %s at %.1f%% completion, %.1f%% required to advance", e.Phase, e.CurrentPct, e.RequiredPct)
}

// DanglingDependencyError reports a task referencing a dependency id that is
// not present in the roadmap. Raised at add/generation time; the whole batch
// is rejected rather than admitting a partially wired graph.
type DanglingDependencyError struct {
	TaskID    string
	MissingID string
}

func (e *DanglingDependencyError) Error() string {
	return fmt.Sprintf("task %s depends on unknown task %s", e.TaskID, e.MissingID)
}

// CyclicDependencyError reports a dependency cycle found during graph
// validation. Path lists the task ids along the cycle in forward order.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %v", e.Path)
}
