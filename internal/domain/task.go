package domain

import "time"

// ProofReference is the opaque evidence attached to a task at completion.
// Validation of the payload itself belongs to the application layer; the
// task only checks presence and allowed type.
type ProofReference struct {
	Type      ProofType
	Reference string
}

// Task is the schedulable unit of a roadmap. It knows nothing about other
// tasks' state; cross-task rules (unlock propagation, phase progress) are the
// roadmap's job. Status is mutated only through the transition methods below.
type Task struct {
	ID          string
	Code        string // stable template key
	Title       string
	Description string

	Category   TaskCategory
	Priority   TaskPriority
	OrderIndex int

	// Graph edges. DependsOn must complete before this task; Blocks is the
	// informational inverse.
	DependsOn []string
	Blocks    []string

	Status    TaskStatus
	Mandatory bool // non-mandatory tasks may be skipped

	// Timing
	EstimatedDurationMinutes int
	DueDate                  *time.Time
	StartedAt                *time.Time
	CompletedAt              *time.Time
	SkippedAt                *time.Time
	IsOverdue                bool

	// Proof
	RequiresProof     bool
	AllowedProofTypes []ProofType
	Proof             *ProofReference

	// Risk linkage: ids of external risks that can hold this task blocked.
	// BlockingRiskID is the risk behind the current block, if any.
	RelatedRiskIDs []string
	BlockingRiskID string

	StartedBy   string
	CompletedBy string
	SkipReason  string
	BlockReason string
	Notes       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// workdayMinutes is the duration unit for scheduling math: an 8-hour workday.
const workdayMinutes = 8 * 60

// Phase returns the phase this task belongs to, derived from its category.
func (t *Task) Phase() Phase {
	p, _ := PhaseFor(t.Category)
	return p
}

// DurationDays converts the minute estimate into whole workdays. A task
// always occupies at least one day.
func (t *Task) DurationDays() int {
	if t.EstimatedDurationMinutes <= workdayMinutes {
		return 1
	}
	return (t.EstimatedDurationMinutes + workdayMinutes - 1) / workdayMinutes
}

// IsResolved reports whether the task counts as done for dependency and
// progress accounting.
func (t *Task) IsResolved() bool {
	return t.Status.IsResolved()
}

// Unlock moves a locked task to pending once its dependencies are satisfied.
// Calling it on an already-pending task is an idempotent no-op.
func (t *Task) Unlock(now time.Time) error {
	if t.Status == TaskPending {
		return nil
	}
	if t.Status != TaskLocked {
		return &InvalidTransitionError{TaskID: t.ID, From: t.Status, Attempted: "unlock"}
	}
	t.Status = TaskPending
	t.UpdatedAt = now
	return nil
}

// Start begins work on a pending task.
func (t *Task) Start(actor string, now time.Time) error {
	if t.Status != TaskPending {
		return &InvalidTransitionError{TaskID: t.ID, From: t.Status, Attempted: "start"}
	}
	t.Status = TaskInProgress
	t.StartedAt = &now
	t.StartedBy = actor
	t.UpdatedAt = now
	return nil
}

// Complete finishes an in-progress task. If the task requires proof, a proof
// of an allowed type must be supplied here or already attached.
func (t *Task) Complete(actor string, notes string, proof *ProofReference, now time.Time) error {
	if t.Status != TaskInProgress {
		return &InvalidTransitionError{TaskID: t.ID, From: t.Status, Attempted: "complete"}
	}
	if proof != nil {
		if t.RequiresProof && !t.allowsProofType(proof.Type) {
			return &ProofRequiredError{TaskID: t.ID, AllowedTypes: t.AllowedProofTypes}
		}
		t.Proof = proof
	}
	if t.RequiresProof && t.Proof == nil {
		return &ProofRequiredError{TaskID: t.ID, AllowedTypes: t.AllowedProofTypes}
	}
	t.Status = TaskCompleted
	t.CompletedAt = &now
	t.CompletedBy = actor
	if notes != "" {
		t.Notes = notes
	}
	t.IsOverdue = false
	t.UpdatedAt = now
	return nil
}

// Skip marks a conditional task as not needed. Mandatory tasks cannot be
// skipped; waive them instead.
func (t *Task) Skip(actor string, reason string, now time.Time) error {
	if t.Status != TaskPending && t.Status != TaskInProgress {
		return &InvalidTransitionError{TaskID: t.ID, From: t.Status, Attempted: "skip"}
	}
	if t.Mandatory {
		return &InvalidTransitionError{TaskID: t.ID, From: t.Status, Attempted: "skip mandatory task"}
	}
	t.Status = TaskSkipped
	t.SkippedAt = &now
	t.SkipReason = reason
	t.IsOverdue = false
	t.UpdatedAt = now
	return nil
}

// Waive removes a task from the plan by explicit authority, mandatory or not.
// Allowed from any non-terminal state.
func (t *Task) Waive(actor string, reason string, now time.Time) error {
	switch t.Status {
	case TaskLocked, TaskPending, TaskInProgress, TaskBlocked:
	default:
		return &InvalidTransitionError{TaskID: t.ID, From: t.Status, Attempted: "waive"}
	}
	t.Status = TaskWaived
	t.SkippedAt = &now
	t.SkipReason = reason
	t.IsOverdue = false
	t.UpdatedAt = now
	return nil
}

// Block holds a task on an external condition. If riskID is non-empty it is
// remembered so dependency resolution can tell risk-blocked from
// dependency-locked.
func (t *Task) Block(actor string, reason string, riskID string, now time.Time) error {
	if t.Status.IsResolved() || t.Status == TaskBlocked {
		return &InvalidTransitionError{TaskID: t.ID, From: t.Status, Attempted: "block"}
	}
	t.Status = TaskBlocked
	t.BlockReason = reason
	if riskID != "" {
		t.BlockingRiskID = riskID
		if !containsID(t.RelatedRiskIDs, riskID) {
			t.RelatedRiskIDs = append(t.RelatedRiskIDs, riskID)
		}
	}
	t.UpdatedAt = now
	return nil
}

// Unblock returns a blocked task to pending. Resumed work must be re-started
// explicitly; unblocking never jumps straight back to in-progress.
func (t *Task) Unblock(actor string, now time.Time) error {
	if t.Status != TaskBlocked {
		return &InvalidTransitionError{TaskID: t.ID, From: t.Status, Attempted: "unblock"}
	}
	t.Status = TaskPending
	t.BlockReason = ""
	t.BlockingRiskID = ""
	t.UpdatedAt = now
	return nil
}

// Reopen reverts an erroneous completion or skip back to pending, clearing
// the resolution metadata.
func (t *Task) Reopen(now time.Time) error {
	if t.Status != TaskCompleted && t.Status != TaskSkipped {
		return &InvalidTransitionError{TaskID: t.ID, From: t.Status, Attempted: "reopen"}
	}
	t.Status = TaskPending
	t.CompletedAt = nil
	t.CompletedBy = ""
	t.SkippedAt = nil
	t.SkipReason = ""
	t.Proof = nil
	t.UpdatedAt = now
	return nil
}

// MarkOverdue flags the task if its due date has passed and it is not yet
// resolved. Idempotent; never transitions status.
func (t *Task) MarkOverdue(now time.Time) bool {
	if t.IsOverdue {
		return false
	}
	if t.DueDate == nil || !now.After(*t.DueDate) {
		return false
	}
	if t.Status.IsResolved() {
		return false
	}
	t.IsOverdue = true
	t.UpdatedAt = now
	return true
}

func (t *Task) allowsProofType(pt ProofType) bool {
	if len(t.AllowedProofTypes) == 0 {
		return true
	}
	for _, allowed := range t.AllowedProofTypes {
		if allowed == pt {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
