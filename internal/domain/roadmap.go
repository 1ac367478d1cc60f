package domain

import (
	"math"
	"time"
)

// PhaseHistoryEntry records one stay in a phase. Open entries have a nil
// ExitedAt.
type PhaseHistoryEntry struct {
	Phase        Phase
	EnteredAt    time.Time
	ExitedAt     *time.Time
	DurationDays int
}

// PhaseProgress is the derived completion accounting for one phase.
type PhaseProgress struct {
	Completed int
	Total     int
	Percent   float64
}

// Roadmap is the per-case aggregate owning the full task plan. All task
// mutations go through its public operations, which delegate the transition
// to the task entity, propagate unlocks, and recompute every derived figure
// from the live task collection. Nothing here is incremented in place.
type Roadmap struct {
	ID     string
	CaseID string

	CurrentPhase Phase
	Status       RoadmapStatus
	Tasks        []*Task

	PhaseHistory  []PhaseHistoryEntry
	PhaseProgress map[Phase]PhaseProgress

	// BlockedByRiskIDs is derived: risks currently holding at least one task
	// in blocked status.
	BlockedByRiskIDs []string

	// Derived counters, recomputed after every mutation.
	TotalTasks      int
	CompletedTasks  int
	SkippedTasks    int
	BlockedTasks    int
	OverdueTasks    int
	ResolvedTasks   int
	InProgressTasks int

	// PhaseThresholds overrides the completion percentage required to leave
	// a phase. Phases absent from the map require 100%.
	PhaseThresholds map[Phase]float64

	ActualCompletionDate *time.Time

	// Version supports optimistic concurrency in the persistence layer. The
	// engine itself assumes single-writer access during a command.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRoadmap creates an empty draft roadmap in the first phase.
func NewRoadmap(id, caseID string, now time.Time) *Roadmap {
	r := &Roadmap{
		ID:           id,
		CaseID:       caseID,
		CurrentPhase: PhasePreFiling,
		Status:       RoadmapDraft,
		PhaseHistory: []PhaseHistoryEntry{{Phase: PhasePreFiling, EnteredAt: now}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.recompute(now)
	return r
}

// Closed reports whether the roadmap no longer accepts mutations.
func (r *Roadmap) Closed() bool {
	return r.Status == RoadmapCompleted
}

// Task returns the task with the given id, if it belongs to this roadmap.
func (r *Roadmap) Task(id string) (*Task, bool) {
	for _, t := range r.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// TasksInPhase returns the tasks whose category maps to the given phase.
func (r *Roadmap) TasksInPhase(p Phase) []*Task {
	var out []*Task
	for _, t := range r.Tasks {
		if t.Phase() == p {
			out = append(out, t)
		}
	}
	return out
}

// AddTasks admits a batch of tasks into the roadmap. The whole batch is
// rejected if any dependency reference dangles or the combined graph has a
// cycle; a partially wired graph is never admitted. Tasks arriving without a
// status are seeded locked or pending from their dependency sets.
func (r *Roadmap) AddTasks(tasks []*Task, now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}

	known := make(map[string]bool, len(r.Tasks)+len(tasks))
	for _, t := range r.Tasks {
		known[t.ID] = true
	}
	for _, t := range tasks {
		known[t.ID] = true
	}
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			if dep == t.ID {
				return &CyclicDependencyError{Path: []string{t.ID, t.ID}}
			}
			if !known[dep] {
				return &DanglingDependencyError{TaskID: t.ID, MissingID: dep}
			}
		}
		for _, b := range t.Blocks {
			if !known[b] {
				return &DanglingDependencyError{TaskID: t.ID, MissingID: b}
			}
		}
	}

	combined := make([]*Task, 0, len(r.Tasks)+len(tasks))
	combined = append(combined, r.Tasks...)
	combined = append(combined, tasks...)
	if cycle := findCycle(combined); cycle != nil {
		return &CyclicDependencyError{Path: cycle}
	}

	for _, t := range tasks {
		if t.Status == "" {
			if len(t.DependsOn) > 0 {
				t.Status = TaskLocked
			} else {
				t.Status = TaskPending
			}
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		t.UpdatedAt = now
	}
	r.Tasks = combined
	r.recompute(now)
	return nil
}

// StartTask begins work on a task. A draft roadmap becomes active on the
// first start.
func (r *Roadmap) StartTask(id, actor string, now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}
	t, ok := r.Task(id)
	if !ok {
		return ErrTaskNotFound
	}
	if err := t.Start(actor, now); err != nil {
		return err
	}
	if r.Status == RoadmapDraft {
		r.Status = RoadmapActive
	}
	r.recompute(now)
	return nil
}

// CompleteTask finishes a task and propagates unlocks through the dependency
// graph. It returns the ids of tasks newly unlocked by this completion.
func (r *Roadmap) CompleteTask(id, actor, notes string, proof *ProofReference, now time.Time) ([]string, error) {
	if r.Closed() {
		return nil, ErrRoadmapClosed
	}
	t, ok := r.Task(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if err := t.Complete(actor, notes, proof, now); err != nil {
		return nil, err
	}
	unlocked := r.resolveDependencies(now)
	r.recompute(now)
	return unlocked, nil
}

// SkipTask marks a conditional task as not needed and propagates unlocks,
// since skipped tasks satisfy their dependents.
func (r *Roadmap) SkipTask(id, actor, reason string, now time.Time) ([]string, error) {
	if r.Closed() {
		return nil, ErrRoadmapClosed
	}
	t, ok := r.Task(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if err := t.Skip(actor, reason, now); err != nil {
		return nil, err
	}
	unlocked := r.resolveDependencies(now)
	r.recompute(now)
	return unlocked, nil
}

// WaiveTask removes a task from the plan by explicit authority and propagates
// unlocks.
func (r *Roadmap) WaiveTask(id, actor, reason string, now time.Time) ([]string, error) {
	if r.Closed() {
		return nil, ErrRoadmapClosed
	}
	t, ok := r.Task(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if err := t.Waive(actor, reason, now); err != nil {
		return nil, err
	}
	unlocked := r.resolveDependencies(now)
	r.recompute(now)
	return unlocked, nil
}

// BlockTask holds a task on an external condition, optionally tied to a risk.
func (r *Roadmap) BlockTask(id, actor, reason, riskID string, now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}
	t, ok := r.Task(id)
	if !ok {
		return ErrTaskNotFound
	}
	if err := t.Block(actor, reason, riskID, now); err != nil {
		return err
	}
	r.recompute(now)
	return nil
}

// UnblockTask returns a blocked task to pending.
func (r *Roadmap) UnblockTask(id, actor string, now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}
	t, ok := r.Task(id)
	if !ok {
		return ErrTaskNotFound
	}
	if err := t.Unblock(actor, now); err != nil {
		return err
	}
	r.recompute(now)
	return nil
}

// UnlinkRisk clears a resolved external risk: every task blocked by it is
// returned to pending, and locked tasks it was holding become eligible for
// unlock. Returns the ids of tasks newly unlocked.
func (r *Roadmap) UnlinkRisk(riskID, actor string, now time.Time) ([]string, error) {
	if r.Closed() {
		return nil, ErrRoadmapClosed
	}
	for _, t := range r.Tasks {
		if t.Status == TaskBlocked && t.BlockingRiskID == riskID {
			if err := t.Unblock(actor, now); err != nil {
				return nil, err
			}
		}
	}
	unlocked := r.resolveDependencies(now)
	r.recompute(now)
	return unlocked, nil
}

// ReopenTask reverts an erroneous completion or skip. Dependents already
// unlocked stay unlocked: unlock propagation is one-way and is not
// re-validated downstream.
func (r *Roadmap) ReopenTask(id string, now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}
	t, ok := r.Task(id)
	if !ok {
		return ErrTaskNotFound
	}
	if err := t.Reopen(now); err != nil {
		return err
	}
	r.recompute(now)
	return nil
}

// SweepOverdue flags every task whose due date has passed. Idempotent;
// returns the ids flagged by this sweep.
func (r *Roadmap) SweepOverdue(now time.Time) []string {
	var flagged []string
	for _, t := range r.Tasks {
		if t.MarkOverdue(now) {
			flagged = append(flagged, t.ID)
		}
	}
	r.recompute(now)
	return flagged
}

// RequiredPct returns the completion threshold for leaving the given phase.
func (r *Roadmap) RequiredPct(p Phase) float64 {
	if r.PhaseThresholds != nil {
		if pct, ok := r.PhaseThresholds[p]; ok {
			return pct
		}
	}
	return 100
}

// AdvancePhase moves the roadmap to the next phase once the current phase
// meets its completion threshold. Advancing from the final phase completes
// the roadmap; this is the only path that sets status to completed.
func (r *Roadmap) AdvancePhase(now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}
	progress := r.PhaseProgress[r.CurrentPhase]
	required := r.RequiredPct(r.CurrentPhase)
	if progress.Total == 0 || progress.Percent < required {
		return &PhaseNotReadyError{Phase: r.CurrentPhase, CurrentPct: progress.Percent, RequiredPct: required}
	}

	if r.CurrentPhase == FinalPhase {
		r.closeHistory(now)
		r.Status = RoadmapCompleted
		r.ActualCompletionDate = &now
		r.UpdatedAt = now
		return nil
	}

	next := PhaseOrder[r.CurrentPhase.Index()+1]
	r.transitionTo(next, now)
	r.recompute(now)
	return nil
}

// ForcePhase jumps forward to the target phase without threshold checks,
// allowing phases with zero tasks to be passed. Moving backward is never
// permitted.
func (r *Roadmap) ForcePhase(target Phase, now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}
	if target.Index() < 0 || !r.CurrentPhase.Before(target) {
		return &PhaseNotReadyError{Phase: r.CurrentPhase, CurrentPct: r.PhaseProgress[r.CurrentPhase].Percent, RequiredPct: r.RequiredPct(r.CurrentPhase)}
	}
	r.transitionTo(target, now)
	r.recompute(now)
	return nil
}

// Pause suspends an active roadmap.
func (r *Roadmap) Pause(now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}
	r.Status = RoadmapPaused
	r.UpdatedAt = now
	return nil
}

// Resume reactivates a paused or escalated roadmap.
func (r *Roadmap) Resume(now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}
	r.Status = RoadmapActive
	r.UpdatedAt = now
	return nil
}

// Abandon terminates the roadmap without completion.
func (r *Roadmap) Abandon(now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}
	r.Status = RoadmapAbandoned
	r.UpdatedAt = now
	return nil
}

// Escalate flags the roadmap for supervisory attention.
func (r *Roadmap) Escalate(now time.Time) error {
	if r.Closed() {
		return ErrRoadmapClosed
	}
	r.Status = RoadmapEscalated
	r.UpdatedAt = now
	return nil
}

// OverallPercent is the resolved share of all tasks, rounded to a whole
// percentage.
func (r *Roadmap) OverallPercent() float64 {
	if r.TotalTasks == 0 {
		return 0
	}
	return math.Round(100 * float64(r.ResolvedTasks) / float64(r.TotalTasks))
}

// OverallComplete reports whether every task is resolved.
func (r *Roadmap) OverallComplete() bool {
	return r.TotalTasks > 0 && r.ResolvedTasks == r.TotalTasks
}

func (r *Roadmap) transitionTo(next Phase, now time.Time) {
	r.closeHistory(now)
	r.CurrentPhase = next
	r.PhaseHistory = append(r.PhaseHistory, PhaseHistoryEntry{Phase: next, EnteredAt: now})
	r.UpdatedAt = now
}

func (r *Roadmap) closeHistory(now time.Time) {
	for i := len(r.PhaseHistory) - 1; i >= 0; i-- {
		entry := &r.PhaseHistory[i]
		if entry.ExitedAt == nil {
			entry.ExitedAt = &now
			entry.DurationDays = int(math.Ceil(now.Sub(entry.EnteredAt).Hours() / 24))
			return
		}
	}
}

// recompute rebuilds derived figures and stamps the mutation time. Called at
// the end of every public mutation so counters can never drift.
func (r *Roadmap) recompute(now time.Time) {
	r.RecomputeProgress()
	r.UpdatedAt = now
}

// RecomputeProgress rebuilds every derived figure (counters, phase progress,
// risk bookkeeping) from the live task collection. The persistence layer
// calls it after rehydrating an aggregate; it never touches UpdatedAt.
func (r *Roadmap) RecomputeProgress() {
	r.TotalTasks = len(r.Tasks)
	r.CompletedTasks = 0
	r.SkippedTasks = 0
	r.BlockedTasks = 0
	r.OverdueTasks = 0
	r.ResolvedTasks = 0
	r.InProgressTasks = 0

	progress := make(map[Phase]PhaseProgress, len(PhaseOrder))
	riskSet := make(map[string]bool)
	var risks []string

	for _, t := range r.Tasks {
		switch t.Status {
		case TaskCompleted:
			r.CompletedTasks++
		case TaskSkipped, TaskWaived:
			r.SkippedTasks++
		case TaskBlocked:
			r.BlockedTasks++
			if t.BlockingRiskID != "" && !riskSet[t.BlockingRiskID] {
				riskSet[t.BlockingRiskID] = true
				risks = append(risks, t.BlockingRiskID)
			}
		case TaskInProgress:
			r.InProgressTasks++
		}
		if t.IsResolved() {
			r.ResolvedTasks++
		}
		if t.IsOverdue {
			r.OverdueTasks++
		}

		p := progress[t.Phase()]
		p.Total++
		if t.IsResolved() {
			p.Completed++
		}
		progress[t.Phase()] = p
	}

	for _, phase := range PhaseOrder {
		p := progress[phase]
		if p.Total > 0 {
			p.Percent = math.Round(100 * float64(p.Completed) / float64(p.Total))
		}
		progress[phase] = p
	}

	r.PhaseProgress = progress
	r.BlockedByRiskIDs = risks
}

// findCycle runs DFS coloring over the dependsOn edges and returns the cycle
// path in forward order, or nil for an acyclic graph.
func findCycle(tasks []*Task) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	byID := make(map[string]*Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(id string) []string
	dfs = func(id string) []string {
		color[id] = gray
		t := byID[id]
		for _, dep := range t.DependsOn {
			if _, ok := byID[dep]; !ok {
				continue
			}
			if color[dep] == gray {
				cycle := []string{dep, id}
				cur := id
				for cur != dep {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[dep] == white {
				parent[dep] = id
				if cycle := dfs(dep); cycle != nil {
					return cycle
				}
			}
		}
		color[id] = black
		return nil
	}

	for _, t := range tasks {
		if color[t.ID] == white {
			if cycle := dfs(t.ID); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
