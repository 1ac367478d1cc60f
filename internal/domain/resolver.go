package domain

import "time"

// ResolutionResult is what one unlock-propagation pass produced.
type ResolutionResult struct {
	UnlockedIDs     []string
	OverallComplete bool
}

// ResolveDependencies scans locked tasks and unlocks every one whose
// dependencies are all resolved and which is not held by an active risk
// block. Safe to call repeatedly: a pass over an already-settled graph
// unlocks nothing.
func (r *Roadmap) ResolveDependencies(now time.Time) ResolutionResult {
	unlocked := r.resolveDependencies(now)
	r.recompute(now)
	return ResolutionResult{
		UnlockedIDs:     unlocked,
		OverallComplete: r.OverallComplete(),
	}
}

func (r *Roadmap) resolveDependencies(now time.Time) []string {
	resolved := make(map[string]bool, len(r.Tasks))
	blockedRisks := make(map[string]bool)
	for _, t := range r.Tasks {
		if t.IsResolved() {
			resolved[t.ID] = true
		}
		if t.Status == TaskBlocked && t.BlockingRiskID != "" {
			blockedRisks[t.BlockingRiskID] = true
		}
	}

	var unlocked []string
	for _, t := range r.Tasks {
		if t.Status != TaskLocked || len(t.DependsOn) == 0 {
			continue
		}
		if !allResolved(t.DependsOn, resolved) {
			continue
		}
		if heldByRisk(t.RelatedRiskIDs, blockedRisks) {
			continue
		}
		if err := t.Unlock(now); err == nil {
			unlocked = append(unlocked, t.ID)
		}
	}
	return unlocked
}

// CanStartTask is the read-only "can I click this" predicate: the task must
// be pending and every dependency resolved. It never mutates anything.
func (r *Roadmap) CanStartTask(id string) bool {
	t, ok := r.Task(id)
	if !ok || t.Status != TaskPending {
		return false
	}
	resolved := make(map[string]bool, len(r.Tasks))
	for _, other := range r.Tasks {
		if other.IsResolved() {
			resolved[other.ID] = true
		}
	}
	return allResolved(t.DependsOn, resolved)
}

func allResolved(deps []string, resolved map[string]bool) bool {
	for _, dep := range deps {
		if !resolved[dep] {
			return false
		}
	}
	return true
}

func heldByRisk(riskIDs []string, active map[string]bool) bool {
	for _, id := range riskIDs {
		if active[id] {
			return true
		}
	}
	return false
}
