package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/cpm"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/graph"
)

// AnalyticsInput carries everything the snapshot computation needs. The
// computation is pure; callers decide where the figures go.
type AnalyticsInput struct {
	Tasks     []*domain.Task
	Now       time.Time
	DailyCost float64 // professional cost per critical-path workday
}

// AnalyticsResult is a recomputable planning snapshot. It is never
// authoritative state: safe to drop and regenerate at any time.
type AnalyticsResult struct {
	EstimatedDays   int
	EstimatedCost   float64
	ComplexityScore float64 // 0..100
	RiskExposure    float64 // 0..100, share of the plan held up or late
	Bottlenecks     []Bottleneck
}

// Bottleneck is a task whose delay would stall a large share of the plan.
type Bottleneck struct {
	TaskID         string
	Title          string
	Dependents     int // transitive dependents
	OnCriticalPath bool
}

// maxBottlenecks caps the predicted-bottlenecks list.
const maxBottlenecks = 5

// ComputeAnalytics derives the snapshot figures from the live task
// collection.
func ComputeAnalytics(input AnalyticsInput) AnalyticsResult {
	if len(input.Tasks) == 0 {
		return AnalyticsResult{}
	}

	analysis := cpm.Analyze(input.Tasks)
	g := graph.Build(input.Tasks)

	result := AnalyticsResult{
		EstimatedDays: analysis.TotalDuration,
		EstimatedCost: float64(analysis.TotalDuration) * input.DailyCost,
	}

	// Complexity grows with task count, edge density and proof burden.
	edges := 0
	proofTasks := 0
	heldUp := 0
	for _, t := range input.Tasks {
		edges += len(t.DependsOn)
		if t.RequiresProof {
			proofTasks++
		}
		if t.Status == domain.TaskBlocked || t.IsOverdue {
			heldUp++
		}
	}
	n := float64(len(input.Tasks))
	density := float64(edges) / n
	result.ComplexityScore = math.Min(100, n*1.5+density*20+float64(proofTasks)*2)
	result.RiskExposure = math.Round(100 * float64(heldUp) / n)

	// Bottlenecks: unresolved tasks ranked by how much of the plan waits on
	// them, critical-path membership breaking ties.
	critical := make(map[string]bool, len(analysis.CriticalPath))
	for _, id := range analysis.CriticalPath {
		critical[id] = true
	}
	var candidates []Bottleneck
	for _, t := range input.Tasks {
		if t.IsResolved() {
			continue
		}
		dependents := g.TransitiveDependents(t.ID)
		if dependents == 0 {
			continue
		}
		candidates = append(candidates, Bottleneck{
			TaskID:         t.ID,
			Title:          t.Title,
			Dependents:     dependents,
			OnCriticalPath: critical[t.ID],
		})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Dependents != candidates[b].Dependents {
			return candidates[a].Dependents > candidates[b].Dependents
		}
		if candidates[a].OnCriticalPath != candidates[b].OnCriticalPath {
			return candidates[a].OnCriticalPath
		}
		return candidates[a].TaskID < candidates[b].TaskID
	})
	if len(candidates) > maxBottlenecks {
		candidates = candidates[:maxBottlenecks]
	}
	result.Bottlenecks = candidates

	return result
}
