package cpm

import (
	"sort"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/graph"
)

// Analyze runs the critical path method over the dependsOn DAG of the given
// tasks. It is pure: no task is mutated, and an empty task list yields an
// empty result. The graph is assumed acyclic; cycles are rejected upstream
// when tasks are admitted to a roadmap.
func Analyze(tasks []*domain.Task) *Result {
	result := &Result{Schedules: make(map[string]*TaskSchedule)}
	if len(tasks) == 0 {
		return result
	}

	g := graph.Build(tasks)
	order, ok := g.TopoOrder()
	if !ok {
		// Defensive: an unvalidated cyclic graph produces an empty analysis
		// rather than bogus figures.
		return result
	}
	result.TopoOrder = order

	durations := make(map[string]int, len(tasks))
	for id, t := range g.Tasks {
		durations[id] = t.DurationDays()
	}

	for _, id := range order {
		result.Schedules[id] = &TaskSchedule{TaskID: id}
	}

	// Forward pass: ES = max(EF of predecessors), in topological order.
	for _, id := range order {
		ts := result.Schedules[id]
		es := 0
		for _, pred := range g.RevAdj[id] {
			if predTS := result.Schedules[pred]; predTS.EF > es {
				es = predTS.EF
			}
		}
		ts.ES = es
		ts.EF = es + durations[id]
	}

	totalDuration := 0
	for _, ts := range result.Schedules {
		if ts.EF > totalDuration {
			totalDuration = ts.EF
		}
	}
	result.TotalDuration = totalDuration

	// Backward pass in reverse topological order. Leaves finish no later
	// than the project itself; everyone else must finish before the
	// earliest late start among its dependents.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		ts := result.Schedules[id]
		if len(g.Adj[id]) == 0 {
			ts.LF = totalDuration
		} else {
			minLS := totalDuration
			for _, succ := range g.Adj[id] {
				if succTS := result.Schedules[succ]; succTS.LS < minLS {
					minLS = succTS.LS
				}
			}
			ts.LF = minLS
		}
		ts.LS = ts.LF - durations[id]
		ts.Float = ts.LS - ts.ES
		ts.IsCritical = ts.Float == 0
	}

	// Critical path ordered by (phase, order index) for stable, readable
	// output.
	var critical []*domain.Task
	for id, ts := range result.Schedules {
		if ts.IsCritical {
			critical = append(critical, g.Tasks[id])
		}
	}
	sort.Slice(critical, func(a, b int) bool {
		pa, pb := critical[a].Phase().Index(), critical[b].Phase().Index()
		if pa != pb {
			return pa < pb
		}
		if critical[a].OrderIndex != critical[b].OrderIndex {
			return critical[a].OrderIndex < critical[b].OrderIndex
		}
		return critical[a].ID < critical[b].ID
	})
	for _, t := range critical {
		result.CriticalPath = append(result.CriticalPath, t.ID)
	}

	return result
}

// ParallelOpportunities returns the pending tasks with positive float: work
// that can safely proceed out of strict order. Sorted by descending float so
// the most flexible tasks come first.
func ParallelOpportunities(tasks []*domain.Task) []*domain.Task {
	result := Analyze(tasks)
	var out []*domain.Task
	for _, t := range tasks {
		ts, ok := result.Schedules[t.ID]
		if !ok {
			continue
		}
		if ts.Float > 0 && t.Status == domain.TaskPending {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return result.Schedules[out[a].ID].Float > result.Schedules[out[b].ID].Float
	})
	return out
}
