package graph

import (
	"sort"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

// TaskGraph is the explicit adjacency view of a roadmap's dependsOn edges.
// Edges run predecessor -> successor: Adj[x] lists the tasks waiting on x,
// RevAdj[x] lists the tasks x waits on.
type TaskGraph struct {
	Tasks  map[string]*domain.Task
	Adj    map[string][]string
	RevAdj map[string][]string
	Roots  []string // no dependencies within the graph
	Leaves []string // no dependents within the graph
}

// Build constructs a TaskGraph from a task list. Dependency ids that resolve
// to no task in the list are ignored here; rejecting them is the roadmap's
// job at add time.
func Build(tasks []*domain.Task) *TaskGraph {
	g := &TaskGraph{
		Tasks:  make(map[string]*domain.Task, len(tasks)),
		Adj:    make(map[string][]string),
		RevAdj: make(map[string][]string),
	}
	for _, t := range tasks {
		g.Tasks[t.ID] = t
	}

	edgeSet := make(map[[2]string]bool)
	addEdge := func(from, to string) {
		key := [2]string{from, to}
		if edgeSet[key] {
			return
		}
		edgeSet[key] = true
		g.Adj[from] = append(g.Adj[from], to)
		g.RevAdj[to] = append(g.RevAdj[to], from)
	}

	for id, t := range g.Tasks {
		for _, dep := range t.DependsOn {
			if _, ok := g.Tasks[dep]; ok {
				addEdge(dep, id)
			}
		}
		for _, succ := range t.Blocks {
			if _, ok := g.Tasks[succ]; ok {
				addEdge(id, succ)
			}
		}
	}

	for k := range g.Adj {
		sort.Strings(g.Adj[k])
	}
	for k := range g.RevAdj {
		sort.Strings(g.RevAdj[k])
	}

	for id := range g.Tasks {
		if len(g.RevAdj[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Adj[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}
	sort.Strings(g.Roots)
	sort.Strings(g.Leaves)

	return g
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}

// Validate checks the edge wiring: every dependsOn/blocks id must resolve to
// a task in the graph, and the graph must be acyclic. The first violation is
// returned as a typed domain error.
func (g *TaskGraph) Validate() error {
	ids := make([]string, 0, len(g.Tasks))
	for id := range g.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		t := g.Tasks[id]
		for _, dep := range t.DependsOn {
			if _, ok := g.Tasks[dep]; !ok {
				return &domain.DanglingDependencyError{TaskID: id, MissingID: dep}
			}
		}
		for _, succ := range t.Blocks {
			if _, ok := g.Tasks[succ]; !ok {
				return &domain.DanglingDependencyError{TaskID: id, MissingID: succ}
			}
		}
	}

	if cycle := g.DetectCycle(); cycle != nil {
		return &domain.CyclicDependencyError{Path: cycle}
	}
	return nil
}

// DetectCycle returns the cycle path if one exists, or nil if the graph is
// acyclic. DFS with coloring: white (unvisited), gray (in progress), black
// (done).
func (g *TaskGraph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range g.Adj[node] {
			if color[next] == gray {
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	ids := make([]string, 0, len(g.Tasks))
	for id := range g.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// TransitiveDependents returns the number of tasks reachable from id via
// forward edges, i.e. everything that would stall if id stalled.
func (g *TaskGraph) TransitiveDependents(id string) int {
	seen := make(map[string]bool)
	var walk func(node string)
	walk = func(node string) {
		for _, next := range g.Adj[node] {
			if !seen[next] {
				seen[next] = true
				walk(next)
			}
		}
	}
	walk(id)
	return len(seen)
}

// TopoOrder returns the task ids in dependency order using Kahn's algorithm.
// The boolean is false if the graph has a cycle.
func (g *TaskGraph) TopoOrder() ([]string, bool) {
	inDegree := make(map[string]int, len(g.Tasks))
	for id := range g.Tasks {
		inDegree[id] = len(g.RevAdj[id])
	}

	var queue []string
	for id := range g.Tasks {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []string
		for _, succ := range g.Adj[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				newReady = append(newReady, succ)
			}
		}
		sort.Strings(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != len(g.Tasks) {
		return nil, false
	}
	return order, true
}
