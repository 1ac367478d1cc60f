package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

func task(id string, deps ...string) *domain.Task {
	return &domain.Task{ID: id, Category: domain.CategoryIdentity, DependsOn: deps}
}

func TestBuild_EdgesAndBoundaries(t *testing.T) {
	g := Build([]*domain.Task{
		task("a"),
		task("b", "a"),
		task("c", "a"),
		task("d", "b", "c"),
	})

	assert.Equal(t, 4, g.TaskCount())
	assert.Equal(t, []string{"b", "c"}, g.Adj["a"])
	assert.Equal(t, []string{"b", "c"}, g.RevAdj["d"])
	assert.Equal(t, []string{"a"}, g.Roots)
	assert.Equal(t, []string{"d"}, g.Leaves)
}

func TestBuild_BlocksEdgesDeduped(t *testing.T) {
	// The same edge expressed from both sides must not double.
	a := task("a")
	a.Blocks = []string{"b"}
	b := task("b", "a")
	g := Build([]*domain.Task{a, b})

	assert.Equal(t, []string{"b"}, g.Adj["a"])
	assert.Equal(t, []string{"a"}, g.RevAdj["b"])
}

func TestBuild_IgnoresUnknownIDs(t *testing.T) {
	g := Build([]*domain.Task{task("a", "ghost")})
	assert.Empty(t, g.RevAdj["a"])
	assert.Equal(t, []string{"a"}, g.Roots)
}

func TestValidate_Dangling(t *testing.T) {
	g := Build([]*domain.Task{task("a", "ghost")})
	err := g.Validate()
	var dangling *domain.DanglingDependencyError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "a", dangling.TaskID)
	assert.Equal(t, "ghost", dangling.MissingID)
}

func TestValidate_Cycle(t *testing.T) {
	g := Build([]*domain.Task{
		task("a", "c"),
		task("b", "a"),
		task("c", "b"),
	})
	err := g.Validate()
	var cyclic *domain.CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
	assert.Len(t, cyclic.Path, 4, "cycle path closes on its start node")
	assert.Equal(t, cyclic.Path[0], cyclic.Path[len(cyclic.Path)-1])
}

func TestValidate_CleanGraph(t *testing.T) {
	g := Build([]*domain.Task{task("a"), task("b", "a")})
	assert.NoError(t, g.Validate())
}

func TestDetectCycle_Acyclic(t *testing.T) {
	g := Build([]*domain.Task{task("a"), task("b", "a"), task("c", "b")})
	assert.Nil(t, g.DetectCycle())
}

func TestTopoOrder(t *testing.T) {
	g := Build([]*domain.Task{
		task("a"),
		task("b", "a"),
		task("c", "a"),
		task("d", "b", "c"),
	})
	order, ok := g.TopoOrder()
	require.True(t, ok)
	require.Len(t, order, 4)

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos["a"], pos["b"])
	assert.Less(t, pos["a"], pos["c"])
	assert.Less(t, pos["b"], pos["d"])
	assert.Less(t, pos["c"], pos["d"])
}

func TestTopoOrder_Cycle(t *testing.T) {
	g := Build([]*domain.Task{task("a", "b"), task("b", "a")})
	_, ok := g.TopoOrder()
	assert.False(t, ok)
}

func TestTransitiveDependents(t *testing.T) {
	g := Build([]*domain.Task{
		task("a"),
		task("b", "a"),
		task("c", "b"),
		task("d", "b"),
		task("e"),
	})
	assert.Equal(t, 3, g.TransitiveDependents("a"))
	assert.Equal(t, 2, g.TransitiveDependents("b"))
	assert.Equal(t, 0, g.TransitiveDependents("c"))
	assert.Equal(t, 0, g.TransitiveDependents("e"))
}
