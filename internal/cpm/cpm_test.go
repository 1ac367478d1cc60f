package cpm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

func task(id string, days int, deps ...string) *domain.Task {
	return &domain.Task{
		ID:                       id,
		Category:                 domain.CategoryIdentity,
		Status:                   domain.TaskPending,
		EstimatedDurationMinutes: days * 480,
		DependsOn:                deps,
	}
}

func TestAnalyze_Empty(t *testing.T) {
	result := Analyze(nil)
	assert.Empty(t, result.Schedules)
	assert.Empty(t, result.CriticalPath)
	assert.Equal(t, 0, result.TotalDuration)
}

func TestAnalyze_SingleTask(t *testing.T) {
	result := Analyze([]*domain.Task{task("a", 3)})
	ts := result.Schedules["a"]
	require.NotNil(t, ts)
	assert.Equal(t, 0, ts.ES)
	assert.Equal(t, 3, ts.EF)
	assert.Equal(t, 0, ts.Float)
	assert.True(t, ts.IsCritical)
	assert.Equal(t, 3, result.TotalDuration)
	assert.Equal(t, []string{"a"}, result.CriticalPath)
}

func TestAnalyze_ForkJoin(t *testing.T) {
	// A(2d) feeds B(3d) and C(1d). B is the long branch.
	a := task("a", 2)
	b := task("b", 3, "a")
	c := task("c", 1, "a")
	result := Analyze([]*domain.Task{a, b, c})

	assert.Equal(t, 5, result.TotalDuration)

	sa := result.Schedules["a"]
	assert.Equal(t, 0, sa.ES)
	assert.Equal(t, 2, sa.EF)
	assert.Equal(t, 0, sa.Float)

	sb := result.Schedules["b"]
	assert.Equal(t, 2, sb.ES)
	assert.Equal(t, 5, sb.EF)
	assert.Equal(t, 0, sb.Float)

	sc := result.Schedules["c"]
	assert.Equal(t, 2, sc.ES)
	assert.Equal(t, 3, sc.EF)
	assert.Equal(t, 4, sc.LS)
	assert.Equal(t, 5, sc.LF)
	assert.Equal(t, 2, sc.Float)
	assert.False(t, sc.IsCritical)

	assert.Equal(t, []string{"a", "b"}, result.CriticalPath)
}

func TestAnalyze_Chain(t *testing.T) {
	a := task("a", 1)
	b := task("b", 2, "a")
	c := task("c", 3, "b")
	result := Analyze([]*domain.Task{a, b, c})

	assert.Equal(t, 6, result.TotalDuration)
	assert.Equal(t, []string{"a", "b", "c"}, result.CriticalPath)
	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, 0, result.Schedules[id].Float, "chain is all critical")
	}
}

func TestAnalyze_ParallelRoots(t *testing.T) {
	// Two independent roots joining into one task.
	a := task("a", 4)
	b := task("b", 1)
	c := task("c", 1, "a", "b")
	result := Analyze([]*domain.Task{a, b, c})

	assert.Equal(t, 5, result.TotalDuration)
	assert.Equal(t, 4, result.Schedules["c"].ES, "join waits for the slow branch")
	assert.Equal(t, 3, result.Schedules["b"].Float)
	assert.Equal(t, []string{"a", "c"}, result.CriticalPath)
}

func TestAnalyze_MinimumOneDay(t *testing.T) {
	quick := &domain.Task{
		ID:                       "q",
		Category:                 domain.CategoryIdentity,
		EstimatedDurationMinutes: 30,
	}
	result := Analyze([]*domain.Task{quick})
	assert.Equal(t, 1, result.TotalDuration, "every task occupies at least one workday")
}

func TestAnalyze_CyclicGraphYieldsEmpty(t *testing.T) {
	a := task("a", 1, "b")
	b := task("b", 1, "a")
	result := Analyze([]*domain.Task{a, b})
	assert.Empty(t, result.Schedules)
	assert.Equal(t, 0, result.TotalDuration)
}

func TestAnalyze_DoesNotMutateTasks(t *testing.T) {
	a := task("a", 2)
	before := *a
	Analyze([]*domain.Task{a})
	assert.Equal(t, before, *a)
}

func TestParallelOpportunities(t *testing.T) {
	a := task("a", 2)
	b := task("b", 3, "a")
	c := task("c", 1, "a")
	d := task("d", 2)
	d.Status = domain.TaskCompleted
	d.EstimatedDurationMinutes = 480

	out := ParallelOpportunities([]*domain.Task{a, b, c, d})
	ids := make([]string, 0, len(out))
	for _, t2 := range out {
		ids = append(ids, t2.ID)
	}
	assert.NotContains(t, ids, "a", "zero float is not a parallel opportunity")
	assert.NotContains(t, ids, "b")
	assert.Contains(t, ids, "c")
	assert.NotContains(t, ids, "d", "resolved tasks are excluded")
}

func TestParallelOpportunities_SortedByFloatDesc(t *testing.T) {
	a := task("a", 5)
	b := task("b", 1)
	c := task("c", 3)
	out := ParallelOpportunities([]*domain.Task{a, b, c})
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ID, "most float first")
	assert.Equal(t, "c", out[1].ID)
}
