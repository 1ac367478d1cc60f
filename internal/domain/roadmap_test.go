package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(id string, category TaskCategory, deps ...string) *Task {
	return &Task{
		ID:        id,
		Code:      id,
		Title:     "Task " + id,
		Category:  category,
		Priority:  PriorityMedium,
		Mandatory: true,
		DependsOn: deps,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func newRoadmapWith(t *testing.T, tasks ...*Task) *Roadmap {
	t.Helper()
	r := NewRoadmap("rm-1", "case-1", testNow)
	require.NoError(t, r.AddTasks(tasks, testNow))
	return r
}

// completeTask drives a task through start and complete.
func completeTask(t *testing.T, r *Roadmap, id string) []string {
	t.Helper()
	require.NoError(t, r.StartTask(id, "amina", testNow))
	unlocked, err := r.CompleteTask(id, "amina", "", nil, testNow)
	require.NoError(t, err)
	return unlocked
}

func TestNewRoadmap(t *testing.T) {
	r := NewRoadmap("rm-1", "case-1", testNow)
	assert.Equal(t, PhasePreFiling, r.CurrentPhase)
	assert.Equal(t, RoadmapDraft, r.Status)
	require.Len(t, r.PhaseHistory, 1)
	assert.Equal(t, PhasePreFiling, r.PhaseHistory[0].Phase)
	assert.Nil(t, r.PhaseHistory[0].ExitedAt)
	assert.Equal(t, 0, r.TotalTasks)
}

func TestAddTasks_SeedsStatuses(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily, "a")
	r := newRoadmapWith(t, a, b)

	assert.Equal(t, TaskPending, a.Status, "no dependencies starts pending")
	assert.Equal(t, TaskLocked, b.Status, "dependent starts locked")
	assert.Equal(t, 2, r.TotalTasks)
}

func TestAddTasks_DanglingDependency(t *testing.T) {
	r := NewRoadmap("rm-1", "case-1", testNow)
	a := newTask("a", CategoryIdentity, "ghost")
	err := r.AddTasks([]*Task{a}, testNow)
	var dangling *DanglingDependencyError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "ghost", dangling.MissingID)
	assert.Empty(t, r.Tasks, "whole batch rejected")
}

func TestAddTasks_SelfDependency(t *testing.T) {
	r := NewRoadmap("rm-1", "case-1", testNow)
	a := newTask("a", CategoryIdentity, "a")
	err := r.AddTasks([]*Task{a}, testNow)
	var cyclic *CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
}

func TestAddTasks_Cycle(t *testing.T) {
	r := NewRoadmap("rm-1", "case-1", testNow)
	a := newTask("a", CategoryIdentity, "c")
	b := newTask("b", CategoryIdentity, "a")
	c := newTask("c", CategoryIdentity, "b")
	err := r.AddTasks([]*Task{a, b, c}, testNow)
	var cyclic *CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
	assert.NotEmpty(t, cyclic.Path)
	assert.Empty(t, r.Tasks)
}

func TestAddTasks_CycleAcrossBatches(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	r := newRoadmapWith(t, a)

	// Second batch closes a cycle through the existing task.
	b := newTask("b", CategoryIdentity, "a")
	a.DependsOn = []string{"b"}
	err := r.AddTasks([]*Task{b}, testNow)
	var cyclic *CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
}

func TestStartTask_ActivatesDraft(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	r := newRoadmapWith(t, a)
	require.Equal(t, RoadmapDraft, r.Status)

	require.NoError(t, r.StartTask("a", "amina", testNow))
	assert.Equal(t, RoadmapActive, r.Status)
	assert.Equal(t, 1, r.InProgressTasks)
}

func TestStartTask_NotFound(t *testing.T) {
	r := newRoadmapWith(t)
	err := r.StartTask("ghost", "amina", testNow)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCompleteTask_UnlocksDependents(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily, "a")
	c := newTask("c", CategoryAssets, "a")
	d := newTask("d", CategoryForms, "b", "c")
	r := newRoadmapWith(t, a, b, c, d)

	unlocked := completeTask(t, r, "a")
	assert.ElementsMatch(t, []string{"b", "c"}, unlocked)
	assert.Equal(t, TaskPending, b.Status)
	assert.Equal(t, TaskPending, c.Status)
	assert.Equal(t, TaskLocked, d.Status, "multi-dependency task waits for all")

	completeTask(t, r, "b")
	unlocked = completeTask(t, r, "c")
	assert.Equal(t, []string{"d"}, unlocked)
	assert.Equal(t, TaskPending, d.Status)
}

func TestSkipTask_SatisfiesDependents(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	a.Mandatory = false
	b := newTask("b", CategoryFamily, "a")
	r := newRoadmapWith(t, a, b)

	unlocked, err := r.SkipTask("a", "amina", "small estate", testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, unlocked, "skipped counts as resolved for dependents")
	assert.Equal(t, 1, r.SkippedTasks)
	assert.Equal(t, 1, r.ResolvedTasks)
}

func TestWaiveTask_SatisfiesDependents(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily, "a")
	r := newRoadmapWith(t, a, b)

	unlocked, err := r.WaiveTask("a", "registrar", "court waiver", testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, unlocked)
	assert.Equal(t, TaskWaived, a.Status)
}

func TestReopenTask_DependentsStayUnlocked(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily, "a")
	r := newRoadmapWith(t, a, b)

	completeTask(t, r, "a")
	require.Equal(t, TaskPending, b.Status)

	require.NoError(t, r.ReopenTask("a", testNow))
	assert.Equal(t, TaskPending, a.Status)
	assert.Equal(t, TaskPending, b.Status, "unlock propagation is one-way")
	assert.Equal(t, 0, r.ResolvedTasks)
}

func TestReopenTask_InProgressDependentKeepsRunning(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily, "a")
	r := newRoadmapWith(t, a, b)

	completeTask(t, r, "a")
	require.NoError(t, r.StartTask("b", "amina", testNow))

	require.NoError(t, r.ReopenTask("a", testNow))
	assert.Equal(t, TaskInProgress, b.Status)
}

func TestBlockTask_DerivesRoadmapRisks(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily)
	r := newRoadmapWith(t, a, b)

	require.NoError(t, r.StartTask("a", "amina", testNow))
	require.NoError(t, r.BlockTask("a", "amina", "heir dispute", "risk-7", testNow))

	assert.Equal(t, 1, r.BlockedTasks)
	assert.Equal(t, []string{"risk-7"}, r.BlockedByRiskIDs)

	require.NoError(t, r.UnblockTask("a", "amina", testNow))
	assert.Equal(t, 0, r.BlockedTasks)
	assert.Empty(t, r.BlockedByRiskIDs)
}

func TestRiskBlock_HoldsLockedDependentsOnSharedRisk(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily)
	c := newTask("c", CategoryAssets, "a")
	c.RelatedRiskIDs = []string{"risk-7"}
	r := newRoadmapWith(t, a, b, c)

	// b carries the active block for risk-7; c merely relates to it.
	require.NoError(t, r.StartTask("b", "amina", testNow))
	require.NoError(t, r.BlockTask("b", "amina", "dispute", "risk-7", testNow))

	unlocked := completeTask(t, r, "a")
	assert.Empty(t, unlocked, "risk-held task stays locked despite resolved deps")
	assert.Equal(t, TaskLocked, c.Status)

	// Resolving the risk releases both the blocked task and the held unlock.
	released, err := r.UnlinkRisk("risk-7", "amina", testNow)
	require.NoError(t, err)
	assert.Equal(t, TaskPending, b.Status)
	assert.Equal(t, []string{"c"}, released)
	assert.Equal(t, TaskPending, c.Status)
}

func TestSweepOverdue(t *testing.T) {
	past := testNow.Add(-48 * time.Hour)
	a := newTask("a", CategoryIdentity)
	a.DueDate = &past
	b := newTask("b", CategoryFamily)
	r := newRoadmapWith(t, a, b)

	flagged := r.SweepOverdue(testNow)
	assert.Equal(t, []string{"a"}, flagged)
	assert.Equal(t, 1, r.OverdueTasks)

	assert.Empty(t, r.SweepOverdue(testNow), "sweep is idempotent")
}

func TestAdvancePhase_BelowThreshold(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily)
	r := newRoadmapWith(t, a, b)

	completeTask(t, r, "a")
	err := r.AdvancePhase(testNow)
	var notReady *PhaseNotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, PhasePreFiling, notReady.Phase)
	assert.Equal(t, float64(50), notReady.CurrentPct)
	assert.Equal(t, float64(100), notReady.RequiredPct)
	assert.Equal(t, PhasePreFiling, r.CurrentPhase)
}

func TestAdvancePhase_AtThreshold(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFiling, "a")
	r := newRoadmapWith(t, a, b)

	completeTask(t, r, "a")
	require.NoError(t, r.AdvancePhase(testNow))
	assert.Equal(t, PhaseFiling, r.CurrentPhase)

	require.Len(t, r.PhaseHistory, 2)
	assert.NotNil(t, r.PhaseHistory[0].ExitedAt, "previous phase entry closed")
	assert.Equal(t, PhaseFiling, r.PhaseHistory[1].Phase)
	assert.Nil(t, r.PhaseHistory[1].ExitedAt)
}

func TestAdvancePhase_EmptyPhaseNotReady(t *testing.T) {
	r := NewRoadmap("rm-1", "case-1", testNow)
	err := r.AdvancePhase(testNow)
	var notReady *PhaseNotReadyError
	require.ErrorAs(t, err, &notReady, "a phase with zero tasks never auto-advances")
}

func TestAdvancePhase_CustomThreshold(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily)
	c := newTask("c", CategoryFiling)
	r := newRoadmapWith(t, a, b, c)
	r.PhaseThresholds = map[Phase]float64{PhasePreFiling: 50}

	completeTask(t, r, "a")
	require.NoError(t, r.AdvancePhase(testNow))
	assert.Equal(t, PhaseFiling, r.CurrentPhase)
}

func TestAdvancePhase_FinalPhaseCompletesRoadmap(t *testing.T) {
	a := newTask("a", CategoryClosure)
	r := newRoadmapWith(t, a)
	r.CurrentPhase = PhaseClosure
	r.RecomputeProgress()

	completeTask(t, r, "a")
	require.NoError(t, r.AdvancePhase(testNow))

	assert.Equal(t, RoadmapCompleted, r.Status)
	require.NotNil(t, r.ActualCompletionDate)
	assert.Equal(t, testNow, *r.ActualCompletionDate)
	assert.True(t, r.Closed())

	// Every mutation is rejected after completion.
	assert.ErrorIs(t, r.StartTask("a", "amina", testNow), ErrRoadmapClosed)
	_, err := r.CompleteTask("a", "amina", "", nil, testNow)
	assert.ErrorIs(t, err, ErrRoadmapClosed)
	assert.ErrorIs(t, r.AdvancePhase(testNow), ErrRoadmapClosed)
	assert.ErrorIs(t, r.AddTasks([]*Task{newTask("z", CategoryClosure)}, testNow), ErrRoadmapClosed)
}

func TestForcePhase_SkipsEmptyPhase(t *testing.T) {
	r := NewRoadmap("rm-1", "case-1", testNow)
	require.NoError(t, r.ForcePhase(PhaseConfirmation, testNow))
	assert.Equal(t, PhaseConfirmation, r.CurrentPhase)
}

func TestForcePhase_NeverBackward(t *testing.T) {
	r := NewRoadmap("rm-1", "case-1", testNow)
	require.NoError(t, r.ForcePhase(PhaseDistribution, testNow))

	err := r.ForcePhase(PhaseFiling, testNow)
	var notReady *PhaseNotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, PhaseDistribution, r.CurrentPhase)

	err = r.ForcePhase(PhaseDistribution, testNow)
	require.Error(t, err, "forcing the current phase is not a move")
}

func TestForcePhase_UnknownPhase(t *testing.T) {
	r := NewRoadmap("rm-1", "case-1", testNow)
	require.Error(t, r.ForcePhase(Phase("probate"), testNow))
}

func TestPauseResumeEscalateAbandon(t *testing.T) {
	r := NewRoadmap("rm-1", "case-1", testNow)

	require.NoError(t, r.Pause(testNow))
	assert.Equal(t, RoadmapPaused, r.Status)

	require.NoError(t, r.Resume(testNow))
	assert.Equal(t, RoadmapActive, r.Status)

	require.NoError(t, r.Escalate(testNow))
	assert.Equal(t, RoadmapEscalated, r.Status)

	require.NoError(t, r.Abandon(testNow))
	assert.Equal(t, RoadmapAbandoned, r.Status)
}

func TestOverallProgress(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily)
	c := newTask("c", CategoryFiling)
	r := newRoadmapWith(t, a, b, c)

	assert.Equal(t, float64(0), r.OverallPercent())
	assert.False(t, r.OverallComplete())

	completeTask(t, r, "a")
	assert.Equal(t, float64(33), r.OverallPercent())

	completeTask(t, r, "b")
	completeTask(t, r, "c")
	assert.Equal(t, float64(100), r.OverallPercent())
	assert.True(t, r.OverallComplete())
}

func TestPhaseProgress_CountersAreDerived(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily)
	r := newRoadmapWith(t, a, b)

	completeTask(t, r, "a")
	pre := r.PhaseProgress[PhasePreFiling]
	assert.Equal(t, 1, pre.Completed)
	assert.Equal(t, 2, pre.Total)
	assert.Equal(t, float64(50), pre.Percent)

	// Tamper with a counter, then mutate: recompute repairs it.
	r.CompletedTasks = 99
	completeTask(t, r, "b")
	assert.Equal(t, 2, r.CompletedTasks)
}

func TestResolveDependencies_Idempotent(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily, "a")
	r := newRoadmapWith(t, a, b)

	completeTask(t, r, "a")
	res := r.ResolveDependencies(testNow)
	assert.Empty(t, res.UnlockedIDs, "settled graph unlocks nothing")
	assert.False(t, res.OverallComplete)
}

func TestCanStartTask(t *testing.T) {
	a := newTask("a", CategoryIdentity)
	b := newTask("b", CategoryFamily, "a")
	r := newRoadmapWith(t, a, b)

	assert.True(t, r.CanStartTask("a"))
	assert.False(t, r.CanStartTask("b"), "locked")
	assert.False(t, r.CanStartTask("ghost"))

	completeTask(t, r, "a")
	assert.True(t, r.CanStartTask("b"))
	assert.False(t, r.CanStartTask("a"), "completed tasks cannot be started")
}
