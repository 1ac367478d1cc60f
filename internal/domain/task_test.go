package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestDurationDays(t *testing.T) {
	cases := []struct {
		minutes int
		days    int
	}{
		{0, 1},
		{60, 1},
		{480, 1},
		{481, 2},
		{960, 2},
		{1440, 3},
	}
	for _, tc := range cases {
		task := &Task{EstimatedDurationMinutes: tc.minutes}
		assert.Equal(t, tc.days, task.DurationDays(), "minutes=%d", tc.minutes)
	}
}

func TestIsResolved(t *testing.T) {
	cases := []struct {
		status   TaskStatus
		resolved bool
	}{
		{TaskLocked, false},
		{TaskPending, false},
		{TaskInProgress, false},
		{TaskBlocked, false},
		{TaskCompleted, true},
		{TaskSkipped, true},
		{TaskWaived, true},
	}
	for _, tc := range cases {
		task := &Task{Status: tc.status}
		assert.Equal(t, tc.resolved, task.IsResolved(), "status=%s", tc.status)
	}
}

func TestUnlock_FromLocked(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskLocked}
	require.NoError(t, task.Unlock(testNow))
	assert.Equal(t, TaskPending, task.Status)
	assert.Equal(t, testNow, task.UpdatedAt)
}

func TestUnlock_AlreadyPendingIsNoop(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskPending}
	require.NoError(t, task.Unlock(testNow))
	assert.Equal(t, TaskPending, task.Status)
}

func TestUnlock_FromCompleted(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskCompleted}
	err := task.Unlock(testNow)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, TaskCompleted, transErr.From)
}

func TestStart_FromPending(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskPending}
	require.NoError(t, task.Start("amina", testNow))
	assert.Equal(t, TaskInProgress, task.Status)
	assert.Equal(t, "amina", task.StartedBy)
	require.NotNil(t, task.StartedAt)
	assert.Equal(t, testNow, *task.StartedAt)
}

func TestStart_FromLocked(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskLocked}
	err := task.Start("amina", testNow)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
}

func TestComplete_FromInProgress(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskInProgress, IsOverdue: true}
	require.NoError(t, task.Complete("amina", "done early", nil, testNow))
	assert.Equal(t, TaskCompleted, task.Status)
	assert.Equal(t, "amina", task.CompletedBy)
	assert.Equal(t, "done early", task.Notes)
	assert.False(t, task.IsOverdue, "completion clears the overdue flag")
	require.NotNil(t, task.CompletedAt)
}

func TestComplete_FromPending(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskPending}
	err := task.Complete("amina", "", nil, testNow)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, TaskPending, task.Status)
}

func TestComplete_ProofRequiredMissing(t *testing.T) {
	task := &Task{
		ID:                "t1",
		Status:            TaskInProgress,
		RequiresProof:     true,
		AllowedProofTypes: []ProofType{ProofCourtStamp},
	}
	err := task.Complete("amina", "", nil, testNow)
	var proofErr *ProofRequiredError
	require.ErrorAs(t, err, &proofErr)
	assert.Equal(t, []ProofType{ProofCourtStamp}, proofErr.AllowedTypes)
	assert.Equal(t, TaskInProgress, task.Status)
}

func TestComplete_ProofWrongType(t *testing.T) {
	task := &Task{
		ID:                "t1",
		Status:            TaskInProgress,
		RequiresProof:     true,
		AllowedProofTypes: []ProofType{ProofCourtStamp},
	}
	err := task.Complete("amina", "", &ProofReference{Type: ProofAffidavit, Reference: "doc-9"}, testNow)
	var proofErr *ProofRequiredError
	require.ErrorAs(t, err, &proofErr)
	assert.Nil(t, task.Proof, "rejected proof must not be attached")
}

func TestComplete_ProofAccepted(t *testing.T) {
	task := &Task{
		ID:                "t1",
		Status:            TaskInProgress,
		RequiresProof:     true,
		AllowedProofTypes: []ProofType{ProofCourtStamp, ProofPaymentReceipt},
	}
	proof := &ProofReference{Type: ProofPaymentReceipt, Reference: "rcpt-42"}
	require.NoError(t, task.Complete("amina", "", proof, testNow))
	assert.Equal(t, TaskCompleted, task.Status)
	require.NotNil(t, task.Proof)
	assert.Equal(t, "rcpt-42", task.Proof.Reference)
}

func TestComplete_ProofOptionalStillAttached(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskInProgress}
	proof := &ProofReference{Type: ProofDocumentUpload, Reference: "doc-1"}
	require.NoError(t, task.Complete("amina", "", proof, testNow))
	require.NotNil(t, task.Proof)
}

func TestSkip_Optional(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskPending, Mandatory: false, IsOverdue: true}
	require.NoError(t, task.Skip("amina", "not needed for small estate", testNow))
	assert.Equal(t, TaskSkipped, task.Status)
	assert.Equal(t, "not needed for small estate", task.SkipReason)
	assert.False(t, task.IsOverdue)
	require.NotNil(t, task.SkippedAt)
}

func TestSkip_Mandatory(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskPending, Mandatory: true}
	err := task.Skip("amina", "reason", testNow)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, TaskPending, task.Status)
}

func TestSkip_InProgress(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskInProgress, Mandatory: false}
	require.NoError(t, task.Skip("amina", "", testNow))
	assert.Equal(t, TaskSkipped, task.Status)
}

func TestWaive_MandatoryAllowed(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskLocked, Mandatory: true}
	require.NoError(t, task.Waive("registrar", "court order waives gazette", testNow))
	assert.Equal(t, TaskWaived, task.Status)
	assert.Equal(t, "court order waives gazette", task.SkipReason)
}

func TestWaive_FromCompleted(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskCompleted}
	err := task.Waive("registrar", "", testNow)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
}

func TestBlock_RecordsRisk(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskInProgress}
	require.NoError(t, task.Block("amina", "heir dispute", "risk-7", testNow))
	assert.Equal(t, TaskBlocked, task.Status)
	assert.Equal(t, "risk-7", task.BlockingRiskID)
	assert.Equal(t, []string{"risk-7"}, task.RelatedRiskIDs)
	assert.Equal(t, "heir dispute", task.BlockReason)
}

func TestBlock_DoesNotDuplicateRiskLink(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskPending, RelatedRiskIDs: []string{"risk-7"}}
	require.NoError(t, task.Block("amina", "", "risk-7", testNow))
	assert.Equal(t, []string{"risk-7"}, task.RelatedRiskIDs)
}

func TestBlock_ResolvedTask(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskSkipped}
	err := task.Block("amina", "", "", testNow)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
}

func TestUnblock_ReturnsToPending(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskBlocked, BlockReason: "dispute", BlockingRiskID: "risk-7"}
	require.NoError(t, task.Unblock("amina", testNow))
	assert.Equal(t, TaskPending, task.Status, "unblock never resumes in-progress directly")
	assert.Empty(t, task.BlockReason)
	assert.Empty(t, task.BlockingRiskID)
}

func TestReopen_ClearsResolutionMetadata(t *testing.T) {
	completedAt := testNow.Add(-time.Hour)
	task := &Task{
		ID:          "t1",
		Status:      TaskCompleted,
		CompletedAt: &completedAt,
		CompletedBy: "amina",
		Proof:       &ProofReference{Type: ProofCourtStamp, Reference: "stamp-1"},
	}
	require.NoError(t, task.Reopen(testNow))
	assert.Equal(t, TaskPending, task.Status)
	assert.Nil(t, task.CompletedAt)
	assert.Empty(t, task.CompletedBy)
	assert.Nil(t, task.Proof)
}

func TestReopen_FromSkipped(t *testing.T) {
	skippedAt := testNow.Add(-time.Hour)
	task := &Task{ID: "t1", Status: TaskSkipped, SkippedAt: &skippedAt, SkipReason: "oops"}
	require.NoError(t, task.Reopen(testNow))
	assert.Equal(t, TaskPending, task.Status)
	assert.Nil(t, task.SkippedAt)
	assert.Empty(t, task.SkipReason)
}

func TestReopen_FromWaived(t *testing.T) {
	task := &Task{ID: "t1", Status: TaskWaived}
	err := task.Reopen(testNow)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
}

func TestMarkOverdue(t *testing.T) {
	past := testNow.Add(-24 * time.Hour)
	future := testNow.Add(24 * time.Hour)

	task := &Task{ID: "t1", Status: TaskPending, DueDate: &past}
	assert.True(t, task.MarkOverdue(testNow))
	assert.True(t, task.IsOverdue)
	assert.False(t, task.MarkOverdue(testNow), "second sweep reports nothing new")

	notDue := &Task{ID: "t2", Status: TaskPending, DueDate: &future}
	assert.False(t, notDue.MarkOverdue(testNow))

	resolved := &Task{ID: "t3", Status: TaskCompleted, DueDate: &past}
	assert.False(t, resolved.MarkOverdue(testNow))

	noDue := &Task{ID: "t4", Status: TaskPending}
	assert.False(t, noDue.MarkOverdue(testNow))
}

func TestPhaseFromCategory(t *testing.T) {
	cases := []struct {
		category TaskCategory
		phase    Phase
	}{
		{CategoryIdentity, PhasePreFiling},
		{CategoryFamily, PhasePreFiling},
		{CategoryAssets, PhasePreFiling},
		{CategoryForms, PhaseFiling},
		{CategoryFiling, PhaseFiling},
		{CategoryGazette, PhaseFiling},
		{CategoryCourt, PhaseConfirmation},
		{CategoryDistribution, PhaseDistribution},
		{CategoryClosure, PhaseClosure},
	}
	for _, tc := range cases {
		task := &Task{Category: tc.category}
		assert.Equal(t, tc.phase, task.Phase(), "category=%s", tc.category)
	}
}
