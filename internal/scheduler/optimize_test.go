package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

func findUpgrade(upgrades []PriorityUpgrade, id string) (PriorityUpgrade, bool) {
	for _, u := range upgrades {
		if u.TaskID == id {
			return u, true
		}
	}
	return PriorityUpgrade{}, false
}

func TestSuggestPriorityUpgrades_ZeroFloatRaisesOneStep(t *testing.T) {
	a := task("a", 2)
	a.Priority = domain.PriorityLow
	b := task("b", 3, "a")
	b.Priority = domain.PriorityMedium
	slack := task("slack", 1, "a")

	upgrades := SuggestPriorityUpgrades([]*domain.Task{a, b, slack}, testNow)

	ua, ok := findUpgrade(upgrades, "a")
	require.True(t, ok)
	assert.Equal(t, domain.PriorityLow, ua.From)
	assert.Equal(t, domain.PriorityMedium, ua.To)
	require.NotEmpty(t, ua.Reasons)
	assert.Equal(t, ReasonZeroFloat, ua.Reasons[0].Code)

	ub, ok := findUpgrade(upgrades, "b")
	require.True(t, ok)
	assert.Equal(t, domain.PriorityHigh, ub.To)

	_, ok = findUpgrade(upgrades, "slack")
	assert.False(t, ok, "positive float with no due date needs no raise")
}

func TestSuggestPriorityUpgrades_CriticalAndOverdueGoesStraightToCritical(t *testing.T) {
	a := task("a", 2)
	a.Priority = domain.PriorityLow
	a.IsOverdue = true

	upgrades := SuggestPriorityUpgrades([]*domain.Task{a}, testNow)
	ua, ok := findUpgrade(upgrades, "a")
	require.True(t, ok)
	assert.Equal(t, domain.PriorityCritical, ua.To)
	codes := []UpgradeReasonCode{ua.Reasons[0].Code, ua.Reasons[1].Code}
	assert.Contains(t, codes, ReasonZeroFloat)
	assert.Contains(t, codes, ReasonOverdue)
}

func TestSuggestPriorityUpgrades_DueSoon(t *testing.T) {
	due := testNow.Add(48 * time.Hour)
	a := task("a", 1)
	a.Priority = domain.PriorityLow
	a.DueDate = &due
	b := task("b", 5)

	// a has float against b's longer branch, but its due date is close.
	upgrades := SuggestPriorityUpgrades([]*domain.Task{a, b}, testNow)
	ua, ok := findUpgrade(upgrades, "a")
	require.True(t, ok)
	assert.Equal(t, domain.PriorityMedium, ua.To)
	assert.Equal(t, ReasonDueSoon, ua.Reasons[0].Code)
}

func TestSuggestPriorityUpgrades_AlreadyCritical(t *testing.T) {
	a := task("a", 2)
	a.Priority = domain.PriorityCritical
	upgrades := SuggestPriorityUpgrades([]*domain.Task{a}, testNow)
	_, ok := findUpgrade(upgrades, "a")
	assert.False(t, ok, "nothing above critical")
}

func TestSuggestPriorityUpgrades_ResolvedExcluded(t *testing.T) {
	a := task("a", 2)
	a.Status = domain.TaskCompleted
	a.Priority = domain.PriorityLow
	upgrades := SuggestPriorityUpgrades([]*domain.Task{a}, testNow)
	assert.Empty(t, upgrades)
}

func TestSuggestPriorityUpgrades_DoesNotMutate(t *testing.T) {
	a := task("a", 2)
	a.Priority = domain.PriorityLow
	SuggestPriorityUpgrades([]*domain.Task{a}, testNow)
	assert.Equal(t, domain.PriorityLow, a.Priority)
}

func TestApplyPriorityUpgrades(t *testing.T) {
	a := task("a", 2)
	a.Priority = domain.PriorityLow
	upgrades := SuggestPriorityUpgrades([]*domain.Task{a}, testNow)
	require.NotEmpty(t, upgrades)

	ApplyPriorityUpgrades([]*domain.Task{a}, upgrades, testNow)
	assert.Equal(t, domain.PriorityMedium, a.Priority)
	assert.Equal(t, testNow, a.UpdatedAt)
}
