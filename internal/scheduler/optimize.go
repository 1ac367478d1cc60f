package scheduler

import (
	"time"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/cpm"
	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

type UpgradeReasonCode string

const (
	ReasonZeroFloat  UpgradeReasonCode = "ZERO_FLOAT"
	ReasonOverdue    UpgradeReasonCode = "OVERDUE"
	ReasonDueSoon    UpgradeReasonCode = "DUE_SOON"
	ReasonBottleneck UpgradeReasonCode = "BOTTLENECK"
)

type UpgradeReason struct {
	Code    UpgradeReasonCode
	Message string
}

// PriorityUpgrade suggests raising a task's priority. Applying it is the
// caller's decision; the computation never mutates tasks.
type PriorityUpgrade struct {
	TaskID  string
	From    domain.TaskPriority
	To      domain.TaskPriority
	Reasons []UpgradeReason
}

// dueSoonDays is the window inside which a due date starts driving priority.
const dueSoonDays = 3

// SuggestPriorityUpgrades inspects the critical path and due dates and
// proposes priority raises for unresolved tasks. A zero-float task that is
// also overdue goes straight to critical; zero float alone raises one step.
func SuggestPriorityUpgrades(tasks []*domain.Task, now time.Time) []PriorityUpgrade {
	analysis := cpm.Analyze(tasks)

	var upgrades []PriorityUpgrade
	for _, t := range tasks {
		if t.IsResolved() {
			continue
		}
		ts, ok := analysis.Schedules[t.ID]
		if !ok {
			continue
		}

		var reasons []UpgradeReason
		if ts.Float == 0 {
			reasons = append(reasons, UpgradeReason{
				Code:    ReasonZeroFloat,
				Message: "On the critical path: any delay moves the completion date",
			})
		}
		if t.IsOverdue {
			reasons = append(reasons, UpgradeReason{
				Code:    ReasonOverdue,
				Message: "Past its due date",
			})
		} else if t.DueDate != nil {
			daysUntil := int(t.DueDate.Sub(now).Hours() / 24)
			if daysUntil >= 0 && daysUntil <= dueSoonDays {
				reasons = append(reasons, UpgradeReason{
					Code:    ReasonDueSoon,
					Message: "Due within the next few days",
				})
			}
		}
		if len(reasons) == 0 {
			continue
		}

		target := upgradeTarget(t.Priority, ts.Float == 0, t.IsOverdue)
		if target == t.Priority {
			continue
		}
		upgrades = append(upgrades, PriorityUpgrade{
			TaskID:  t.ID,
			From:    t.Priority,
			To:      target,
			Reasons: reasons,
		})
	}
	return upgrades
}

// ApplyPriorityUpgrades writes the suggested priorities back to the tasks.
func ApplyPriorityUpgrades(tasks []*domain.Task, upgrades []PriorityUpgrade, now time.Time) {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	for _, u := range upgrades {
		if t, ok := byID[u.TaskID]; ok {
			t.Priority = u.To
			t.UpdatedAt = now
		}
	}
}

func upgradeTarget(current domain.TaskPriority, critical, overdue bool) domain.TaskPriority {
	if critical && overdue {
		return domain.PriorityCritical
	}
	switch current {
	case domain.PriorityLow:
		return domain.PriorityMedium
	case domain.PriorityMedium:
		return domain.PriorityHigh
	case domain.PriorityHigh:
		if critical {
			return domain.PriorityCritical
		}
	}
	return current
}
