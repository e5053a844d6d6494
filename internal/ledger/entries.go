// Package ledger maintains the savings ledger: derived entries rebuilt from
// the spending distribution on every reconciliation, plus append-once event
// entries recorded when the cap enforcement intervenes.
package ledger

import (
	"fmt"
	"time"

	"habitly/internal/core"
)

const (
	reasonHabitAvoided = "Habit avoided"
	reasonSpendReduced = "Spend reduced"
)

// Reasons attached to OPTIMIZED entries by the cap enforcement flow.
const (
	ReasonOverspendBlocked = "Overspend blocked by savings cap"
	ReasonOverspendReduced = "Overspend reduced by savings cap"
)

// Entry IDs are deterministic so reconciliation and event recording stay
// idempotent: derived IDs key on category and day, event IDs on the expense.

func newPreventedEntry(category core.Category, dayKey string, amount int64, createdAt time.Time) core.SavingEntry {
	return core.SavingEntry{
		ID:                    fmt.Sprintf("PREVENTED:%s:%s", category, dayKey),
		Amount:                amount,
		SourceExpenseCategory: category,
		Reason:                reasonHabitAvoided,
		Type:                  core.SavingPrevented,
		Date:                  dayKey,
		CreatedAt:             createdAt,
	}
}

func newReducedEntry(category core.Category, dayKey string, amount int64, createdAt time.Time) core.SavingEntry {
	return core.SavingEntry{
		ID:                    fmt.Sprintf("REDUCED:%s:%s", category, dayKey),
		Amount:                amount,
		SourceExpenseCategory: category,
		Reason:                reasonSpendReduced,
		Type:                  core.SavingReduced,
		Date:                  dayKey,
		CreatedAt:             createdAt,
	}
}

func newOptimizedEntry(expenseID string, category core.Category, amount int64, reason string, now time.Time) core.SavingEntry {
	return core.SavingEntry{
		ID:                    "OPTIMIZED:" + expenseID,
		Amount:                amount,
		SourceExpenseCategory: category,
		Reason:                reason,
		Type:                  core.SavingOptimized,
		Date:                  core.DayKey(now),
		LinkedExpenseID:       expenseID,
		CreatedAt:             now,
	}
}
