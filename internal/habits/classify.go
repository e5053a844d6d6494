// Package habits implements the impulse/habit classification rules and the
// derived behavioral alerts and category caps built on top of them.
package habits

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"habitly/internal/core"
)

const (
	// impulseAmountThreshold is the whole-unit amount above which a
	// non-essential purchase is flagged as impulsive.
	impulseAmountThreshold = 500.0

	// savingPotentialRate and savingPotentialMax bound the estimated saving
	// attached to an impulse alert.
	savingPotentialRate = 0.3
	savingPotentialMax  = 1000.0

	// habitMonthlyThreshold is the number of prior same-category expenses in
	// the same calendar month that marks a category as habitual.
	habitMonthlyThreshold = 4
)

const coolingOffSuggestion = "Consider a 24-hour cooling-off period before similar purchases."

// nonEssential holds the categories eligible for impulse flagging.
var nonEssential = map[core.Category]bool{
	core.CategoryFood:          true,
	core.CategoryShopping:      true,
	core.CategoryEntertainment: true,
}

// NonEssential reports whether a category is eligible for impulse flagging.
func NonEssential(c core.Category) bool {
	return nonEssential[c]
}

// ImpulseAmountThreshold is the whole-unit amount above which a non-essential
// purchase counts as impulsive, exported for the spending analyzer.
const ImpulseAmountThreshold = impulseAmountThreshold

// Flags carries the per-expense classification outcome.
type Flags struct {
	Impulse bool
	Habit   bool
}

// Classification is the result of classifying one expense against the list
// it belongs to. Alert is non-nil only for impulse purchases.
type Classification struct {
	Flags Flags
	Alert *core.HabitAlert
}

// Classify decides whether an expense is impulsive and whether its category
// is recurring this month. It is pure apart from the ID and CreatedAt of the
// generated alert, which use uuid and wall-clock time and are excluded from
// downstream equality checks.
func Classify(expense core.Expense, existing []core.Expense) Classification {
	impulse := nonEssential[expense.Category] && expense.Amount > impulseAmountThreshold

	year, month, _ := expense.Date.Date()
	freq := 0
	for _, e := range existing {
		ey, em, _ := e.Date.Date()
		if e.Category == expense.Category && ey == year && em == month {
			freq++
		}
	}
	habit := freq >= habitMonthlyThreshold

	result := Classification{Flags: Flags{Impulse: impulse, Habit: habit}}
	if impulse {
		result.Alert = &core.HabitAlert{
			ID:              uuid.NewString(),
			Title:           "Impulse spending detected",
			Description:     fmt.Sprintf("This %s purchase seems impulsive based on amount and category.", expense.Category),
			Severity:        core.SeverityBad,
			Category:        expense.Category,
			SavingPotential: core.RoundUnits(math.Min(expense.Amount*savingPotentialRate, savingPotentialMax)),
			Suggestion:      coolingOffSuggestion,
			CreatedAt:       time.Now(),
		}
	}
	return result
}
