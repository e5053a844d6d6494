package habits

import (
	"time"

	"habitly/internal/core"
)

// CategoryCap projects the end-of-month spend for a category and subtracts
// the saving potential of its bad alerts, yielding a monthly budget ceiling.
// The boolean is false when no bad alert carries saving potential for the
// category, meaning no cap is in effect.
//
// The cap is a monthly ceiling, not a remaining-today allowance; callers
// derive the remaining headroom by subtracting the month-to-date category
// total from it.
func CategoryCap(expenses []core.Expense, alerts []core.HabitAlert, category core.Category, now time.Time) (int64, bool) {
	monthTotal := MonthCategoryTotal(expenses, category, now)

	var potential int64
	for _, a := range alerts {
		if a.Severity == core.SeverityBad && a.Category == category {
			potential += a.SavingPotential
		}
	}
	if potential <= 0 {
		return 0, false
	}

	daysSoFar := now.Day()
	if daysSoFar < 1 {
		daysSoFar = 1
	}
	projected := monthTotal / float64(daysSoFar) * float64(core.DaysInMonth(now))
	cap := core.RoundUnits(projected - float64(potential))
	if cap < 0 {
		cap = 0
	}
	return cap, true
}

// MonthCategoryTotal sums the given category's spend within the calendar
// month of now.
func MonthCategoryTotal(expenses []core.Expense, category core.Category, now time.Time) float64 {
	year, month, _ := now.Date()
	var total float64
	for _, e := range expenses {
		ey, em, _ := e.Date.Date()
		if e.Category == category && ey == year && em == month {
			total += e.Amount
		}
	}
	return total
}
