package ledger

import (
	"fmt"
	"math"
	"time"

	"habitly/internal/core"
)

// habitDistinctDays is the number of distinct spending days in a month that
// marks a category as habitual for derivation purposes.
const habitDistinctDays = 4

// deriveMonthEntries rebuilds the derived ledger entries for the calendar
// month of now. For every habitual category it compares each elapsed day's
// spend against the category's average daily spend: a zero-spend day earns a
// PREVENTED entry worth the average, a below-average day earns a REDUCED
// entry worth the gap. Output order is fixed by category declaration order
// and ascending day.
func deriveMonthEntries(expenses []core.Expense, now time.Time) []core.SavingEntry {
	year, month, _ := now.Date()
	daysSoFar := max(1, now.Day())

	dailyTotals := make(map[string]float64)
	monthTotals := make(map[core.Category]float64)
	distinctDays := make(map[core.Category]map[string]bool)

	for _, e := range expenses {
		ey, em, _ := e.Date.Date()
		if ey != year || em != month {
			continue
		}
		dk := core.DayKey(e.Date)
		dailyTotals[dk+"|"+string(e.Category)] += e.Amount
		monthTotals[e.Category] += e.Amount
		if distinctDays[e.Category] == nil {
			distinctDays[e.Category] = make(map[string]bool)
		}
		distinctDays[e.Category][dk] = true
	}

	var derived []core.SavingEntry
	for _, cat := range core.Categories {
		distinct := len(distinctDays[cat])
		if distinct < habitDistinctDays {
			continue
		}
		avgDaily := monthTotals[cat] / float64(distinct)
		if math.IsNaN(avgDaily) || math.IsInf(avgDaily, 0) || avgDaily <= 0 {
			continue
		}

		for day := 1; day <= daysSoFar; day++ {
			dk := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
			spent := dailyTotals[dk+"|"+string(cat)]
			switch {
			case spent <= 0:
				if amt := core.RoundUnits(avgDaily); amt > 0 {
					derived = append(derived, newPreventedEntry(cat, dk, amt, now))
				}
			case spent < avgDaily:
				if amt := core.RoundUnits(avgDaily - spent); amt > 0 {
					derived = append(derived, newReducedEntry(cat, dk, amt, now))
				}
			}
		}
	}
	return derived
}
