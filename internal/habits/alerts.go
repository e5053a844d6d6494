package habits

import (
	"fmt"

	"habitly/internal/core"
)

// RecomputeAlerts rebuilds the full alert set from the current expense list.
// Every expense is classified independently and the resulting alerts are
// deduplicated by (category, title, calendar day of creation); the first
// occurrence wins and output order follows expense order.
//
// Callers must pass the complete list after every add or delete so alerts
// referencing removed expenses disappear.
func RecomputeAlerts(expenses []core.Expense) []core.HabitAlert {
	var alerts []core.HabitAlert
	for _, e := range expenses {
		if c := Classify(e, expenses); c.Alert != nil {
			alerts = append(alerts, *c.Alert)
		}
	}

	seen := make(map[string]bool, len(alerts))
	deduped := alerts[:0]
	for _, a := range alerts {
		key := fmt.Sprintf("%s|%s|%s", a.Category, a.Title, core.DayKey(a.CreatedAt))
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, a)
	}
	return deduped
}

// BadAlerts filters the alert list down to bad severity.
func BadAlerts(alerts []core.HabitAlert) []core.HabitAlert {
	var bad []core.HabitAlert
	for _, a := range alerts {
		if a.Severity == core.SeverityBad {
			bad = append(bad, a)
		}
	}
	return bad
}
