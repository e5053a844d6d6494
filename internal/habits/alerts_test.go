package habits

import (
	"testing"
	"time"

	"habitly/internal/core"
)

func TestRecomputeAlerts_DeduplicatesByCategoryTitleDay(t *testing.T) {
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense(core.CategoryFood, 800, date),
		expense(core.CategoryFood, 900, date.Add(2*time.Hour)),
		expense(core.CategoryShopping, 700, date),
	}

	alerts := RecomputeAlerts(expenses)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2 (food deduped, shopping kept)", len(alerts))
	}
	// First occurrence wins and input order is preserved.
	if alerts[0].Category != core.CategoryFood {
		t.Errorf("first alert category = %s, want food", alerts[0].Category)
	}
	if alerts[1].Category != core.CategoryShopping {
		t.Errorf("second alert category = %s, want shopping", alerts[1].Category)
	}
}

func TestRecomputeAlerts_EmptyAndNonImpulse(t *testing.T) {
	if got := RecomputeAlerts(nil); len(got) != 0 {
		t.Fatalf("empty input should yield no alerts, got %d", len(got))
	}

	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense(core.CategoryBills, 5000, date),
		expense(core.CategoryFood, 100, date),
	}
	if got := RecomputeAlerts(expenses); len(got) != 0 {
		t.Fatalf("non-impulse expenses should yield no alerts, got %d", len(got))
	}
}

func TestBadAlerts(t *testing.T) {
	alerts := []core.HabitAlert{
		{ID: "1", Severity: core.SeverityBad},
		{ID: "2", Severity: core.SeverityWarning},
		{ID: "3", Severity: core.SeverityBad},
	}
	bad := BadAlerts(alerts)
	if len(bad) != 2 {
		t.Fatalf("got %d bad alerts, want 2", len(bad))
	}
	if bad[0].ID != "1" || bad[1].ID != "3" {
		t.Error("bad alert order should follow input order")
	}
}
