package habits

import (
	"testing"
	"time"

	"habitly/internal/core"
)

func expense(cat core.Category, amount float64, date time.Time) core.Expense {
	return core.Expense{
		ID:          "x",
		Description: "test",
		Amount:      amount,
		Category:    cat,
		Date:        date,
		Source:      core.SourceManual,
	}
}

func TestClassify_ImpulseThreshold(t *testing.T) {
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		category    core.Category
		amount      float64
		wantImpulse bool
	}{
		{name: "food above threshold", category: core.CategoryFood, amount: 501, wantImpulse: true},
		{name: "food at threshold", category: core.CategoryFood, amount: 500, wantImpulse: false},
		{name: "shopping above threshold", category: core.CategoryShopping, amount: 750, wantImpulse: true},
		{name: "entertainment above threshold", category: core.CategoryEntertainment, amount: 600, wantImpulse: true},
		{name: "bills never impulse", category: core.CategoryBills, amount: 10000, wantImpulse: false},
		{name: "groceries never impulse", category: core.CategoryGroceries, amount: 2000, wantImpulse: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(expense(tt.category, tt.amount, date), nil)
			if got.Flags.Impulse != tt.wantImpulse {
				t.Errorf("impulse = %v, want %v", got.Flags.Impulse, tt.wantImpulse)
			}
			if tt.wantImpulse && got.Alert == nil {
				t.Error("impulse classification should carry an alert")
			}
			if !tt.wantImpulse && got.Alert != nil {
				t.Error("non-impulse classification should not carry an alert")
			}
		})
	}
}

func TestClassify_AlertFields(t *testing.T) {
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	got := Classify(expense(core.CategoryShopping, 1000, date), nil)
	if got.Alert == nil {
		t.Fatal("expected alert")
	}
	if got.Alert.Severity != core.SeverityBad {
		t.Errorf("severity = %s, want bad", got.Alert.Severity)
	}
	// 1000 * 0.3 = 300, below the 1000 cap
	if got.Alert.SavingPotential != 300 {
		t.Errorf("savingPotential = %d, want 300", got.Alert.SavingPotential)
	}
	if got.Alert.Category != core.CategoryShopping {
		t.Errorf("category = %s, want shopping", got.Alert.Category)
	}
	if got.Alert.Suggestion == "" || got.Alert.ID == "" {
		t.Error("alert suggestion and id must be populated")
	}

	// A very large purchase hits the saving potential cap.
	big := Classify(expense(core.CategoryShopping, 50000, date), nil)
	if big.Alert.SavingPotential != 1000 {
		t.Errorf("savingPotential = %d, want capped 1000", big.Alert.SavingPotential)
	}
}

func TestClassify_HabitRule(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	var existing []core.Expense
	for i := 0; i < 3; i++ {
		existing = append(existing, expense(core.CategoryFood, 50, base.AddDate(0, 0, i)))
	}

	target := expense(core.CategoryFood, 50, base.AddDate(0, 0, 10))
	if got := Classify(target, existing); got.Flags.Habit {
		t.Error("3 same-month expenses should not mark a habit")
	}

	existing = append(existing, expense(core.CategoryFood, 50, base.AddDate(0, 0, 3)))
	if got := Classify(target, existing); !got.Flags.Habit {
		t.Error("4 same-month expenses should mark a habit")
	}

	// Same category in a different month does not count.
	other := []core.Expense{
		expense(core.CategoryFood, 50, base.AddDate(-1, 0, 0)),
		expense(core.CategoryFood, 50, base.AddDate(-1, 0, 1)),
		expense(core.CategoryFood, 50, base.AddDate(-1, 0, 2)),
		expense(core.CategoryFood, 50, base.AddDate(-1, 0, 3)),
	}
	if got := Classify(target, other); got.Flags.Habit {
		t.Error("prior-month expenses must not count toward the habit rule")
	}
}
