package ai

import (
	"strings"
	"testing"
	"time"

	"habitly/internal/core"
)

func exp(cat core.Category, amount float64, date time.Time) core.Expense {
	return core.Expense{
		ID:          "x",
		Description: "test",
		Amount:      amount,
		Category:    cat,
		Date:        date,
		Source:      core.SourceManual,
	}
}

func TestLocalAnalyzer_Empty(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	got := LocalAnalyzer{}.Analyze(nil, now)
	if len(got.Insights) != 0 || len(got.Suggestions) != 0 {
		t.Fatal("empty input should yield empty analysis")
	}
	if got.Metrics.ImpulseSpending != 0 || got.Metrics.BadHabitCount != 0 || got.Metrics.PotentialSavings != 0 {
		t.Fatalf("metrics should be zero, got %+v", got.Metrics)
	}
}

func TestLocalAnalyzer_ImpulseSpendingMetric(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		exp(core.CategoryShopping, 600, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)),
		exp(core.CategoryFood, 501, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)),
		exp(core.CategoryBills, 900, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)),
		exp(core.CategoryShopping, 700, time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)),
	}

	got := LocalAnalyzer{}.Analyze(expenses, now)
	// Bills and last month's shopping do not count.
	if got.Metrics.ImpulseSpending != 1101 {
		t.Fatalf("impulseSpending = %v, want 1101", got.Metrics.ImpulseSpending)
	}
}

func TestLocalAnalyzer_WeekendSpike(t *testing.T) {
	// June 7 and 14, 2025 are Saturdays; June 2 is a Monday.
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		exp(core.CategoryFood, 100, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)),
		exp(core.CategoryFood, 300, time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)),
		exp(core.CategoryFood, 120, time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)),
	}

	got := LocalAnalyzer{}.Analyze(expenses, now)
	if len(got.Insights) != 1 {
		t.Fatalf("got %d insights, want 1", len(got.Insights))
	}
	in := got.Insights[0]
	if in.Risk != RiskMedium {
		t.Errorf("risk = %s, want Medium", in.Risk)
	}
	if in.Intent != IntentPlanned {
		t.Errorf("intent = %s, want Planned (no purchase above threshold)", in.Intent)
	}
	if in.Reasoning != "Weekend spikes detected" {
		t.Errorf("reasoning = %q", in.Reasoning)
	}
	if in.SubType != "Online Delivery" {
		t.Errorf("subType = %q, want Online Delivery for food", in.SubType)
	}
	// distinctDays/10 + weekend bonus = 0.3 + 0.1
	if in.HabitLikelihood < 0.39 || in.HabitLikelihood > 0.41 {
		t.Errorf("habitLikelihood = %v, want 0.4", in.HabitLikelihood)
	}
	if got.Metrics.BadHabitCount != 1 {
		t.Errorf("badHabitCount = %d, want 1", got.Metrics.BadHabitCount)
	}
	// avg = 520/3, potential = round(avg*2*0.3) = 104
	if got.Metrics.PotentialSavings != 104 {
		t.Errorf("potentialSavings = %d, want 104", got.Metrics.PotentialSavings)
	}
	if len(got.Suggestions) != 1 || !strings.Contains(got.Suggestions[0], "Cooking twice this week") {
		t.Errorf("suggestions = %v", got.Suggestions)
	}
}

func TestLocalAnalyzer_TrendUpIsHighRisk(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		exp(core.CategoryBills, 100, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)),
		exp(core.CategoryBills, 100, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)),
		exp(core.CategoryBills, 200, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)),
	}

	got := LocalAnalyzer{}.Analyze(expenses, now)
	if len(got.Insights) != 1 {
		t.Fatalf("got %d insights, want 1", len(got.Insights))
	}
	in := got.Insights[0]
	if in.Risk != RiskHigh {
		t.Errorf("risk = %s, want High for upward trend", in.Risk)
	}
	if in.Reasoning != "Gradual amount increase detected" {
		t.Errorf("reasoning = %q", in.Reasoning)
	}
	if len(got.Suggestions) != 1 || !strings.Contains(got.Suggestions[0], "weekly cap for bills") {
		t.Errorf("suggestions = %v", got.Suggestions)
	}
}

func TestLocalAnalyzer_ImpulseIntentAndLowRisk(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		exp(core.CategoryShopping, 600, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)),
		exp(core.CategoryGroceries, 50, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)),
	}

	got := LocalAnalyzer{}.Analyze(expenses, now)
	if len(got.Insights) != 2 {
		t.Fatalf("got %d insights, want 2", len(got.Insights))
	}

	shopping := got.Insights[0]
	if shopping.Intent != IntentImpulse || shopping.Risk != RiskMedium {
		t.Errorf("shopping intent/risk = %s/%s, want Impulse/Medium", shopping.Intent, shopping.Risk)
	}
	if shopping.Reasoning != "Typical spending pattern" {
		t.Errorf("reasoning = %q", shopping.Reasoning)
	}

	groceries := got.Insights[1]
	if groceries.Risk != RiskLow {
		t.Errorf("groceries risk = %s, want Low", groceries.Risk)
	}
	// Only the medium-risk category produces a suggestion.
	if len(got.Suggestions) != 1 {
		t.Errorf("got %d suggestions, want 1", len(got.Suggestions))
	}
}

func TestLocalAnalyzer_FallbackReply(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	reply := LocalAnalyzer{}.FallbackReply(nil, now)
	want := "Here's a thought: Track one category closely this week to build awareness."
	if reply != want {
		t.Errorf("reply = %q, want %q", reply, want)
	}

	expenses := []core.Expense{
		exp(core.CategoryShopping, 600, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)),
	}
	reply = LocalAnalyzer{}.FallbackReply(expenses, now)
	if !strings.HasPrefix(reply, "Here's a thought: ") || !strings.Contains(reply, "weekly cap for shopping") {
		t.Errorf("reply = %q", reply)
	}
}
