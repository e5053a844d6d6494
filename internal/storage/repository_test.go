package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"habitly/internal/core"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_ExpensesRoundTrip(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	expenses := []core.Expense{
		{
			ID:          "e1",
			Description: "cinema",
			Amount:      600,
			Category:    core.CategoryEntertainment,
			Date:        time.Date(2025, 5, 3, 20, 0, 0, 0, time.UTC),
			IsImpulse:   true,
			Source:      core.SourceManual,
		},
		{
			ID:          "e2",
			Description: "bus pass",
			Amount:      45,
			Category:    core.CategoryTransport,
			Date:        time.Date(2025, 5, 4, 7, 30, 0, 0, time.UTC),
			Source:      core.SourceAuto,
		},
	}
	if err := repo.ReplaceExpenses(ctx, "guest", expenses); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.LoadExpenses(ctx, "guest")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d expenses, want 2", len(got))
	}
	if got[0].ID != "e1" || !got[0].IsImpulse || got[0].Category != core.CategoryEntertainment {
		t.Errorf("first expense = %+v", got[0])
	}
	if got[1].Source != core.SourceAuto || !got[1].Date.Equal(expenses[1].Date) {
		t.Errorf("second expense = %+v", got[1])
	}
}

func TestRepository_ReplaceOverwrites(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	first := []core.Expense{
		{ID: "old", Description: "old", Amount: 1, Category: core.CategoryOther,
			Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Source: core.SourceManual},
	}
	if err := repo.ReplaceExpenses(ctx, "guest", first); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := repo.ReplaceExpenses(ctx, "guest", nil); err != nil {
		t.Fatalf("replace with empty: %v", err)
	}

	got, err := repo.LoadExpenses(ctx, "guest")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d expenses after clearing, want 0", len(got))
	}
}

func TestRepository_SavingsRoundTripPreservesOrder(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	entries := []core.SavingEntry{
		{
			ID: "OPTIMIZED:e1", Amount: 120, SourceExpenseCategory: core.CategoryShopping,
			Reason: "Overspend blocked by savings cap", Type: core.SavingOptimized,
			Date: "2025-05-03", LinkedExpenseID: "e1",
			CreatedAt: time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: "PREVENTED:food:2025-05-02", Amount: 80, SourceExpenseCategory: core.CategoryFood,
			Reason: "Habit avoided", Type: core.SavingPrevented,
			Date: "2025-05-02", CreatedAt: time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC),
		},
	}
	if err := repo.ReplaceSavings(ctx, "guest", entries); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.LoadSavings(ctx, "guest")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].ID != "OPTIMIZED:e1" || got[0].LinkedExpenseID != "e1" {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[1].Type != core.SavingPrevented || got[1].LinkedExpenseID != "" {
		t.Errorf("second entry = %+v", got[1])
	}
}

func TestRepository_UsersAreIsolated(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	expenses := []core.Expense{
		{ID: "e1", Description: "lunch", Amount: 10, Category: core.CategoryFood,
			Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Source: core.SourceManual},
	}
	if err := repo.ReplaceExpenses(ctx, "alice@example.com", expenses); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.LoadExpenses(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Error("another user's expenses leaked")
	}
}
