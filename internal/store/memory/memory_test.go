package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"habitly/internal/core"
)

func TestStore_ExpensesRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	expenses := []core.Expense{
		{
			ID:          "e1",
			Description: "coffee",
			Amount:      4.5,
			Category:    core.CategoryFood,
			Date:        time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
			Source:      core.SourceManual,
		},
	}
	if err := s.ReplaceExpenses(ctx, "alice@example.com", expenses); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.LoadExpenses(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e1" || got[0].Amount != 4.5 {
		t.Errorf("got %+v", got)
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	got, err := s.LoadExpenses(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d expenses, want 0", len(got))
	}
}

func TestStore_CorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "savings_guest.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadSavings(context.Background(), "guest")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries, want 0", len(got))
	}
}

func TestStore_UsersAreIsolated(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	entries := []core.SavingEntry{
		{ID: "OPTIMIZED:e1", Amount: 100, Type: core.SavingOptimized, Date: "2025-05-01"},
	}
	if err := s.ReplaceSavings(ctx, "alice@example.com", entries); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.LoadSavings(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Error("another user's ledger leaked")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "alice@example.com", want: "alice_example.com"},
		{in: "guest", want: "guest"},
		{in: "", want: "guest"},
		{in: "a/b\\c", want: "a_b_c"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
