package ledger

import (
	"context"
	"fmt"
	"time"

	"habitly/internal/core"
	"habitly/internal/log"
)

// Store persists the savings ledger per user. Implementations replace the
// whole collection on write; ordering is preserved.
type Store interface {
	LoadSavings(ctx context.Context, userKey string) ([]core.SavingEntry, error)
	ReplaceSavings(ctx context.Context, userKey string, entries []core.SavingEntry) error
}

// Service reconciles and records savings ledger entries.
type Service struct {
	store  Store
	logger *log.Logger
}

func NewService(store Store, logger *log.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.WithComponent(log.ComponentLedger),
	}
}

// Reconcile rebuilds the current month's derived entries from the expense
// list and merges them with the kept portion of the stored ledger: entries
// from other months plus every OPTIMIZED event. The merged ledger is
// persisted and returned with its current-month summary.
//
// Read and write failures degrade rather than abort: a failed read starts
// from an empty ledger, a failed write is logged because the next
// reconciliation rebuilds the same derived entries anyway.
func (s *Service) Reconcile(ctx context.Context, userKey string, expenses []core.Expense, now time.Time) ([]core.SavingEntry, core.SavingsSummary) {
	existing, err := s.store.LoadSavings(ctx, userKey)
	if err != nil {
		s.logger.WarnContext(ctx, "savings ledger read failed, starting empty",
			log.FieldUserKey, userKey, log.FieldError, err.Error())
		existing = nil
	}

	next := make([]core.SavingEntry, 0, len(existing))
	for _, e := range existing {
		if !core.SameMonth(e.Date, now) || e.Type.IsEvent() {
			next = append(next, e)
		}
	}
	next = append(next, deriveMonthEntries(expenses, now)...)

	if err := s.store.ReplaceSavings(ctx, userKey, next); err != nil {
		s.logger.ErrorContext(ctx, "savings ledger write failed",
			log.FieldUserKey, userKey, log.FieldEntryCount, len(next), log.FieldError, err.Error())
	}

	return next, Summarize(next, now)
}

// OptimizedSaving describes a cap-enforcement event to be recorded.
type OptimizedSaving struct {
	ExpenseID string
	Category  core.Category
	Amount    float64
	Reason    string
}

// RecordOptimizedSaving appends an OPTIMIZED event entry for the given
// expense. Amounts that round to zero or below are ignored, and recording is
// idempotent per expense ID. Unlike derived entries an event cannot be
// rebuilt later, so a write failure is returned to the caller.
func (s *Service) RecordOptimizedSaving(ctx context.Context, userKey string, saving OptimizedSaving, now time.Time) error {
	amt := core.RoundUnits(saving.Amount)
	if amt <= 0 {
		return nil
	}
	entry := newOptimizedEntry(saving.ExpenseID, saving.Category, amt, saving.Reason, now)

	existing, err := s.store.LoadSavings(ctx, userKey)
	if err != nil {
		s.logger.WarnContext(ctx, "savings ledger read failed, starting empty",
			log.FieldUserKey, userKey, log.FieldError, err.Error())
		existing = nil
	}
	for _, e := range existing {
		if e.ID == entry.ID {
			return nil
		}
	}

	next := append([]core.SavingEntry{entry}, existing...)
	if err := s.store.ReplaceSavings(ctx, userKey, next); err != nil {
		return fmt.Errorf("record optimized saving: %w", err)
	}

	s.logger.InfoContext(ctx, "optimized saving recorded",
		log.FieldUserKey, userKey, log.FieldExpenseID, saving.ExpenseID,
		log.FieldCategory, string(saving.Category), log.FieldAmount, amt)
	return nil
}

// Savings returns the stored ledger and its current-month summary.
func (s *Service) Savings(ctx context.Context, userKey string, now time.Time) ([]core.SavingEntry, core.SavingsSummary) {
	entries, err := s.store.LoadSavings(ctx, userKey)
	if err != nil {
		s.logger.WarnContext(ctx, "savings ledger read failed, starting empty",
			log.FieldUserKey, userKey, log.FieldError, err.Error())
		entries = nil
	}
	return entries, Summarize(entries, now)
}

// Summarize folds the current month's entries into per-type totals.
func Summarize(entries []core.SavingEntry, now time.Time) core.SavingsSummary {
	var summary core.SavingsSummary
	for _, e := range entries {
		if !core.SameMonth(e.Date, now) {
			continue
		}
		switch e.Type {
		case core.SavingPrevented:
			summary.Prevented += e.Amount
		case core.SavingReduced:
			summary.Reduced += e.Amount
		case core.SavingOptimized:
			summary.Optimized += e.Amount
		}
	}
	summary.Total = summary.Prevented + summary.Reduced + summary.Optimized
	return summary
}
