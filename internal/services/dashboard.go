// Package services orchestrates the dashboard: expense mutations, alert
// recomputation, savings reconciliation, cap enforcement, and analysis.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"habitly/internal/ai"
	"habitly/internal/core"
	"habitly/internal/habits"
	"habitly/internal/ledger"
	"habitly/internal/log"
	"habitly/internal/store"
)

var (
	ErrNotFound     = errors.New("expense not found")
	ErrNotDeletable = errors.New("only manually entered expenses can be deleted")
)

// Publisher notifies downstream consumers about expense list changes.
type Publisher interface {
	PublishExpenseEvent(ctx context.Context, userKey, expenseID, action string) error
}

// Dashboard ties the expense store, the savings ledger, and the analyzer
// together. All mutations rewrite the user's whole expense list and then
// reconcile the ledger so derived state never drifts from the source data.
type Dashboard struct {
	backend   store.Backend
	ledger    *ledger.Service
	analyzer  *ai.Service
	publisher Publisher
	logger    *log.Logger

	// mu serializes read-modify-write cycles on the stored collections.
	mu  sync.Mutex
	now func() time.Time
}

func NewDashboard(backend store.Backend, ledgerSvc *ledger.Service, analyzer *ai.Service, publisher Publisher, logger *log.Logger) *Dashboard {
	return &Dashboard{
		backend:   backend,
		ledger:    ledgerSvc,
		analyzer:  analyzer,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentDashboard),
		now:       time.Now,
	}
}

// NewExpense is the caller-supplied part of an expense.
type NewExpense struct {
	Description string
	Amount      float64
	Category    core.Category
}

// AddResult reports what happened to an add request once the savings cap had
// its say. Expense is nil when the purchase was blocked outright.
type AddResult struct {
	Expense     *core.Expense
	Blocked     bool
	SavedAmount int64
	Notice      string
}

// AddExpense stores a manual expense. With applySavings the category cap is
// enforced first: a purchase beyond the remaining headroom is blocked or
// trimmed, and the blocked portion is recorded as an OPTIMIZED saving.
func (d *Dashboard) AddExpense(ctx context.Context, userKey string, input NewExpense, applySavings bool) (AddResult, error) {
	now := d.now()
	expense := core.Expense{
		ID:          uuid.NewString(),
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        now,
		Source:      core.SourceManual,
	}
	if err := expense.Validate(); err != nil {
		return AddResult{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	existing := d.loadExpenses(ctx, userKey)

	if applySavings {
		alerts := habits.RecomputeAlerts(existing)
		if capValue, ok := habits.CategoryCap(existing, alerts, expense.Category, now); ok {
			remaining := float64(capValue) - habits.MonthCategoryTotal(existing, expense.Category, now)
			switch {
			case remaining <= 0:
				saved := core.RoundUnits(expense.Amount)
				err := d.ledger.RecordOptimizedSaving(ctx, userKey, ledger.OptimizedSaving{
					ExpenseID: expense.ID,
					Category:  expense.Category,
					Amount:    expense.Amount,
					Reason:    ledger.ReasonOverspendBlocked,
				}, now)
				if err != nil {
					return AddResult{}, err
				}
				d.logger.InfoContext(ctx, "expense blocked by savings cap",
					log.FieldUserKey, userKey, log.FieldCategory, string(expense.Category),
					log.FieldAmount, expense.Amount)
				return AddResult{
					Blocked:     true,
					SavedAmount: saved,
					Notice:      fmt.Sprintf("Blocked: %s cap reached. ₹%d counted as savings.", expense.Category, saved),
				}, nil

			case remaining < expense.Amount:
				blocked := expense.Amount - remaining
				expense.Amount = remaining
				err := d.ledger.RecordOptimizedSaving(ctx, userKey, ledger.OptimizedSaving{
					ExpenseID: expense.ID,
					Category:  expense.Category,
					Amount:    blocked,
					Reason:    ledger.ReasonOverspendReduced,
				}, now)
				if err != nil {
					return AddResult{}, err
				}
				saved := core.RoundUnits(blocked)
				d.logger.InfoContext(ctx, "expense reduced by savings cap",
					log.FieldUserKey, userKey, log.FieldCategory, string(expense.Category),
					log.FieldAmount, expense.Amount, "blocked_amount", blocked)

				return d.storeExpense(ctx, userKey, expense, existing, AddResult{
					SavedAmount: saved,
					Notice:      fmt.Sprintf("Reduced to remaining %s budget. ₹%d counted as savings.", expense.Category, saved),
				})
			}
		}
	}

	return d.storeExpense(ctx, userKey, expense, existing, AddResult{})
}

func (d *Dashboard) storeExpense(ctx context.Context, userKey string, expense core.Expense, existing []core.Expense, result AddResult) (AddResult, error) {
	classification := habits.Classify(expense, existing)
	expense.IsImpulse = classification.Flags.Impulse

	next := append([]core.Expense{expense}, existing...)
	if err := d.backend.ReplaceExpenses(ctx, userKey, next); err != nil {
		return AddResult{}, fmt.Errorf("save expenses: %w", err)
	}

	d.ledger.Reconcile(ctx, userKey, next, d.now())
	d.publishEvent(ctx, userKey, expense.ID, "created")

	d.logger.InfoContext(ctx, "expense added",
		log.FieldUserKey, userKey, log.FieldExpenseID, expense.ID,
		log.FieldCategory, string(expense.Category), log.FieldAmount, expense.Amount,
		"is_impulse", expense.IsImpulse)

	result.Expense = &expense
	return result, nil
}

// DeleteExpense removes a manual expense. AUTO imported expenses are the
// system of record of an external feed and cannot be deleted here.
func (d *Dashboard) DeleteExpense(ctx context.Context, userKey, expenseID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	existing := d.loadExpenses(ctx, userKey)

	idx := -1
	for i, e := range existing {
		if e.ID == expenseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	if existing[idx].Source != core.SourceManual {
		return ErrNotDeletable
	}

	next := append(existing[:idx:idx], existing[idx+1:]...)
	if err := d.backend.ReplaceExpenses(ctx, userKey, next); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}

	d.ledger.Reconcile(ctx, userKey, next, d.now())
	d.publishEvent(ctx, userKey, expenseID, "deleted")

	d.logger.InfoContext(ctx, "expense deleted",
		log.FieldUserKey, userKey, log.FieldExpenseID, expenseID)
	return nil
}

// ImportExpense stores an externally sourced expense as AUTO. The cap is not
// applied: the money is already spent by the time the feed reports it.
func (d *Dashboard) ImportExpense(ctx context.Context, userKey string, input NewExpense, occurredAt time.Time) (*core.Expense, error) {
	if occurredAt.IsZero() {
		occurredAt = d.now()
	}
	expense := core.Expense{
		ID:          uuid.NewString(),
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        occurredAt,
		Source:      core.SourceAuto,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	existing := d.loadExpenses(ctx, userKey)
	result, err := d.storeExpense(ctx, userKey, expense, existing, AddResult{})
	if err != nil {
		return nil, err
	}
	return result.Expense, nil
}

// Expenses returns the user's expense list, newest first.
func (d *Dashboard) Expenses(ctx context.Context, userKey string) []core.Expense {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loadExpenses(ctx, userKey)
}

// Alerts recomputes the behavioral alerts from the current expense list.
func (d *Dashboard) Alerts(ctx context.Context, userKey string) []core.HabitAlert {
	d.mu.Lock()
	defer d.mu.Unlock()
	return habits.RecomputeAlerts(d.loadExpenses(ctx, userKey))
}

// Savings reconciles and returns the savings ledger with its current-month
// summary. Reconciling on read keeps derived entries in step with the day.
func (d *Dashboard) Savings(ctx context.Context, userKey string) ([]core.SavingEntry, core.SavingsSummary) {
	d.mu.Lock()
	defer d.mu.Unlock()
	expenses := d.loadExpenses(ctx, userKey)
	return d.ledger.Reconcile(ctx, userKey, expenses, d.now())
}

// Overview aggregates the dashboard's headline numbers for one user. All
// spending figures cover the current calendar month only.
type Overview struct {
	ExpenseCount     int                 `json:"expenseCount"`
	MonthTotal       float64             `json:"monthTotal"`
	CategoryTotals   map[string]float64  `json:"categoryTotals"`
	CategoryShares   map[string]float64  `json:"categoryShares"`
	WeekdayTotals    map[string]float64  `json:"weekdayTotals"`
	ImpulseCount     int                 `json:"impulseCount"`
	ImpulseSpending  float64             `json:"impulseSpending"`
	PotentialSavings int64               `json:"potentialSavings"`
	Alerts           []core.HabitAlert   `json:"alerts"`
	Summary          core.SavingsSummary `json:"savingsSummary"`
}

// BuildOverview assembles the current-month aggregates in one pass.
func (d *Dashboard) BuildOverview(ctx context.Context, userKey string) Overview {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	expenses := d.loadExpenses(ctx, userKey)
	_, summary := d.ledger.Reconcile(ctx, userKey, expenses, now)

	overview := Overview{
		ExpenseCount:   len(expenses),
		CategoryTotals: make(map[string]float64),
		CategoryShares: make(map[string]float64),
		WeekdayTotals:  make(map[string]float64),
		Alerts:         habits.RecomputeAlerts(expenses),
		Summary:        summary,
	}
	year, month, _ := now.Date()
	for _, e := range expenses {
		ey, em, _ := e.Date.Date()
		if ey != year || em != month {
			continue
		}
		overview.MonthTotal += e.Amount
		overview.CategoryTotals[string(e.Category)] += e.Amount
		overview.WeekdayTotals[e.Date.Weekday().String()] += e.Amount
		if e.IsImpulse {
			overview.ImpulseCount++
			overview.ImpulseSpending += e.Amount
		}
	}
	if overview.MonthTotal > 0 {
		for category, total := range overview.CategoryTotals {
			overview.CategoryShares[category] = total / overview.MonthTotal * 100
		}
	}
	for _, alert := range overview.Alerts {
		if alert.Severity == core.SeverityBad {
			overview.PotentialSavings += alert.SavingPotential
		}
	}
	return overview
}

// Analyze runs the spending analysis over the user's expense list.
func (d *Dashboard) Analyze(ctx context.Context, userKey string) ai.AnalysisResult {
	expenses := d.Expenses(ctx, userKey)
	return d.analyzer.Analyze(ctx, expenses, d.now())
}

// ChatReply answers a free-form question about the user's spending.
func (d *Dashboard) ChatReply(ctx context.Context, userKey, message string) string {
	expenses := d.Expenses(ctx, userKey)
	return d.analyzer.Chat(ctx, expenses, message, d.now())
}

// loadExpenses reads the user's list, degrading to empty on backend errors so
// the dashboard stays usable while storage recovers.
func (d *Dashboard) loadExpenses(ctx context.Context, userKey string) []core.Expense {
	expenses, err := d.backend.LoadExpenses(ctx, userKey)
	if err != nil {
		d.logger.WarnContext(ctx, "expense read failed, starting empty",
			log.FieldUserKey, userKey, log.FieldError, err.Error())
		return nil
	}
	return expenses
}

func (d *Dashboard) publishEvent(ctx context.Context, userKey, expenseID, action string) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.PublishExpenseEvent(ctx, userKey, expenseID, action); err != nil {
		d.logger.WarnContext(ctx, "expense event publish failed",
			log.FieldUserKey, userKey, log.FieldExpenseID, expenseID, log.FieldError, err.Error())
	}
}
