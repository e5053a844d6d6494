package core

import (
	"errors"
	"strings"
	"time"
)

// Category is one of the fixed spending categories tracked by the dashboard.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryBills         Category = "bills"
	CategorySubscriptions Category = "subscriptions"
	CategoryGroceries     Category = "groceries"
	CategoryHealth        Category = "health"
	CategoryOther         Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBills,
	CategorySubscriptions,
	CategoryGroceries,
	CategoryHealth,
	CategoryOther,
}

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Source marks how an expense entered the system.
type Source string

const (
	SourceManual Source = "MANUAL"
	SourceAuto   Source = "AUTO"
)

// Expense is a single spending record for one user.
//
// Amount is a decimal in whole currency units; the habit thresholds and the
// ledger rounding all operate on units, not cents.
type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    Category  `json:"category"`
	Date        time.Time `json:"date"`
	IsImpulse   bool      `json:"isImpulse"`
	Source      Source    `json:"source"`
}

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrZeroDate           = errors.New("date cannot be zero")
	ErrUnknownSource      = errors.New("unknown expense source")
)

// ValidationErrors lists every error Validate can return, so callers can
// distinguish bad input from infrastructure failures.
var ValidationErrors = []error{
	ErrInvalidAmount,
	ErrEmptyDescription,
	ErrDescriptionTooLong,
	ErrUnknownCategory,
	ErrZeroDate,
	ErrUnknownSource,
}

// IsValidationError reports whether err is one of the Validate sentinels.
func IsValidationError(err error) bool {
	for _, sentinel := range ValidationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrUnknownCategory
	}
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	switch e.Source {
	case SourceManual, SourceAuto:
	default:
		return ErrUnknownSource
	}
	return nil
}

// Severity grades a habit alert.
type Severity string

const (
	SeverityGood    Severity = "good"
	SeverityWarning Severity = "warning"
	SeverityBad     Severity = "bad"
)

// HabitAlert is a behavioral alert derived from the expense list. Alerts are
// never persisted; they are recomputed from scratch after every change and
// reset on restart.
type HabitAlert struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Severity        Severity  `json:"severity"`
	Category        Category  `json:"category"`
	SavingPotential int64     `json:"savingPotential"`
	Suggestion      string    `json:"suggestion"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SavingType tags a ledger entry as derived (regenerated on every
// reconciliation) or as a point-in-time event (appended once).
type SavingType string

const (
	SavingPrevented SavingType = "PREVENTED"
	SavingReduced   SavingType = "REDUCED"
	SavingOptimized SavingType = "OPTIMIZED"
)

// IsEvent reports whether entries of this type record a point-in-time event.
// Event entries survive reconciliation untouched; derived entries for the
// current month are discarded and rebuilt from the spending distribution.
func (t SavingType) IsEvent() bool {
	return t == SavingOptimized
}

// SavingEntry is one row of the savings ledger. Date is a calendar day in
// YYYY-MM-DD form; Amount is a rounded whole-unit estimate.
type SavingEntry struct {
	ID                    string     `json:"id"`
	Amount                int64      `json:"amount"`
	SourceExpenseCategory Category   `json:"sourceExpenseCategory"`
	Reason                string     `json:"reason"`
	Type                  SavingType `json:"type"`
	Date                  string     `json:"date"`
	LinkedExpenseID       string     `json:"linkedExpenseId,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// SavingsSummary folds the current month's ledger entries per type.
type SavingsSummary struct {
	Total     int64 `json:"total"`
	Prevented int64 `json:"prevented"`
	Reduced   int64 `json:"reduced"`
	Optimized int64 `json:"optimized"`
}
