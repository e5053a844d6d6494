// Package store defines the persistence interfaces for per-user expense
// lists and savings ledgers, and the factory that builds a concrete backend
// from configuration.
package store

import (
	"context"

	"habitly/internal/core"
)

// ExpenseStore persists a user's expense list as one ordered collection.
// ReplaceExpenses overwrites the whole list; callers own ordering.
type ExpenseStore interface {
	LoadExpenses(ctx context.Context, userKey string) ([]core.Expense, error)
	ReplaceExpenses(ctx context.Context, userKey string, expenses []core.Expense) error
}

// SavingsStore persists a user's savings ledger as one ordered collection.
type SavingsStore interface {
	LoadSavings(ctx context.Context, userKey string) ([]core.SavingEntry, error)
	ReplaceSavings(ctx context.Context, userKey string, entries []core.SavingEntry) error
}

// Backend is the unified persistence interface the dashboard runs on.
type Backend interface {
	ExpenseStore
	SavingsStore
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the backend instance and optional cleanup function.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Type represents the kind of backend.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Memory backend specific
	DataDir string
}
