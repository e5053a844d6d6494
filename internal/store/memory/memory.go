// Package memory implements a file-backed store that keeps each user's
// collections as JSON documents under a data directory. It is the default
// backend for local runs and tests.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"habitly/internal/core"
)

type Store struct {
	mu      sync.Mutex
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) LoadExpenses(_ context.Context, userKey string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expenses []core.Expense
	readJSON(s.path("expenses", userKey), &expenses)
	return expenses, nil
}

func (s *Store) ReplaceExpenses(_ context.Context, userKey string, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path("expenses", userKey), expenses)
}

func (s *Store) LoadSavings(_ context.Context, userKey string) ([]core.SavingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []core.SavingEntry
	readJSON(s.path("savings", userKey), &entries)
	return entries, nil
}

func (s *Store) ReplaceSavings(_ context.Context, userKey string, entries []core.SavingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path("savings", userKey), entries)
}

func (s *Store) path(collection, userKey string) string {
	return filepath.Join(s.baseDir, collection+"_"+sanitize(userKey)+".json")
}

// sanitize maps a user key (usually an email address) onto a safe file name.
func sanitize(userKey string) string {
	if userKey == "" {
		return "guest"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, userKey)
}

// readJSON fills target from the file at path. Missing or unreadable files
// leave target untouched, matching the empty-collection read semantics.
func readJSON(path string, target any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, target)
}

// writeJSON replaces the file at path via a temp file and rename so readers
// never observe a partial document.
func writeJSON(path string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
