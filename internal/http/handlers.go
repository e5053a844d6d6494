package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"habitly/internal/core"
	"habitly/internal/log"
	"habitly/internal/services"
)

// userKey identifies the caller. The dashboard trusts its fronting proxy to
// authenticate and stamp the email header; anonymous callers share "guest".
func userKey(r *http.Request) string {
	email := strings.TrimSpace(r.Header.Get("X-User-Email"))
	if email == "" {
		return "guest"
	}
	return strings.ToLower(email)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

type addExpenseRequest struct {
	Description  string          `json:"description"`
	Amount       json.RawMessage `json:"amount"`
	Category     string          `json:"category"`
	ApplySavings bool            `json:"applySavings"`
}

// addExpenseResponse carries the cap fields only when the cap intervened: a
// plain add is just {expense}, a blocked add has no expense at all.
type addExpenseResponse struct {
	Expense     *core.Expense `json:"expense,omitempty"`
	Blocked     bool          `json:"blocked,omitempty"`
	SavedAmount int64         `json:"savedAmount,omitempty"`
	Notice      string        `json:"notice,omitempty"`
}

// parseAmount accepts both a JSON number and a string like "12,50".
func parseAmount(raw json.RawMessage) (float64, error) {
	text := strings.TrimSpace(string(raw))
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	return core.ParseAmount(text)
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses := s.dashboard.Expenses(r.Context(), userKey(r))
		if expenses == nil {
			expenses = []core.Expense{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})

	case http.MethodPost:
		var req addExpenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		amount, err := parseAmount(req.Amount)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}

		key := userKey(r)
		result, err := s.dashboard.AddExpense(r.Context(), key, services.NewExpense{
			Description: strings.TrimSpace(req.Description),
			Amount:      amount,
			Category:    core.Category(req.Category),
		}, req.ApplySavings)
		if err != nil {
			if core.IsValidationError(err) {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			s.logger.ErrorContext(r.Context(), "add expense failed",
				log.FieldUserKey, key, log.FieldError, err.Error())
			writeError(w, http.StatusInternalServerError, "failed to save expense")
			return
		}

		s.analysisCache.Delete(key)

		status := http.StatusCreated
		if result.Blocked {
			status = http.StatusOK
		}
		writeJSON(w, status, addExpenseResponse{
			Expense:     result.Expense,
			Blocked:     result.Blocked,
			SavedAmount: result.SavedAmount,
			Notice:      result.Notice,
		})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	key := userKey(r)
	err := s.dashboard.DeleteExpense(r.Context(), key, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "expense not found")
	case errors.Is(err, services.ErrNotDeletable):
		writeError(w, http.StatusConflict, "only manually entered expenses can be deleted")
	case err != nil:
		s.logger.ErrorContext(r.Context(), "delete expense failed",
			log.FieldUserKey, key, log.FieldExpenseID, id, log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
	default:
		s.analysisCache.Delete(key)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	alerts := s.dashboard.Alerts(r.Context(), userKey(r))
	if alerts == nil {
		alerts = []core.HabitAlert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	entries, summary := s.dashboard.Savings(r.Context(), userKey(r))
	if entries == nil {
		entries = []core.SavingEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"summary": summary,
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	overview := s.dashboard.BuildOverview(r.Context(), userKey(r))
	if overview.Alerts == nil {
		overview.Alerts = []core.HabitAlert{}
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	key := userKey(r)
	if cached, ok := s.analysisCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result := s.dashboard.Analyze(r.Context(), key)
	s.analysisCache.Set(key, result)
	writeJSON(w, http.StatusOK, result)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusUnprocessableEntity, "message is required")
		return
	}

	reply := s.dashboard.ChatReply(r.Context(), userKey(r), req.Message)
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
