package ai

import (
	"context"
	"time"

	"habitly/internal/core"
	"habitly/internal/log"
)

// Service fronts the analyzer: it tries the remote client once and falls back
// to the local heuristic on any failure. Callers always get a usable result.
type Service struct {
	remote Client
	local  LocalAnalyzer
	logger *log.Logger
}

// NewService creates the analyzer service. remote may be nil, in which case
// every request is served by the local heuristic.
func NewService(remote Client, logger *log.Logger) *Service {
	return &Service{
		remote: remote,
		logger: logger.WithComponent(log.ComponentAnalyzer),
	}
}

// Analyze returns a spending analysis. Remote failures are logged, not
// surfaced; the local result stands in.
func (s *Service) Analyze(ctx context.Context, expenses []core.Expense, now time.Time) AnalysisResult {
	if s.remote != nil {
		result, err := s.remote.Analyze(ctx, expenses)
		if err == nil {
			return result
		}
		s.logger.WarnContext(ctx, "remote analysis failed, using local heuristic", log.FieldError, err.Error())
	}
	return s.local.Analyze(expenses, now)
}

// Chat returns a conversational reply about the user's spending.
func (s *Service) Chat(ctx context.Context, expenses []core.Expense, message string, now time.Time) string {
	if s.remote != nil {
		reply, err := s.remote.Chat(ctx, expenses, message)
		if err == nil {
			return reply
		}
		s.logger.WarnContext(ctx, "remote chat failed, using local fallback", log.FieldError, err.Error())
	}
	return s.local.FallbackReply(expenses, now)
}
