// Package usecase contains the application services. Each service takes
// its dependencies as domain ports and returns domain errors; transport
// concerns stay in the adapters.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/observability"
	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// FortuneService computes automation-risk fortunes, preferring the
// external scorer and falling back to the local heuristic when it is
// unreachable.
type FortuneService struct {
	scorer domain.ScoringClient
}

func NewFortuneService(scorer domain.ScoringClient) *FortuneService {
	return &FortuneService{scorer: scorer}
}

// ValidateAnswers checks that every quiz field is present.
func ValidateAnswers(a domain.QuizAnswers) error {
	missing := make([]string, 0, 6)
	for _, f := range []struct{ name, val string }{
		{"job_title", a.JobTitle},
		{"current_salary", a.CurrentSalary},
		{"location", a.Location},
		{"experience", a.Experience},
		{"education", a.Education},
		{"ai_skills", a.AISkills},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields: %s", domain.ErrInvalidArgument, strings.Join(missing, ", "))
	}
	return nil
}

// Tell returns the free-tier fortune. Any scorer failure degrades to the
// deterministic local heuristic rather than surfacing an error, so the
// quiz always produces a result.
func (s *FortuneService) Tell(ctx context.Context, answers domain.QuizAnswers) (domain.FortuneResult, error) {
	if err := ValidateAnswers(answers); err != nil {
		return domain.FortuneResult{}, err
	}

	if s.scorer != nil {
		result, err := s.scorer.Free(ctx, answers)
		if err == nil {
			observability.FortunesTotal.WithLabelValues("free", result.DataSource).Inc()
			return result, nil
		}
		slog.Warn("scoring backend failed, using local fallback",
			slog.String("job_title", answers.JobTitle),
			slog.Any("error", err))
	}

	result := domain.FallbackFortune(answers)
	observability.FortunesTotal.WithLabelValues("free", result.DataSource).Inc()
	return result, nil
}

// TellPremium returns the LLM-backed premium fortune. Unlike the free
// tier there is no local fallback; upstream failures propagate so the
// caller can report them.
func (s *FortuneService) TellPremium(ctx context.Context, answers domain.QuizAnswers, address string) (domain.PremiumFortuneResult, error) {
	if err := ValidateAnswers(answers); err != nil {
		return domain.PremiumFortuneResult{}, err
	}
	if strings.TrimSpace(address) == "" {
		return domain.PremiumFortuneResult{}, fmt.Errorf("%w: wallet address required", domain.ErrInvalidArgument)
	}
	if s.scorer == nil {
		return domain.PremiumFortuneResult{}, fmt.Errorf("%w: scoring backend not configured", domain.ErrConfigMissing)
	}

	result, err := s.scorer.Premium(ctx, answers, address)
	if err != nil {
		return domain.PremiumFortuneResult{}, err
	}
	observability.FortunesTotal.WithLabelValues("premium", result.DataSource).Inc()
	return result, nil
}
