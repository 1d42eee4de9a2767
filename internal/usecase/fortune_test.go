package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
	"github.com/fairyhunter13/ai-fortune-teller/internal/usecase"
)

type fakeScorer struct {
	free        domain.FortuneResult
	freeErr     error
	premium     domain.PremiumFortuneResult
	premiumErr  error
	suggestions []domain.JobSuggestion
	suggestErr  error

	freeCalls    int
	suggestCalls int
}

func (f *fakeScorer) Free(context.Context, domain.QuizAnswers) (domain.FortuneResult, error) {
	f.freeCalls++
	return f.free, f.freeErr
}

func (f *fakeScorer) Premium(context.Context, domain.QuizAnswers, string) (domain.PremiumFortuneResult, error) {
	return f.premium, f.premiumErr
}

func (f *fakeScorer) Suggest(context.Context, string) ([]domain.JobSuggestion, error) {
	f.suggestCalls++
	return f.suggestions, f.suggestErr
}

func validAnswers() domain.QuizAnswers {
	return domain.QuizAnswers{
		JobTitle:      "Cashier",
		CurrentSalary: "30k-50k",
		Location:      "Austin",
		Experience:    "1-3 years",
		Education:     "high school",
		AISkills:      "beginner",
	}
}

func TestTell_MissingFields(t *testing.T) {
	t.Parallel()
	svc := usecase.NewFortuneService(&fakeScorer{})

	answers := validAnswers()
	answers.JobTitle = ""
	answers.AISkills = "  "
	_, err := svc.Tell(context.Background(), answers)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "job_title")
	assert.Contains(t, err.Error(), "ai_skills")
}

func TestTell_UsesScorer(t *testing.T) {
	t.Parallel()
	scorer := &fakeScorer{free: domain.FortuneResult{Score: 72, DataSource: "server", Tier: "free"}}
	svc := usecase.NewFortuneService(scorer)

	got, err := svc.Tell(context.Background(), validAnswers())
	require.NoError(t, err)
	assert.Equal(t, 72, got.Score)
	assert.Equal(t, "server", got.DataSource)
}

func TestTell_FallsBackWhenScorerFails(t *testing.T) {
	t.Parallel()
	scorer := &fakeScorer{freeErr: domain.ErrUpstreamUnavailable}
	svc := usecase.NewFortuneService(scorer)

	got, err := svc.Tell(context.Background(), validAnswers())
	require.NoError(t, err)
	assert.Equal(t, "fallback", got.DataSource)
	assert.Equal(t, 65, got.Factors.AutomationRisk)
	assert.Equal(t, 35, got.Score)
	assert.Equal(t, 1, scorer.freeCalls)
}

func TestTell_NilScorerStillAnswers(t *testing.T) {
	t.Parallel()
	svc := usecase.NewFortuneService(nil)

	got, err := svc.Tell(context.Background(), validAnswers())
	require.NoError(t, err)
	assert.Equal(t, "fallback", got.DataSource)
}

func TestTellPremium_RequiresAddress(t *testing.T) {
	t.Parallel()
	svc := usecase.NewFortuneService(&fakeScorer{})
	_, err := svc.TellPremium(context.Background(), validAnswers(), "")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestTellPremium_PropagatesLLMUnavailable(t *testing.T) {
	t.Parallel()
	scorer := &fakeScorer{premiumErr: domain.ErrLLMUnavailable}
	svc := usecase.NewFortuneService(scorer)

	_, err := svc.TellPremium(context.Background(), validAnswers(), "0xabc")
	require.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestTellPremium_NoLocalFallback(t *testing.T) {
	t.Parallel()
	scorer := &fakeScorer{premiumErr: errors.New("boom")}
	svc := usecase.NewFortuneService(scorer)

	_, err := svc.TellPremium(context.Background(), validAnswers(), "0xabc")
	require.Error(t, err)
}
