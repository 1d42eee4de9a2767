package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/observability"
	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// TitleSearcher is a local fuzzy index over job titles. Both the
// pre-computed JSON index and the CSV-derived index satisfy it.
type TitleSearcher interface {
	Search(query string, topK int) []domain.JobSuggestion
}

// SuggestService resolves job-title suggestions through a tiered chain:
// cached result, scoring backend, pre-computed index, raw CSV titles,
// then a small hardcoded list. The first tier that yields matches wins.
type SuggestService struct {
	scorer   domain.ScoringClient
	cache    domain.SuggestionCache
	index    TitleSearcher
	csv      TitleSearcher
	fallback func(query string) []domain.JobSuggestion
	topK     int
}

func NewSuggestService(
	scorer domain.ScoringClient,
	cache domain.SuggestionCache,
	index, csv TitleSearcher,
	fallback func(query string) []domain.JobSuggestion,
	topK int,
) *SuggestService {
	return &SuggestService{
		scorer:   scorer,
		cache:    cache,
		index:    index,
		csv:      csv,
		fallback: fallback,
		topK:     topK,
	}
}

// Suggestions is the outcome of one lookup. UsedFallback marks results
// served from the hardcoded tier so the client can flag degraded quality.
type Suggestions struct {
	Items        []domain.JobSuggestion
	UsedFallback bool
}

// Suggest runs the tier chain for query. Queries shorter than two
// characters return an empty result without touching any tier.
func (s *SuggestService) Suggest(ctx context.Context, query string) Suggestions {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return Suggestions{Items: []domain.JobSuggestion{}}
	}

	if s.cache != nil {
		if items, ok := s.cache.Get(ctx, query); ok {
			observability.SuggestionTierServedTotal.WithLabelValues("cache").Inc()
			return Suggestions{Items: items}
		}
	}

	if s.scorer != nil {
		items, err := s.scorer.Suggest(ctx, query)
		if err == nil && len(items) > 0 {
			observability.SuggestionTierServedTotal.WithLabelValues("backend").Inc()
			s.store(ctx, query, items)
			return Suggestions{Items: items}
		}
		if err != nil {
			slog.Debug("suggestion backend failed, trying local tiers",
				slog.String("query", query),
				slog.Any("error", err))
		}
	}

	if s.index != nil {
		if items := s.index.Search(query, s.topK); len(items) > 0 {
			observability.SuggestionTierServedTotal.WithLabelValues("index").Inc()
			s.store(ctx, query, items)
			return Suggestions{Items: items}
		}
	}

	if s.csv != nil {
		if items := s.csv.Search(query, s.topK); len(items) > 0 {
			observability.SuggestionTierServedTotal.WithLabelValues("csv").Inc()
			s.store(ctx, query, items)
			return Suggestions{Items: items}
		}
	}

	observability.SuggestionTierServedTotal.WithLabelValues("fallback").Inc()
	items := s.fallback(query)
	if items == nil {
		items = []domain.JobSuggestion{}
	}
	return Suggestions{Items: items, UsedFallback: true}
}

func (s *SuggestService) store(ctx context.Context, query string, items []domain.JobSuggestion) {
	if s.cache != nil {
		s.cache.Set(ctx, query, items)
	}
}
