package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// fallbackTitles is the last-resort suggestion list served when every
// other tier is unavailable.
var fallbackTitles = []string{
	"Software Developer",
	"Data Analyst",
	"Project Manager",
	"Marketing Manager",
	"Financial Analyst",
	"Graphic Designer",
	"Sales Representative",
	"Customer Service Representative",
	"Accountant",
	"Teacher",
}

// FallbackSuggestions matches the query against the hardcoded title list.
func FallbackSuggestions(query string) []domain.JobSuggestion {
	matches := fuzzy.Find(query, fallbackTitles)
	out := make([]domain.JobSuggestion, 0, len(matches))
	for _, m := range matches {
		if len(out) >= 10 {
			break
		}
		out = append(out, domain.JobSuggestion{
			JobTitle:    m.Str,
			Confidence:  Score(query, m.Str),
			MatchMethod: "fallback",
		})
	}
	return out
}
