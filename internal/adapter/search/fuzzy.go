// Package search implements the local job-title search tiers: the
// pre-computed JSON index, the raw CSV dataset and the hardcoded list.
package search

import (
	"sort"
	"strings"
)

// Score rates how well a job title matches a query. Exact match after
// case-folding and token sorting scores 100; substring containment on the
// case-folded strings scores 95 (query inside title) or 90 (title inside
// query); anything else scores the Jaccard token overlap times 100.
func Score(query, title string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(strings.TrimSpace(title))
	if q == "" || t == "" {
		return 0
	}

	if normalizeTokens(q) == normalizeTokens(t) {
		return 100
	}
	if strings.Contains(t, q) {
		return 95
	}
	if strings.Contains(q, t) {
		return 90
	}

	qTokens := tokenSet(q)
	tTokens := tokenSet(t)
	inter := 0
	for tok := range qTokens {
		if _, ok := tTokens[tok]; ok {
			inter++
		}
	}
	union := len(qTokens) + len(tTokens) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union) * 100
}

func normalizeTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}
