package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/search"
)

func TestScore_ExactTokenSetMatch(t *testing.T) {
	t.Parallel()
	cases := []struct{ query, title string }{
		{"Software Developer", "Software Developer"},
		{"developer software", "Software Developer"},
		{"  software   developer ", "Software Developer"},
		{"NURSE REGISTERED", "Registered Nurse"},
	}
	for _, tc := range cases {
		assert.InDelta(t, 100, search.Score(tc.query, tc.title), 0.001, "query=%q title=%q", tc.query, tc.title)
	}
}

func TestScore_SubstringContainment(t *testing.T) {
	t.Parallel()
	// Query contained in title.
	assert.InDelta(t, 95, search.Score("software dev", "Software Developer"), 0.001)
	// Title contained in query.
	assert.InDelta(t, 90, search.Score("senior data analyst", "Data Analyst"), 0.001)
}

func TestScore_TokenOverlap(t *testing.T) {
	t.Parallel()
	// {software, dev} vs {software, engineer}: intersection 1, union 3.
	got := search.Score("software dev", "Software Engineer")
	assert.InDelta(t, 100.0/3.0, got, 0.001)

	assert.InDelta(t, 0, search.Score("florist", "Software Engineer"), 0.001)
}

func TestScore_EmptyInputs(t *testing.T) {
	t.Parallel()
	assert.Zero(t, search.Score("", "Software Developer"))
	assert.Zero(t, search.Score("developer", ""))
}

func TestScore_ExactBeatsSubstring(t *testing.T) {
	t.Parallel()
	exact := search.Score("data analyst", "Data Analyst")
	contains := search.Score("data analyst", "Senior Data Analyst Lead")
	assert.Greater(t, exact, contains)
}
