package search_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/search"
)

func testIndex() *search.Index {
	return search.NewIndex(
		[]string{"Software Developer", "Software Engineer", "Data Analyst", "Cashier", "Registered Nurse"},
		map[string]search.JobRecord{
			"Software Developer": {JobTitle: "Software Developer", Industry: "Tech", AutomationRisk: 45, GrowthProjection: 12},
		},
	)
}

func TestIndexSearch_ExactMatchFirst(t *testing.T) {
	t.Parallel()
	got := testIndex().Search("developer software", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "Software Developer", got[0].JobTitle)
	assert.InDelta(t, 100, got[0].Confidence, 0.001)
}

func TestIndexSearch_SubstringAheadOfOverlap(t *testing.T) {
	t.Parallel()
	got := testIndex().Search("software dev", 5)
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "Software Developer", got[0].JobTitle)
	assert.InDelta(t, 95, got[0].Confidence, 0.001)
	// "Software Engineer" only shares one token.
	assert.Equal(t, "Software Engineer", got[1].JobTitle)
	assert.Less(t, got[1].Confidence, got[0].Confidence)
}

func TestIndexSearch_EnrichesFromJobData(t *testing.T) {
	t.Parallel()
	got := testIndex().Search("software developer", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "Tech", got[0].Industry)
	assert.Equal(t, 45, got[0].AutomationRisk)
	assert.Equal(t, 12, got[0].GrowthProjection)
}

func TestIndexSearch_ShortQueryReturnsNothing(t *testing.T) {
	t.Parallel()
	assert.Empty(t, testIndex().Search("a", 5))
	assert.Empty(t, testIndex().Search(" ", 5))
}

func TestIndexSearch_TopKBound(t *testing.T) {
	t.Parallel()
	got := testIndex().Search("software", 2)
	assert.Len(t, got, 2)
}

func TestLoadIndex_RoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "search_index.json")
	payload := `{
		"job_titles": ["Software Developer", "Cashier"],
		"job_data": {"Cashier": {"job_title": "Cashier", "industry": "Retail", "automation_risk": 70, "growth_projection": -3}},
		"query_cache": {"cashier": {"fuzzy": [{"job_title": "Cashier", "confidence": 100, "match_method": "fuzzy"}]}},
		"metadata": {"total_jobs": 2}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	idx, err := search.LoadIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Metadata.TotalJobs)

	// Cached query is served and enriched.
	got := idx.Search("Cashier", 10)
	require.Len(t, got, 1)
	assert.Equal(t, "Cashier", got[0].JobTitle)
	assert.Equal(t, "Retail", got[0].Industry)
	assert.Equal(t, 70, got[0].AutomationRisk)
}

func TestLoadIndex_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := search.LoadIndex(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
