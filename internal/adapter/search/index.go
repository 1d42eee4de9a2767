package search

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// DefaultTopK bounds how many suggestions a search returns.
const DefaultTopK = 15

// JobRecord is the per-title market data carried by the index.
type JobRecord struct {
	JobTitle         string `json:"job_title"`
	Industry         string `json:"industry"`
	Location         string `json:"location"`
	AutomationRisk   int    `json:"automation_risk"`
	GrowthProjection int    `json:"growth_projection"`
}

// Index is the pre-computed job search index loaded from disk. The file
// shape matches the generator's output: job_titles, job_data and a
// query_cache of previously answered queries.
type Index struct {
	JobTitles  []string             `json:"job_titles"`
	JobData    map[string]JobRecord `json:"job_data"`
	QueryCache map[string]struct {
		Fuzzy []domain.JobSuggestion `json:"fuzzy"`
	} `json:"query_cache"`
	Metadata struct {
		TotalJobs int `json:"total_jobs"`
	} `json:"metadata"`
}

// LoadIndex reads and decodes the search index JSON from path.
func LoadIndex(path string) (*Index, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: search index: %v", domain.ErrNotFound, err)
	}
	var idx Index
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, fmt.Errorf("%w: decode search index: %v", domain.ErrInternal, err)
	}
	if len(idx.JobTitles) == 0 {
		return nil, fmt.Errorf("%w: search index has no titles", domain.ErrInternal)
	}
	return &idx, nil
}

// NewIndex builds an index from bare titles, for tests and the CSV tier.
func NewIndex(titles []string, data map[string]JobRecord) *Index {
	return &Index{JobTitles: titles, JobData: data}
}

// Search scores every title against the query and returns the topK matches
// in descending confidence order. A cached answer for the lowercased query
// is preferred over a fresh scan.
func (idx *Index) Search(query string, topK int) []domain.JobSuggestion {
	if topK <= 0 {
		topK = DefaultTopK
	}
	key := strings.ToLower(strings.TrimSpace(query))
	if len(key) < 2 {
		return nil
	}

	if cached, ok := idx.QueryCache[key]; ok && len(cached.Fuzzy) > 0 {
		out := cached.Fuzzy
		if len(out) > topK {
			out = out[:topK]
		}
		return idx.enrich(out)
	}

	scored := make([]domain.JobSuggestion, 0, len(idx.JobTitles))
	for _, title := range idx.JobTitles {
		scored = append(scored, domain.JobSuggestion{
			JobTitle:    title,
			Confidence:  Score(query, title),
			MatchMethod: "fuzzy",
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Confidence > scored[j].Confidence })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return idx.enrich(scored)
}

func (idx *Index) enrich(in []domain.JobSuggestion) []domain.JobSuggestion {
	out := make([]domain.JobSuggestion, len(in))
	for i, s := range in {
		if rec, ok := idx.JobData[s.JobTitle]; ok {
			s.Industry = rec.Industry
			s.Location = rec.Location
			s.AutomationRisk = rec.AutomationRisk
			s.GrowthProjection = rec.GrowthProjection
		}
		out[i] = s
	}
	return out
}
