package search

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// LoadCSVTitles reads unique job titles from the raw dataset CSV, one record
// at a time. The title column is "Job Title" or "Job_Title", matching the
// dataset's two publication formats.
func LoadCSVTitles(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: job dataset csv: %v", domain.ErrNotFound, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: csv header: %v", domain.ErrInternal, err)
	}
	titleCol := -1
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if name == "job title" || name == "job_title" {
			titleCol = i
			break
		}
	}
	if titleCol < 0 {
		return nil, fmt.Errorf("%w: csv has no job title column", domain.ErrInternal)
	}

	seen := make(map[string]struct{})
	var titles []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip malformed rows rather than failing the whole tier.
			continue
		}
		if titleCol >= len(rec) {
			continue
		}
		title := strings.TrimSpace(rec[titleCol])
		if title == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(title)]; ok {
			continue
		}
		seen[strings.ToLower(title)] = struct{}{}
		titles = append(titles, title)
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("%w: csv yielded no titles", domain.ErrInternal)
	}
	return titles, nil
}
