// Package scoring implements the HTTP client for the external Python
// scoring service.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/observability"
	"github.com/fairyhunter13/ai-fortune-teller/internal/config"
	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// Client implements domain.ScoringClient against {PYTHON_API_URL}.
type Client struct {
	baseURL   string
	fortuneHC *http.Client
	suggestHC *http.Client
}

// New constructs a scoring client with per-endpoint timeouts.
func New(cfg config.Config) *Client {
	transport := otelhttp.NewTransport(http.DefaultTransport)
	return &Client{
		baseURL:   strings.TrimRight(cfg.ScoringAPIURL, "/"),
		fortuneHC: &http.Client{Timeout: cfg.ScoringTimeout, Transport: transport},
		suggestHC: &http.Client{Timeout: cfg.SuggestionTimeout, Transport: transport},
	}
}

// freeResponse mirrors the upstream /api/fortune/free payload. Pointer
// fields distinguish absent values so defaults can be applied.
type freeResponse struct {
	Score      *int                   `json:"score"`
	Narrative  string                 `json:"narrative"`
	RiskLevel  string                 `json:"riskLevel"`
	Outlook    string                 `json:"outlook"`
	Factors    *domain.Factors        `json:"factors"`
	Salary     *domain.SalaryAnalysis `json:"salary_analysis"`
	JobData    *domain.JobData        `json:"job_data"`
	DataSource string                 `json:"data_source"`
}

// Free calls POST /api/fortune/free and normalizes the response into a
// FortuneResult, applying the same defaults for missing upstream fields
// as the result route.
func (c *Client) Free(ctx context.Context, answers domain.QuizAnswers) (domain.FortuneResult, error) {
	var raw freeResponse
	if err := c.postJSON(ctx, c.fortuneHC, "/api/fortune/free", answers, &raw); err != nil {
		return domain.FortuneResult{}, err
	}
	if raw.Score == nil {
		return domain.FortuneResult{}, fmt.Errorf("%w: score missing in upstream response", domain.ErrUpstreamUnavailable)
	}

	res := domain.FortuneResult{
		Score:      *raw.Score,
		Narrative:  raw.Narrative,
		RiskLevel:  defaultStr(raw.RiskLevel, "medium"),
		Outlook:    defaultStr(raw.Outlook, "neutral"),
		DataSource: defaultStr(raw.DataSource, "free"),
		Tier:       "free",
	}
	if raw.Factors != nil {
		res.Factors = *raw.Factors
	}
	if res.Factors.SkillsAdaptation == "" {
		res.Factors.SkillsAdaptation = "Medium"
	}
	if raw.Salary != nil {
		res.SalaryAnalysis = *raw.Salary
	} else {
		res.SalaryAnalysis = domain.SalaryAnalysis{
			UserComparison: domain.UserComparison{
				UserSalaryRange: answers.CurrentSalary,
				Percentile:      50,
			},
		}
	}
	if raw.JobData != nil {
		res.JobData = *raw.JobData
	} else {
		res.JobData = domain.JobData{SkillsNeeded: "Unknown", Industry: "Unknown", Location: "Unknown"}
	}
	return res, nil
}

// premiumResponse mirrors the upstream /api/fortune/premium payload.
type premiumResponse struct {
	Score       int                   `json:"score"`
	Narrative   string                `json:"narrative"`
	RiskLevel   string                `json:"riskLevel"`
	Outlook     string                `json:"outlook"`
	Factors     domain.Factors        `json:"factors"`
	Salary      domain.SalaryAnalysis `json:"salary_analysis"`
	Strategies  []domain.Strategy     `json:"strategies"`
	FateMap     []domain.FateMapNode  `json:"fateMap"`
	NFTMetadata struct {
		Name        string                `json:"name"`
		Description string                `json:"description"`
		ImagePrompt string                `json:"imagePrompt"`
		Attributes  []domain.NFTAttribute `json:"attributes"`
	} `json:"nftMetadata"`
	KeyInsights   []string `json:"keyInsights"`
	Timeline      any      `json:"timeline"`
	Resources     any      `json:"resources"`
	Warnings      []string `json:"warnings"`
	Opportunities []string `json:"opportunities"`
}

// Premium calls POST /api/fortune/premium. An upstream 503 maps to
// domain.ErrLLMUnavailable so handlers can distinguish missing LLM
// credentials from transient failure.
func (c *Client) Premium(ctx context.Context, answers domain.QuizAnswers, address string) (domain.PremiumFortuneResult, error) {
	body := struct {
		domain.QuizAnswers
		Address string `json:"address"`
	}{QuizAnswers: answers, Address: address}

	var raw premiumResponse
	if err := c.postJSON(ctx, c.fortuneHC, "/api/fortune/premium", body, &raw); err != nil {
		return domain.PremiumFortuneResult{}, err
	}

	return domain.PremiumFortuneResult{
		FortuneResult: domain.FortuneResult{
			Score:          raw.Score,
			Narrative:      raw.Narrative,
			RiskLevel:      raw.RiskLevel,
			Outlook:        raw.Outlook,
			Factors:        raw.Factors,
			SalaryAnalysis: raw.Salary,
			DataSource:     "premium",
			Tier:           "premium",
		},
		Strategies: raw.Strategies,
		FateMap:    raw.FateMap,
		NFTMetadata: domain.NFTMetadata{
			Name:        raw.NFTMetadata.Name,
			Description: raw.NFTMetadata.Description,
			Image:       raw.NFTMetadata.ImagePrompt,
			Attributes:  raw.NFTMetadata.Attributes,
		},
		KeyInsights:   raw.KeyInsights,
		Timeline:      raw.Timeline,
		Resources:     raw.Resources,
		Warnings:      raw.Warnings,
		Opportunities: raw.Opportunities,
	}, nil
}

// Suggest calls POST /api/job-suggestions on the scoring backend.
func (c *Client) Suggest(ctx context.Context, query string) ([]domain.JobSuggestion, error) {
	var raw struct {
		Suggestions []domain.JobSuggestion `json:"suggestions"`
	}
	if err := c.postJSON(ctx, c.suggestHC, "/api/job-suggestions", map[string]string{"query": query}, &raw); err != nil {
		return nil, err
	}
	return raw.Suggestions, nil
}

func (c *Client) postJSON(ctx context.Context, hc *http.Client, path string, body, out any) error {
	start := time.Now()
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", domain.ErrInternal, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		observability.ScoringRequestsTotal.WithLabelValues(path, "error").Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", domain.ErrUpstreamTimeout, path)
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	observability.ScoringRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		observability.ScoringRequestsTotal.WithLabelValues(path, "upstream_error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("scoring upstream error",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)))
		if resp.StatusCode == http.StatusServiceUnavailable {
			return fmt.Errorf("%w: %s", domain.ErrLLMUnavailable, strings.TrimSpace(string(snippet)))
		}
		return fmt.Errorf("%w: %s returned %d", domain.ErrUpstreamUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		observability.ScoringRequestsTotal.WithLabelValues(path, "decode_error").Inc()
		return fmt.Errorf("%w: decode %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}
	observability.ScoringRequestsTotal.WithLabelValues(path, "ok").Inc()
	return nil
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
