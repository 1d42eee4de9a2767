// Package domain holds the core entities, error taxonomy and ports.
package domain

import (
	"context"
	"errors"
	"math/big"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
	ErrLLMUnavailable      = errors.New("llm unavailable")
	ErrConfigMissing       = errors.New("configuration missing")
	ErrWrongNetwork        = errors.New("wrong network")
	ErrTxReverted          = errors.New("transaction reverted")
	ErrInternal            = errors.New("internal error")
)

// QuizAnswers is the flat record a user submits from the quiz.
// Immutable once submitted.
type QuizAnswers struct {
	JobTitle      string `json:"job_title"`
	CurrentSalary string `json:"current_salary"`
	Location      string `json:"location"`
	Experience    string `json:"experience"`
	Education     string `json:"education"`
	AISkills      string `json:"ai_skills"`
}

// Factors breaks a fortune down into scored components.
type Factors struct {
	AutomationRisk   int    `json:"automation_risk"`
	GrowthProjection int    `json:"growth_projection"`
	SkillsAdaptation string `json:"skills_adaptation"`
	SalaryTrend      int    `json:"salary_trend"`
}

// UserComparison positions the user's salary against the market.
type UserComparison struct {
	UserSalaryRange string `json:"user_salary_range"`
	MarketMedian    int    `json:"market_median"`
	Percentile      int    `json:"percentile"`
}

// SalaryAnalysis holds current and projected salary figures.
type SalaryAnalysis struct {
	Current        int            `json:"current"`
	Projected      int            `json:"projected"`
	ChangePercent  float64        `json:"change_percent"`
	UserComparison UserComparison `json:"user_comparison"`
}

// JobData carries the market stats for the matched occupation.
type JobData struct {
	AutomationRisk   int    `json:"automation_risk"`
	GrowthProjection int    `json:"growth_projection"`
	SkillsNeeded     string `json:"skills_needed"`
	Industry         string `json:"industry"`
	Location         string `json:"location"`
}

// FortuneResult is the computed risk assessment. Never mutated after
// creation; held only for the duration of one user session.
type FortuneResult struct {
	Score          int            `json:"score"`
	Narrative      string         `json:"narrative"`
	RiskLevel      string         `json:"riskLevel"`
	Outlook        string         `json:"outlook"`
	Factors        Factors        `json:"factors"`
	SalaryAnalysis SalaryAnalysis `json:"salary_analysis"`
	JobData        JobData        `json:"job_data"`
	DataSource     string         `json:"data_source"`
	Tier           string         `json:"tier"`
}

// Strategy is a premium-tier pivot recommendation.
type Strategy struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Timeline    string   `json:"timeline"`
	Resources   []string `json:"resources"`
	Priority    string   `json:"priority,omitempty"`
	CostEstimate string  `json:"cost_estimate,omitempty"`
}

// FateMapNode is a node in the premium career-decision graph.
type FateMapNode struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Type        string   `json:"type"`
	Connections []string `json:"connections"`
	Probability float64  `json:"probability,omitempty"`
}

// NFTAttribute is one trait in standard NFT JSON metadata.
type NFTAttribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// NFTMetadata conforms to the standard NFT JSON metadata shape.
type NFTMetadata struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image,omitempty"`
	Attributes  []NFTAttribute `json:"attributes"`
}

// PremiumFortuneResult is the LLM-powered superset of FortuneResult.
type PremiumFortuneResult struct {
	FortuneResult
	Strategies    []Strategy    `json:"strategies"`
	FateMap       []FateMapNode `json:"fateMap"`
	NFTMetadata   NFTMetadata   `json:"nftMetadata"`
	KeyInsights   []string      `json:"keyInsights,omitempty"`
	Timeline      any           `json:"timeline,omitempty"`
	Resources     any           `json:"resources,omitempty"`
	Warnings      []string      `json:"warnings,omitempty"`
	Opportunities []string      `json:"opportunities,omitempty"`
}

// Prophecy mirrors the on-chain Prophecy struct. The contract owns the
// data; this is a transient read result.
type Prophecy struct {
	TokenID         uint64    `json:"tokenId"`
	ResilienceScore uint64    `json:"resilienceScore"`
	Occupation      string    `json:"occupation"`
	Timestamp       time.Time `json:"timestamp"`
	UpdateCount     uint64    `json:"updateCount"`
	Recipient       string    `json:"recipient"`
}

// MintReceipt is the outcome of a confirmed mint transaction.
type MintReceipt struct {
	TxHash  string `json:"txHash"`
	TokenID uint64 `json:"tokenId"`
}

// JobSuggestion is one scored job-title match.
type JobSuggestion struct {
	JobTitle         string  `json:"job_title"`
	Confidence       float64 `json:"confidence"`
	MatchMethod      string  `json:"match_method"`
	Industry         string  `json:"industry,omitempty"`
	Location         string  `json:"location,omitempty"`
	AutomationRisk   int     `json:"automation_risk,omitempty"`
	GrowthProjection int     `json:"growth_projection,omitempty"`
}

// ScoringClient (port) calls the external Python scoring service.
type ScoringClient interface {
	Free(ctx context.Context, answers QuizAnswers) (FortuneResult, error)
	Premium(ctx context.Context, answers QuizAnswers, address string) (PremiumFortuneResult, error)
	Suggest(ctx context.Context, query string) ([]JobSuggestion, error)
}

// Pinner (port) pins JSON content to IPFS and returns an ipfs:// URI.
type Pinner interface {
	PinJSON(ctx context.Context, name string, content any) (string, error)
}

// ChainClient (port) wraps the ProphecyToken contract on Base.
type ChainClient interface {
	VerifyNetwork(ctx context.Context) error
	MintPrice(ctx context.Context) (*big.Int, error)
	GetProphecy(ctx context.Context, tokenID uint64) (Prophecy, error)
	MintProphecyFor(ctx context.Context, recipient, tokenURI string, score uint64, occupation string) (MintReceipt, error)
}

// SuggestionCache (port) memoizes fuzzy search results per query.
type SuggestionCache interface {
	Get(ctx context.Context, query string) ([]JobSuggestion, bool)
	Set(ctx context.Context, query string, suggestions []JobSuggestion)
}
