// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// ScoringAPIURL is the base URL of the external Python scoring service.
	ScoringAPIURL     string        `env:"PYTHON_API_URL" envDefault:"http://localhost:5000"`
	ScoringTimeout    time.Duration `env:"SCORING_TIMEOUT" envDefault:"15s"`
	SuggestionTimeout time.Duration `env:"SUGGESTION_TIMEOUT" envDefault:"5s"`

	PinataAPIKey    string        `env:"PINATA_API_KEY"`
	PinataSecretKey string        `env:"PINATA_SECRET_KEY"`
	PinataBaseURL   string        `env:"PINATA_BASE_URL" envDefault:"https://api.pinata.cloud"`
	PinataTimeout   time.Duration `env:"PINATA_TIMEOUT" envDefault:"20s"`

	// NFTContractAddress is the deployed ProphecyToken contract on Base.
	NFTContractAddress string `env:"NFT_CONTRACT_ADDRESS"`
	// OwnerPrivateKey signs server-side owner mints (mintProphecyFor).
	OwnerPrivateKey string `env:"PRIVATE_KEY"`
	BaseRPCURL      string `env:"BASE_RPC_URL" envDefault:"https://mainnet.base.org"`
	ChainID         uint64 `env:"CHAIN_ID" envDefault:"8453"`
	// DefaultMintPriceWei backs the mintPrice() view call for contracts
	// deployed before the price field existed.
	DefaultMintPriceWei string        `env:"DEFAULT_MINT_PRICE_WEI" envDefault:"1000000000000000"`
	ReceiptTimeout      time.Duration `env:"RECEIPT_TIMEOUT" envDefault:"120s"`
	ReceiptPollInterval time.Duration `env:"RECEIPT_POLL_INTERVAL" envDefault:"2s"`

	// SearchIndexPath points at the pre-computed job search index JSON.
	SearchIndexPath string `env:"SEARCH_INDEX_PATH" envDefault:"data/search_index.json"`
	// JobDatasetCSVPath is the raw dataset used when the index is absent.
	JobDatasetCSVPath string `env:"JOB_DATASET_CSV_PATH" envDefault:"data/jobs.csv"`

	// RedisURL enables the suggestion query cache when set.
	RedisURL      string        `env:"REDIS_URL"`
	SuggestionTTL time.Duration `env:"SUGGESTION_CACHE_TTL" envDefault:"1h"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"ai-fortune-teller"`

	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"150s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// PinataEnabled reports whether real IPFS pinning is configured.
func (c Config) PinataEnabled() bool {
	return c.PinataAPIKey != "" && c.PinataSecretKey != ""
}

// MintingEnabled reports whether the server-side owner mint path is usable.
func (c Config) MintingEnabled() bool {
	return c.NFTContractAddress != "" && c.OwnerPrivateKey != ""
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }
