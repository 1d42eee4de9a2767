// Command server starts the AI Fortune Teller HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/chain"
	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/ipfs/pinata"
	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/observability"
	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/scoring"
	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/search"
	"github.com/fairyhunter13/ai-fortune-teller/internal/app"
	"github.com/fairyhunter13/ai-fortune-teller/internal/config"
	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
	"github.com/fairyhunter13/ai-fortune-teller/internal/usecase"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, scoring, pinning and mint instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	// Suggestion cache (optional)
	var rdb *redis.Client
	var suggestionCache domain.SuggestionCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", slog.Any("error", err))
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()
		suggestionCache = search.NewRedisCache(rdb, cfg.SuggestionTTL)
	}

	// Local suggestion tiers: pre-computed index, then the raw dataset.
	var indexTier, csvTier usecase.TitleSearcher
	if idx, err := search.LoadIndex(cfg.SearchIndexPath); err != nil {
		slog.Warn("search index unavailable", slog.String("path", cfg.SearchIndexPath), slog.Any("error", err))
	} else {
		indexTier = idx
		slog.Info("search index loaded", slog.String("path", cfg.SearchIndexPath))
	}
	if titles, err := search.LoadCSVTitles(cfg.JobDatasetCSVPath); err != nil {
		slog.Warn("job dataset unavailable", slog.String("path", cfg.JobDatasetCSVPath), slog.Any("error", err))
	} else {
		csvTier = search.NewIndex(titles, nil)
		slog.Info("job dataset loaded", slog.Int("titles", len(titles)))
	}

	// Chain client (optional; minting and prophecy reads need it)
	var chainClient domain.ChainClient
	if cfg.NFTContractAddress != "" {
		cc, err := chain.Dial(ctx, cfg)
		if err != nil {
			slog.Error("chain client init failed", slog.Any("error", err))
			os.Exit(1)
		}
		chainClient = cc
		slog.Info("chain client ready",
			slog.String("contract", cfg.NFTContractAddress),
			slog.Uint64("chain_id", cfg.ChainID))
	} else {
		slog.Warn("NFT_CONTRACT_ADDRESS not set - minting disabled")
	}

	// Pinner (optional; upload degrades to placeholder URIs without it)
	var pinner domain.Pinner
	if cfg.PinataEnabled() {
		pinner = pinata.New(cfg)
	} else {
		slog.Warn("Pinata credentials not set - using placeholder IPFS URIs")
	}

	scorer := scoring.New(cfg)

	// Usecases
	fortunes := usecase.NewFortuneService(scorer)
	suggestions := usecase.NewSuggestService(scorer, suggestionCache, indexTier, csvTier, search.FallbackSuggestions, search.DefaultTopK)
	metadata := usecase.NewMetadataService(pinner)
	prophecies := usecase.NewProphecyService(chainClient, metadata)
	payments := usecase.NewPaymentService()

	scorerCheck, rpcCheck, redisCheck := app.BuildReadinessChecks(cfg, chainClient, rdb)

	srv := httpserver.NewServer(cfg, fortunes, suggestions, metadata, prophecies, payments, scorerCheck, rpcCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
