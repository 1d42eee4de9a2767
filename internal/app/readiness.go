package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-fortune-teller/internal/config"
	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// BuildReadinessChecks returns three readiness checks: the scoring
// backend, the Base RPC node, and Redis. A nil chain client or Redis
// client yields a nil check so the probe is skipped rather than failing.
func BuildReadinessChecks(cfg config.Config, chain domain.ChainClient, rdb *redis.Client) (
	func(ctx context.Context) error,
	func(ctx context.Context) error,
	func(ctx context.Context) error,
) {
	scorerCheck := func(ctx context.Context) error {
		client := &http.Client{Timeout: 2 * time.Second}
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, cfg.ScoringAPIURL+"/health", nil)
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("scorer status %d", resp.StatusCode)
	}

	var rpcCheck func(ctx context.Context) error
	if chain != nil {
		rpcCheck = func(ctx context.Context) error {
			return chain.VerifyNetwork(ctx)
		}
	}

	var redisCheck func(ctx context.Context) error
	if rdb != nil {
		redisCheck = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}

	return scorerCheck, rpcCheck, redisCheck
}
