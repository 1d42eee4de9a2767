// Package pinata implements IPFS pinning via the Pinata REST API.
package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/observability"
	"github.com/fairyhunter13/ai-fortune-teller/internal/config"
	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// Client implements domain.Pinner against pinJSONToIPFS.
type Client struct {
	baseURL   string
	apiKey    string
	secretKey string
	hc        *http.Client
}

// New constructs a Pinata client. Callers should check cfg.PinataEnabled()
// before wiring it; an unconfigured client returns ErrConfigMissing.
func New(cfg config.Config) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.PinataBaseURL, "/"),
		apiKey:    cfg.PinataAPIKey,
		secretKey: cfg.PinataSecretKey,
		hc:        &http.Client{Timeout: cfg.PinataTimeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

type pinRequest struct {
	PinataContent  any            `json:"pinataContent"`
	PinataMetadata map[string]any `json:"pinataMetadata"`
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinJSON pins arbitrary JSON content and returns its ipfs:// URI.
func (c *Client) PinJSON(ctx context.Context, name string, content any) (string, error) {
	if c.apiKey == "" || c.secretKey == "" {
		return "", fmt.Errorf("%w: PINATA_API_KEY/PINATA_SECRET_KEY not set", domain.ErrConfigMissing)
	}

	payload, err := json.Marshal(pinRequest{
		PinataContent:  content,
		PinataMetadata: map[string]any{"name": name},
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal pin request: %v", domain.ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: build pin request: %v", domain.ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.secretKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		observability.PinAttemptsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: pinata: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		observability.PinAttemptsTotal.WithLabelValues("upstream_error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("pinata upload failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)))
		return "", fmt.Errorf("%w: pinata returned %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var out pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		observability.PinAttemptsTotal.WithLabelValues("decode_error").Inc()
		return "", fmt.Errorf("%w: decode pinata response: %v", domain.ErrUpstreamUnavailable, err)
	}
	if out.IpfsHash == "" {
		observability.PinAttemptsTotal.WithLabelValues("empty_hash").Inc()
		return "", fmt.Errorf("%w: pinata returned empty hash", domain.ErrUpstreamUnavailable)
	}

	observability.PinAttemptsTotal.WithLabelValues("ok").Inc()
	return "ipfs://" + out.IpfsHash, nil
}
