package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-fortune-teller/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-fortune-teller/internal/app"
	"github.com/fairyhunter13/ai-fortune-teller/internal/config"
	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
	"github.com/fairyhunter13/ai-fortune-teller/internal/usecase"
)

type stubScorer struct {
	free       domain.FortuneResult
	freeErr    error
	premium    domain.PremiumFortuneResult
	premiumErr error
}

func (s *stubScorer) Free(context.Context, domain.QuizAnswers) (domain.FortuneResult, error) {
	return s.free, s.freeErr
}

func (s *stubScorer) Premium(context.Context, domain.QuizAnswers, string) (domain.PremiumFortuneResult, error) {
	return s.premium, s.premiumErr
}

func (s *stubScorer) Suggest(context.Context, string) ([]domain.JobSuggestion, error) {
	return nil, domain.ErrUpstreamUnavailable
}

type stubPinner struct {
	uri string
	err error
}

func (p *stubPinner) PinJSON(context.Context, string, any) (string, error) {
	return p.uri, p.err
}

func testRouter(t *testing.T, scorer domain.ScoringClient, pinner domain.Pinner) http.Handler {
	t.Helper()
	cfg := config.Config{
		CORSAllowOrigins: "*",
		RateLimitPerMin:  1000,
	}
	fortunes := usecase.NewFortuneService(scorer)
	suggestions := usecase.NewSuggestService(scorer, nil, nil, nil, func(q string) []domain.JobSuggestion {
		return []domain.JobSuggestion{{JobTitle: "Software Developer", Confidence: 80, MatchMethod: "fallback"}}
	}, 15)
	metadata := usecase.NewMetadataService(pinner)
	prophecies := usecase.NewProphecyService(nil, metadata)
	srv := httpserver.NewServer(cfg, fortunes, suggestions, metadata, prophecies, usecase.NewPaymentService(), nil, nil, nil)
	return app.BuildRouter(cfg, srv)
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const fullAnswers = `{"job_title":"Cashier","current_salary":"30k-50k","location":"Austin","experience":"1-3 years","education":"high school","ai_skills":"beginner"}`

func TestFortune_MissingFields(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)

	rec := postJSON(t, h, "/api/fortune", `{"job_title":"Cashier"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "INVALID_ARGUMENT", env["error"]["code"])
}

func TestFortune_FallbackStill200(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{freeErr: domain.ErrUpstreamUnavailable}, nil)

	rec := postJSON(t, h, "/api/fortune", fullAnswers)
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.FortuneResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "fallback", result.DataSource)
	assert.Equal(t, 35, result.Score)
}

func TestFortune_InvalidJSON(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	rec := postJSON(t, h, "/api/fortune", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPremium_RequiresAddress(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	rec := postJSON(t, h, "/api/fortune/premium", `{"answers":`+fullAnswers+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPremium_LLMUnavailableIs503(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{premiumErr: domain.ErrLLMUnavailable}, nil)
	rec := postJSON(t, h, "/api/fortune/premium", `{"answers":`+fullAnswers+`,"address":"0xabc"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var env map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "LLM_UNAVAILABLE", env["error"]["code"])
}

func TestSuggestions_ShortQueryEmptyList(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	rec := postJSON(t, h, "/api/job-suggestions", `{"query":"a"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Suggestions []domain.JobSuggestion `json:"suggestions"`
		Fallback    bool                   `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Suggestions)
	assert.False(t, resp.Fallback)
}

func TestSuggestions_FallbackFlagged(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	rec := postJSON(t, h, "/api/job-suggestions", `{"query":"software"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Suggestions []domain.JobSuggestion `json:"suggestions"`
		Fallback    bool                   `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Suggestions, 1)
	assert.True(t, resp.Fallback)
}

func TestIPFSUpload_Validation(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, &stubPinner{uri: "ipfs://QmHash"})

	rec := postJSON(t, h, "/api/ipfs/upload", `{"score":150,"occupation":"Cashier"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h, "/api/ipfs/upload", `{"score":50}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIPFSUpload_Success(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, &stubPinner{uri: "ipfs://QmHash"})

	rec := postJSON(t, h, "/api/ipfs/upload", `{"score":85,"occupation":"Software Engineer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "ipfs://QmHash", resp["ipfsUri"])
	assert.NotContains(t, resp, "note")
}

func TestIPFSUpload_PlaceholderOnFailure(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)

	rec := postJSON(t, h, "/api/ipfs/upload", `{"score":85,"occupation":"Software Engineer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Contains(t, resp["ipfsUri"], "ipfs://placeholder_")
	assert.Contains(t, resp, "note")
}

func TestIPFSHealth(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/ipfs/upload", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, false, resp["pinataConfigured"])
}

func TestMint_UnconfiguredChainIs500(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	rec := postJSON(t, h, "/api/nft/mint", `{"address":"0xabcdabcdabcdabcdabcdabcdabcdabcdabcdabcd","score":85,"occupation":"Software Engineer"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var env map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "CONFIG_MISSING", env["error"]["code"])
}

func TestMint_ValidationRejectsMissingRecipient(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	rec := postJSON(t, h, "/api/nft/mint", `{"score":85,"occupation":"Software Engineer"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMintHealth(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/nft/mint", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["contractConfigured"])
	assert.Equal(t, "Not set", resp["contractAddress"])
}

func TestProphecy_InvalidID(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/nft/prophecy/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayment(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)

	rec := postJSON(t, h, "/api/payment", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h, "/api/payment", `{"address":"0xabcdabcdabcdabcdabcdabcdabcdabcdabcdabcd"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	hash, _ := resp["txHash"].(string)
	assert.Len(t, hash, 66)
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz_FailingCheckIs503(t *testing.T) {
	t.Parallel()
	cfg := config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 1000}
	srv := httpserver.NewServer(cfg,
		usecase.NewFortuneService(nil),
		usecase.NewSuggestService(nil, nil, nil, nil, func(string) []domain.JobSuggestion { return nil }, 15),
		usecase.NewMetadataService(nil),
		usecase.NewProphecyService(nil, usecase.NewMetadataService(nil)),
		usecase.NewPaymentService(),
		func(context.Context) error { return domain.ErrUpstreamUnavailable },
		nil, nil)
	h := app.BuildRouter(cfg, srv)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSecurityHeadersPresent(t *testing.T) {
	t.Parallel()
	h := testRouter(t, &stubScorer{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
