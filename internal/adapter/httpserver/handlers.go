package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-fortune-teller/internal/config"
	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
	"github.com/fairyhunter13/ai-fortune-teller/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg         config.Config
	Fortunes    *usecase.FortuneService
	Suggestions *usecase.SuggestService
	Metadata    *usecase.MetadataService
	Prophecies  *usecase.ProphecyService
	Payments    *usecase.PaymentService

	ScorerCheck func(ctx context.Context) error
	RPCCheck    func(ctx context.Context) error
	RedisCheck  func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, fortunes *usecase.FortuneService, suggestions *usecase.SuggestService, metadata *usecase.MetadataService, prophecies *usecase.ProphecyService, payments *usecase.PaymentService, scorerCheck, rpcCheck, redisCheck func(context.Context) error) *Server {
	return &Server{
		Cfg:         cfg,
		Fortunes:    fortunes,
		Suggestions: suggestions,
		Metadata:    metadata,
		Prophecies:  prophecies,
		Payments:    payments,
		ScorerCheck: scorerCheck,
		RPCCheck:    rpcCheck,
		RedisCheck:  redisCheck,
	}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json body: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

// FortuneHandler computes the free-tier fortune from a quiz submission.
// The body is the answers object itself.
func (s *Server) FortuneHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var answers domain.QuizAnswers
		if err := decodeJSON(r, &answers); err != nil {
			writeError(w, r, err, nil)
			return
		}
		result, err := s.Fortunes.Tell(r.Context(), answers)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// PremiumFortuneHandler proxies the LLM-backed premium reading.
func (s *Server) PremiumFortuneHandler() http.HandlerFunc {
	type premiumRequest struct {
		Answers domain.QuizAnswers `json:"answers"`
		Address string             `json:"address"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req premiumRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		result, err := s.Fortunes.TellPremium(r.Context(), req.Answers, req.Address)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// SuggestionsHandler resolves job-title suggestions through the tier
// chain. It never fails: degraded tiers are flagged, not erred.
func (s *Server) SuggestionsHandler() http.HandlerFunc {
	type suggestRequest struct {
		Query string `json:"query"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req suggestRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		out := s.Suggestions.Suggest(r.Context(), req.Query)
		writeJSON(w, http.StatusOK, map[string]any{
			"suggestions": out.Items,
			"fallback":    out.UsedFallback,
		})
	}
}

// IPFSUploadHandler pins prophecy metadata. Invalid input is the only
// failure mode; pin failures degrade to a placeholder URI inside the
// usecase.
func (s *Server) IPFSUploadHandler() http.HandlerFunc {
	type uploadRequest struct {
		Score      int    `json:"score"`
		Occupation string `json:"occupation"`
		RiskLevel  string `json:"riskLevel"`
		Outlook    string `json:"outlook"`
		ImageURL   string `json:"imageUrl"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req uploadRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		if req.RiskLevel == "" {
			req.RiskLevel = "medium"
		}
		if req.Outlook == "" {
			req.Outlook = "neutral"
		}
		result, err := s.Metadata.Upload(r.Context(), req.Score, req.Occupation, req.RiskLevel, req.Outlook, req.ImageURL)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		resp := map[string]any{
			"success":  true,
			"ipfsUri":  result.URI,
			"metadata": result.Metadata,
		}
		if result.Placeholder {
			resp["note"] = "Using placeholder IPFS URI. Configure Pinata for real IPFS uploads."
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// IPFSHealthHandler reports whether Pinata credentials are configured.
func (s *Server) IPFSHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":           "ok",
			"pinataConfigured": s.Cfg.PinataEnabled(),
		})
	}
}

// MintHandler mints a prophecy server-side through the owner account.
func (s *Server) MintHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req usecase.MintRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		out, err := s.Prophecies.Mint(r.Context(), req)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"txHash":   out.Receipt.TxHash,
			"tokenId":  out.Receipt.TokenID,
			"tokenUri": out.TokenURI,
		})
	}
}

// MintHealthHandler reports contract configuration status.
func (s *Server) MintHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		addr := s.Cfg.NFTContractAddress
		if addr == "" {
			addr = "Not set"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":             "ok",
			"contractConfigured": s.Cfg.MintingEnabled(),
			"contractAddress":    addr,
		})
	}
}

// ProphecyHandler reads a minted prophecy from the contract.
func (s *Server) ProphecyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "id")
		tokenID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: token id must be a non-negative integer", domain.ErrInvalidArgument), map[string]string{"id": raw})
			return
		}
		prophecy, err := s.Prophecies.Get(r.Context(), tokenID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, prophecy)
	}
}

// PaymentHandler confirms the simulated premium-unlock payment.
func (s *Server) PaymentHandler() http.HandlerFunc {
	type paymentRequest struct {
		Address string `json:"address"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		conf, err := s.Payments.Confirm(r.Context(), req.Address)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"txHash":  conf.TxHash,
			"message": conf.Message,
		})
	}
}

// ReadyzHandler probes the scoring backend, the RPC node and Redis.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 3)
		if s.ScorerCheck != nil {
			if err := s.ScorerCheck(ctx); err != nil {
				checks = append(checks, check{Name: "scorer", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "scorer", OK: true})
			}
		}
		if s.RPCCheck != nil {
			if err := s.RPCCheck(ctx); err != nil {
				checks = append(checks, check{Name: "rpc", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "rpc", OK: true})
			}
		}
		if s.RedisCheck != nil {
			if err := s.RedisCheck(ctx); err != nil {
				checks = append(checks, check{Name: "redis", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "redis", OK: true})
			}
		}
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
