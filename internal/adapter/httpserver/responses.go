// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the quiz, suggestion, IPFS and minting endpoints as a JSON
// API and keeps transport concerns out of the application services.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, _ *http.Request, err error, details any) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		codeStr = "NOT_FOUND"
	case errors.Is(err, domain.ErrWrongNetwork):
		code = http.StatusBadRequest
		codeStr = "WRONG_NETWORK"
	case errors.Is(err, domain.ErrLLMUnavailable):
		code = http.StatusServiceUnavailable
		codeStr = "LLM_UNAVAILABLE"
	case errors.Is(err, domain.ErrUpstreamTimeout):
		code = http.StatusServiceUnavailable
		codeStr = "UPSTREAM_TIMEOUT"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		code = http.StatusInternalServerError
		codeStr = "UPSTREAM_UNAVAILABLE"
	case errors.Is(err, domain.ErrConfigMissing):
		code = http.StatusInternalServerError
		codeStr = "CONFIG_MISSING"
	case errors.Is(err, domain.ErrTxReverted):
		code = http.StatusInternalServerError
		codeStr = "TX_REVERTED"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
