package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tartampluch/go-lifestats/internal/apiclient"
	"github.com/tartampluch/go-lifestats/internal/compat"
	"github.com/tartampluch/go-lifestats/internal/config"
)

func (s *Server) handleCompatAnalyze(w http.ResponseWriter, r *http.Request) {
	var req compat.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := s.deps.Compat.Analyze(r.Context(), req)
	writeUpstream(w, report, err)
}

func (s *Server) handleCompatHealth(w http.ResponseWriter, r *http.Request) {
	status, err := s.deps.Compat.Health(r.Context())
	writeUpstream(w, status, err)
}

// writeUpstream relays an opaque upstream document, mapping failures to
// 400 (validation), 503 (no backend) or 502 (backend failure).
func writeUpstream(w http.ResponseWriter, body json.RawMessage, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, body)
		return
	}

	switch {
	case errors.Is(err, compat.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, compat.ErrNoUpstream):
		writeError(w, http.StatusServiceUnavailable, config.ErrUpstreamMissing)
		return
	}

	args := []any{config.LogKeyComponent, config.CompServer, config.LogKeyError, err}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		args = append(args, config.LogKeyStatus, apiErr.StatusCode)
	}
	slog.Error(config.ErrUpstreamRequest, args...)
	writeError(w, http.StatusBadGateway, config.HTTPMsgUpstreamFailed)
}
