package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/views"
)

func (s *Server) handleIncrementPageView(w http.ResponseWriter, r *http.Request) {
	s.writeCount(w, r, s.deps.Views.IncrementPageView)
}

func (s *Server) handleIncrementStatsCalculated(w http.ResponseWriter, r *http.Request) {
	s.writeCount(w, r, s.deps.Views.IncrementStatsCalculated)
}

func (s *Server) handleViewsByType(w http.ResponseWriter, r *http.Request) {
	eventType := mux.Vars(r)[config.RouteVarEventType]
	s.writeCount(w, r, func(ctx context.Context) (views.Count, error) {
		return s.deps.Views.ByEventType(ctx, eventType)
	})
}

func (s *Server) handleAllViews(w http.ResponseWriter, r *http.Request) {
	totals, err := s.deps.Views.Totals(r.Context())
	if err != nil {
		viewsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) writeCount(w http.ResponseWriter, r *http.Request, op func(context.Context) (views.Count, error)) {
	c, err := op(r.Context())
	if err != nil {
		viewsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func viewsError(w http.ResponseWriter, err error) {
	slog.Error(config.HTTPMsgGenericFailure,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyError, err)
	writeError(w, http.StatusInternalServerError, config.HTTPMsgGenericFailure)
}
