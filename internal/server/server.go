// Package server exposes the life-statistics API, the calendar feed and the
// localized page data over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/tartampluch/go-lifestats/internal/compat"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/views"
)

// Deps are the services the handlers delegate to.
type Deps struct {
	Catalog     *locale.Catalog
	Views       *views.Service
	Compat      *compat.Service
	Clock       engine.Clock
	BaseURL     string
	CORSOrigins []string
}

// Server is the HTTP front of the application.
type Server struct {
	Addr string

	deps   Deps
	feeds  *feedCache
	router *mux.Router
}

// New wires the routes. A nil Clock means the real clock; a nil Compat
// service answers every compatibility call with 503.
func New(addr string, deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = engine.RealClock{}
	}
	if deps.Compat == nil {
		deps.Compat = compat.NewService(nil, deps.Clock)
	}
	s := &Server{
		Addr:  addr,
		deps:  deps,
		feeds: newFeedCache(config.MaxCalendarFeeds),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(tracing)

	// API clients get the status document at the root; browsers get the locale redirect.
	r.HandleFunc(config.RouteRoot, s.handleRoot).Methods(http.MethodGet, http.MethodHead).MatcherFunc(wantsJSON)
	r.Handle(config.RouteRoot, locale.Middleware(http.HandlerFunc(notFound))).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(config.RouteHealth, s.handleHealth).Methods(http.MethodGet, http.MethodHead)

	r.HandleFunc(config.RouteStatsCalculate, s.handleCalculate).Methods(http.MethodPost)
	r.HandleFunc(config.RouteStatsVCard, s.handleVCard).Methods(http.MethodPost)
	r.HandleFunc(config.RouteStatsCalendar, s.handleCalendar).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(config.RouteStatsExportPDF, s.handleExportPDF).Methods(http.MethodPost)

	r.HandleFunc(config.RouteViewsPageView, s.handleIncrementPageView).Methods(http.MethodPost)
	r.HandleFunc(config.RouteViewsStatsCalc, s.handleIncrementStatsCalculated).Methods(http.MethodPost)
	r.HandleFunc(config.RouteViewsAll, s.handleAllViews).Methods(http.MethodGet)
	r.HandleFunc(config.RouteViewsByType, s.handleViewsByType).Methods(http.MethodGet)

	r.HandleFunc(config.RouteCompatAnalyze, s.handleCompatAnalyze).Methods(http.MethodPost)
	r.HandleFunc(config.RouteCompatHealth, s.handleCompatHealth).Methods(http.MethodGet)

	page := locale.Middleware(http.HandlerFunc(s.handlePage))
	r.Handle(config.RoutePageLang, page).Methods(http.MethodGet, http.MethodHead).MatcherFunc(notAPI)
	r.Handle(config.RoutePageLangSub, page).Methods(http.MethodGet, http.MethodHead).MatcherFunc(notAPI)

	r.NotFoundHandler = locale.Middleware(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	return r
}

// Handler returns the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	return accessLog(cors(s.deps.CORSOrigins)(s.router))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s.Addr == "" {
		return errors.New(config.ErrAddrRequired)
	}

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.Addr,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

type rootStatus struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type healthStatus struct {
	Status string `json:"status"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootStatus{
		Message: config.HTTPMsgRunning,
		Version: config.Version,
		Status:  config.HTTPMsgHealthy,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{Status: config.HTTPMsgHealthy})
}

// notAPI keeps unknown API paths away from the page routes so they 404.
func notAPI(r *http.Request, _ *mux.RouteMatch) bool {
	return !strings.HasPrefix(r.URL.Path, config.RouteAPIPrefix)
}

// wantsJSON matches requests that ask for JSON and not for a page.
func wantsJSON(r *http.Request, _ *mux.RouteMatch) bool {
	accept := r.Header.Get(config.HeaderAccept)
	return strings.Contains(accept, config.MimeJSON) && !strings.Contains(accept, config.MimeHTML)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, config.HTTPMsgNotFound)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, config.HTTPMsgMethodNotAll)
}
