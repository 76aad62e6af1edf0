package server

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// accessLog writes one Info line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info(config.MsgRequest,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyMethod, r.Method,
			config.LogKeyPath, r.URL.Path,
			config.LogKeyStatus, rec.status,
			config.LogKeyDuration, time.Since(start).Milliseconds(),
		)
	})
}

// cors answers preflights and tags responses for allowed origins.
// Requests from other origins are served without CORS headers. Credentials are
// only allowed for origins listed by name; the "*" entry opens anonymous access.
func cors(origins []string) func(http.Handler) http.Handler {
	anyOrigin := slices.Contains(origins, config.CORSAnyOrigin)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get(config.HeaderOrigin)
			listed := origin != "" && slices.Contains(origins, origin)
			allowed := listed || (origin != "" && anyOrigin)
			h := w.Header()
			switch {
			case listed:
				h.Set(config.HeaderACAllowOrigin, origin)
				h.Set(config.HeaderACAllowCredentials, "true")
				h.Add(config.HeaderVary, config.HeaderOrigin)
			case allowed:
				h.Set(config.HeaderACAllowOrigin, config.CORSAnyOrigin)
			}
			if r.Method == http.MethodOptions && r.Header.Get(config.HeaderACRequestMethod) != "" {
				if allowed {
					w.Header().Set(config.HeaderACAllowMethods, config.CORSAllowedMethods)
					w.Header().Set(config.HeaderACAllowHeaders, config.CORSAllowedHeaders)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tracing opens a server span named after the matched route template.
func tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				name = tpl
			}
		}

		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := telemetry.Tracer().Start(ctx, r.Method+" "+name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("http.route", name),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
	})
}
