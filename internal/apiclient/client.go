// Package apiclient talks to a remote life-stats backend over its JSON API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tartampluch/go-lifestats/internal/compat"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/telemetry"
	"github.com/tartampluch/go-lifestats/internal/views"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d %s", config.ErrUpstreamStatus, e.StatusCode, e.Detail)
}

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Version string `json:"version,omitempty"`
}

// Client calls the backend. It never retries.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

var _ compat.Analyzer = (*Client)(nil)

// New returns a Client for baseURL. Only http and https are accepted.
func New(baseURL, apiKey string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New(config.ErrBaseURLRequired)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: config.HTTPTimeout},
	}, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.do(ctx, http.MethodGet, config.RouteHealth, nil, &out)
	return out, err
}

// CalculateStats calls POST /api/v1/stats/calculate.
func (c *Client) CalculateStats(ctx context.Context, b engine.Birthdate) (engine.LifeStats, error) {
	var out engine.LifeStats
	err := c.do(ctx, http.MethodPost, config.RouteStatsCalculate, b, &out)
	return out, err
}

// IncrementPageView calls POST /api/v1/views/page-view.
func (c *Client) IncrementPageView(ctx context.Context) (views.Count, error) {
	var out views.Count
	err := c.do(ctx, http.MethodPost, config.RouteViewsPageView, nil, &out)
	return out, err
}

// AllViews calls GET /api/v1/views/all.
func (c *Client) AllViews(ctx context.Context) (views.Totals, error) {
	var out views.Totals
	err := c.do(ctx, http.MethodGet, config.RouteViewsAll, nil, &out)
	return out, err
}

// AnalyzeCompatibility calls POST /api/v1/compatibility/analyze and returns the report untouched.
func (c *Client) AnalyzeCompatibility(ctx context.Context, req compat.Request) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, config.RouteCompatAnalyze, req, &out)
	return out, err
}

// CompatibilityHealth calls GET /api/v1/compatibility/health.
func (c *Client) CompatibilityHealth(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, config.RouteCompatHealth, nil, &out)
	return out, err
}

// do sends one JSON request and decodes a JSON answer into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "apiclient "+method+" "+path)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	target := c.BaseURL + path
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompClient),
		slog.String(config.LogKeyMethod, method),
		slog.String(config.LogKeyURL, target),
	)
	log.Debug(config.MsgUpstreamCall)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrEncodeBody, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrUpstreamRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if body != nil {
		req.Header.Set(config.HeaderContentType, config.MimeJSON)
	}
	if c.APIKey != "" {
		req.Header.Set(config.HeaderAuthorization, config.BearerPrefix+c.APIKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrUpstreamRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int(config.LogKeyStatus, resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, Detail: readDetail(resp)}
		log.Warn(config.MsgUpstreamStatus,
			slog.Int(config.LogKeyStatus, resp.StatusCode),
			slog.String(config.LogKeyError, apiErr.Detail))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, config.MaxHTTPResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDecodeResp, err)
	}
	return nil
}

// readDetail pulls the "detail" field out of an error body. String details are
// used as-is, structured ones (validation lists) verbatim, anything else falls
// back to the status text.
func readDetail(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, config.MaxErrorBodyRead))

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			if s != "" {
				return s
			}
		} else if string(envelope.Detail) != "null" {
			return string(envelope.Detail)
		}
	}
	return http.StatusText(resp.StatusCode)
}
