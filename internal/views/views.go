// Package views tracks anonymous usage counters (page views, calculations).
package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
)

// ErrNotFound is returned by a Store when an event type was never recorded.
var ErrNotFound = errors.New(config.ErrViewNotFound)

// Count is the counter of one event type.
type Count struct {
	EventType string    `json:"event_type"`
	Count     int64     `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals is the summary shown by the view counter widget.
type Totals struct {
	TotalPageViews       int64 `json:"total_page_views"`
	TotalStatsCalculated int64 `json:"total_stats_calculated"`
}

// Store persists counters.
type Store interface {
	Increment(ctx context.Context, eventType string, at time.Time) (Count, error)
	Get(ctx context.Context, eventType string) (Count, error)
	All(ctx context.Context) ([]Count, error)
}

// Service implements the counter operations on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService returns a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// IncrementPageView bumps the page_view counter.
func (s *Service) IncrementPageView(ctx context.Context) (Count, error) {
	return s.increment(ctx, config.EventPageView)
}

// IncrementStatsCalculated bumps the stats_calculated counter.
func (s *Service) IncrementStatsCalculated(ctx context.Context) (Count, error) {
	return s.increment(ctx, config.EventStatsCalculated)
}

func (s *Service) increment(ctx context.Context, eventType string) (Count, error) {
	if s == nil || s.store == nil {
		return Count{}, errors.New(config.ErrStoreRequired)
	}
	c, err := s.store.Increment(ctx, eventType, s.now().UTC())
	if err != nil {
		return Count{}, fmt.Errorf("%s: %w", config.ErrIncrement, err)
	}
	slog.Debug(config.MsgViewRecorded,
		config.LogKeyComponent, config.CompViews,
		config.LogKeyEvent, eventType,
		config.LogKeyCount, c.Count)
	return c, nil
}

// Totals returns both well-known counters; missing ones count as zero.
func (s *Service) Totals(ctx context.Context) (Totals, error) {
	if s == nil || s.store == nil {
		return Totals{}, errors.New(config.ErrStoreRequired)
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("%s: %w", config.ErrListCounts, err)
	}

	var t Totals
	for _, c := range all {
		switch c.EventType {
		case config.EventPageView:
			t.TotalPageViews = c.Count
		case config.EventStatsCalculated:
			t.TotalStatsCalculated = c.Count
		}
	}
	return t, nil
}

// ByEventType returns the counter of eventType. An unknown type is a zero count, not an error.
func (s *Service) ByEventType(ctx context.Context, eventType string) (Count, error) {
	if s == nil || s.store == nil {
		return Count{}, errors.New(config.ErrStoreRequired)
	}
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		return Count{}, errors.New(config.ErrEventTypeEmpty)
	}

	c, err := s.store.Get(ctx, eventType)
	if errors.Is(err, ErrNotFound) {
		return Count{EventType: eventType, Count: 0, UpdatedAt: s.now().UTC()}, nil
	}
	if err != nil {
		return Count{}, fmt.Errorf("%s: %w", config.ErrReadCount, err)
	}
	return c, nil
}
