// Package storage persists view counters in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/storage/migrations"
	"github.com/tartampluch/go-lifestats/internal/views"
	_ "modernc.org/sqlite"
)

// Store implements views.Store on a SQLite database.
type Store struct {
	sqlDB *sql.DB
}

var _ views.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (or creates) the database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(config.ErrStorePath)
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStorePing, err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStoreMigrate, err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Increment adds one to eventType, creating the row on first use.
func (s *Store) Increment(ctx context.Context, eventType string, at time.Time) (views.Count, error) {
	if err := ctx.Err(); err != nil {
		return views.Count{}, err
	}
	if s == nil || s.sqlDB == nil {
		return views.Count{}, errors.New(config.ErrStoreRequired)
	}
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		return views.Count{}, errors.New(config.ErrEventTypeEmpty)
	}

	var (
		count     int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO view_counts (event_type, count, created_at, updated_at)
		 VALUES (?, 1, ?, ?)
		 ON CONFLICT(event_type) DO UPDATE SET
		   count = count + 1,
		   updated_at = excluded.updated_at
		 RETURNING count, updated_at`,
		eventType, toMillis(at), toMillis(at),
	).Scan(&count, &updatedAt)
	if err != nil {
		return views.Count{}, fmt.Errorf("%s: %w", config.ErrIncrement, err)
	}
	return views.Count{EventType: eventType, Count: count, UpdatedAt: fromMillis(updatedAt)}, nil
}

// Get returns the counter of eventType or views.ErrNotFound.
func (s *Store) Get(ctx context.Context, eventType string) (views.Count, error) {
	if err := ctx.Err(); err != nil {
		return views.Count{}, err
	}
	if s == nil || s.sqlDB == nil {
		return views.Count{}, errors.New(config.ErrStoreRequired)
	}

	var (
		count     int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT count, updated_at FROM view_counts WHERE event_type = ?`,
		strings.TrimSpace(eventType),
	).Scan(&count, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return views.Count{}, views.ErrNotFound
	}
	if err != nil {
		return views.Count{}, fmt.Errorf("%s: %w", config.ErrReadCount, err)
	}
	return views.Count{EventType: strings.TrimSpace(eventType), Count: count, UpdatedAt: fromMillis(updatedAt)}, nil
}

// All returns every counter ordered by event type.
func (s *Store) All(ctx context.Context) ([]views.Count, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, errors.New(config.ErrStoreRequired)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT event_type, count, updated_at FROM view_counts ORDER BY event_type`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrListCounts, err)
	}
	defer rows.Close()

	counts := []views.Count{}
	for rows.Next() {
		var (
			c         views.Count
			updatedAt int64
		)
		if err := rows.Scan(&c.EventType, &c.Count, &updatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrListCounts, err)
		}
		c.UpdatedAt = fromMillis(updatedAt)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrListCounts, err)
	}
	return counts, nil
}
