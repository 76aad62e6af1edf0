// Package compat validates couple-compatibility requests and forwards them to
// the analysis backend. The report itself is opaque JSON.
package compat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New(config.ErrCompatInvalid)
	// ErrNoUpstream means no analysis backend is configured.
	ErrNoUpstream = errors.New(config.ErrUpstreamMissing)
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersonInfo describes one partner. Hour, gender and name are optional.
type PersonInfo struct {
	BirthYear  int     `json:"birth_year"`
	BirthMonth int     `json:"birth_month"`
	BirthDay   int     `json:"birth_day"`
	BirthHour  *int    `json:"birth_hour,omitempty"`
	Gender     *string `json:"gender,omitempty"`
	Name       *string `json:"name,omitempty"`
}

// Request is the body of an analysis call.
type Request struct {
	Person1  PersonInfo `json:"person1"`
	Person2  PersonInfo `json:"person2"`
	Language string     `json:"language,omitempty"`
}

// Birthdate returns the calendar date of p.
func (p PersonInfo) Birthdate() engine.Birthdate {
	return engine.Birthdate{Year: p.BirthYear, Month: p.BirthMonth, Day: p.BirthDay}
}

// Validate checks p against the ranges the backend accepts, using now for the current year.
func (p PersonInfo) Validate(now time.Time) error {
	if p.BirthYear < config.MinBirthYear || p.BirthYear > now.Year() {
		return &ValidationError{Field: "birth_year", Reason: config.ErrYearRange}
	}
	if p.BirthMonth < 1 || p.BirthMonth > 12 {
		return &ValidationError{Field: "birth_month", Reason: config.ErrMonthRange}
	}
	if p.BirthDay < 1 || p.BirthDay > 31 {
		return &ValidationError{Field: "birth_day", Reason: config.ErrDayRange}
	}
	if err := p.Birthdate().Validate(); err != nil {
		return &ValidationError{Field: "birth_day", Reason: config.ErrInvalidDate}
	}
	if p.BirthHour != nil && (*p.BirthHour < 0 || *p.BirthHour > config.MaxHour) {
		return &ValidationError{Field: "birth_hour", Reason: config.ErrHourRange}
	}
	if p.Gender != nil && *p.Gender != config.GenderMale && *p.Gender != config.GenderFemale {
		return &ValidationError{Field: "gender", Reason: config.ErrGender}
	}
	if p.Name != nil && utf8.RuneCountInString(*p.Name) > config.MaxNameLength {
		return &ValidationError{Field: "name", Reason: config.ErrNameTooLong}
	}
	return nil
}

// Validate checks both partners and the language, filling in the default language.
func (r *Request) Validate(now time.Time) error {
	if err := r.Person1.Validate(now); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPerson1, err)
	}
	if err := r.Person2.Validate(now); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPerson2, err)
	}

	r.Language = strings.TrimSpace(r.Language)
	switch r.Language {
	case "":
		r.Language = config.CompatDefaultLanguage
	case config.CompatLanguageKo, config.CompatLanguageEn:
	default:
		return &ValidationError{Field: "language", Reason: config.ErrLanguage}
	}
	return nil
}

// Analyzer runs the analysis remotely.
type Analyzer interface {
	AnalyzeCompatibility(ctx context.Context, req Request) (json.RawMessage, error)
	CompatibilityHealth(ctx context.Context) (json.RawMessage, error)
}

// Service validates requests before handing them to an Analyzer.
type Service struct {
	analyzer Analyzer
	clock    engine.Clock
}

// NewService returns a Service. A nil analyzer makes every call fail with ErrNoUpstream.
func NewService(analyzer Analyzer, clock engine.Clock) *Service {
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &Service{analyzer: analyzer, clock: clock}
}

// Analyze validates req and forwards it. Validation errors never reach the network.
func (s *Service) Analyze(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := req.Validate(s.clock.Now()); err != nil {
		return nil, err
	}
	if s.analyzer == nil {
		return nil, ErrNoUpstream
	}
	return s.analyzer.AnalyzeCompatibility(ctx, req)
}

// Health reports the backend status.
func (s *Service) Health(ctx context.Context) (json.RawMessage, error) {
	if s.analyzer == nil {
		return nil, ErrNoUpstream
	}
	return s.analyzer.CompatibilityHealth(ctx)
}
