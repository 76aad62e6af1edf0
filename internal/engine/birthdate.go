package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
)

// Sentinel errors for errors.Is matching.
var (
	ErrInvalidDate = errors.New(config.ErrInvalidDate)
	ErrFutureDate  = errors.New(config.ErrFutureDate)
)

// Birthdate is the calendar date used as the zero-point for all elapsed-time computations.
type Birthdate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// InvalidDateError reports a birthdate that is not a real calendar date (e.g. February 30th).
type InvalidDateError struct {
	Birthdate Birthdate
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("%s: %s", config.ErrInvalidDate, e.Birthdate)
}

// Is makes errors.Is(err, ErrInvalidDate) succeed.
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// FutureDateError reports a birthdate strictly after the evaluation instant.
type FutureDateError struct {
	Birthdate Birthdate
	Now       time.Time
}

func (e *FutureDateError) Error() string {
	return fmt.Sprintf("%s: %s is after %s", config.ErrFutureDate, e.Birthdate, e.Now.Format(config.DateFormatFullDash))
}

// Is makes errors.Is(err, ErrFutureDate) succeed.
func (e *FutureDateError) Is(target error) bool {
	return target == ErrFutureDate
}

// String formats the birthdate as YYYY-MM-DD.
func (b Birthdate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", b.Year, b.Month, b.Day)
}

// Validate checks that the birthdate is a real calendar date with a four-digit year.
// time.Date normalizes out-of-range values (Feb 30 -> Mar 2), so a date is real
// exactly when its components survive the round trip unchanged.
func (b Birthdate) Validate() error {
	if b.Year < config.MinCalendarYear || b.Year > config.MaxCalendarYear {
		return &InvalidDateError{Birthdate: b}
	}
	if b.Month < 1 || b.Month > 12 || b.Day < 1 || b.Day > 31 {
		return &InvalidDateError{Birthdate: b}
	}
	t := time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != b.Year || int(t.Month()) != b.Month || t.Day() != b.Day {
		return &InvalidDateError{Birthdate: b}
	}
	return nil
}

// Midnight returns the start of the birthdate in the given location.
func (b Birthdate) Midnight(loc *time.Location) time.Time {
	return time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, loc)
}

// BirthdateFromTime extracts the calendar date of t.
func BirthdateFromTime(t time.Time) Birthdate {
	y, m, d := t.Date()
	return Birthdate{Year: y, Month: int(m), Day: d}
}
