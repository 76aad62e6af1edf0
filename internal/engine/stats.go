package engine

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
)

// LifeStats is the full set of derived statistics for one birthdate at one instant.
type LifeStats struct {
	TotalDays              int64 `json:"total_days"`
	TotalHours             int64 `json:"total_hours"`
	TotalMinutes           int64 `json:"total_minutes"`
	TotalSeconds           int64 `json:"total_seconds"`
	Heartbeats             int64 `json:"heartbeats"`
	Breaths                int64 `json:"breaths"`
	SleepHours             int64 `json:"sleep_hours"`
	MealsEaten             int64 `json:"meals_eaten"`
	DaysUntilNextBirthday  int64 `json:"days_until_next_birthday"`
	DaysUntilNextMilestone int64 `json:"days_until_next_milestone"`
	NextMilestone          int64 `json:"next_milestone"`
	AgeYears               int64 `json:"age_years"`

	UpcomingMilestones []MilestoneCountdown `json:"upcoming_milestones,omitempty"`
}

// Compute derives LifeStats for b evaluated at now.
// Birth is taken as local midnight in now's location.
func Compute(b Birthdate, now time.Time) (LifeStats, error) {
	if err := b.Validate(); err != nil {
		return LifeStats{}, err
	}
	if b.Midnight(now.Location()).After(now) {
		return LifeStats{}, &FutureDateError{Birthdate: b, Now: now}
	}

	seconds := elapsedSeconds(b, now)
	minutes := seconds / config.SecondsPerMinute
	hours := seconds / config.SecondsPerHour
	days := seconds / config.SecondsPerDay

	next, untilMilestone := NextMilestone(days)
	_, untilBirthday := nextOccurrence(now, b)

	return LifeStats{
		TotalDays:              days,
		TotalHours:             hours,
		TotalMinutes:           minutes,
		TotalSeconds:           seconds,
		Heartbeats:             minutes * config.HeartRatePerMinute,
		Breaths:                minutes * config.BreathsPerMinute,
		SleepHours:             days * config.SleepHoursPerDay,
		MealsEaten:             days * config.MealsPerDay,
		DaysUntilNextBirthday:  untilBirthday,
		DaysUntilNextMilestone: untilMilestone,
		NextMilestone:          next,
		AgeYears:               ageInYears(b, now),
		UpcomingMilestones:     UpcomingMilestones(days),
	}, nil
}

// elapsedSeconds counts wall-clock seconds from birth midnight to now.
// Both ends are projected onto UTC with the same wall time so DST shifts cancel out.
func elapsedSeconds(b Birthdate, now time.Time) int64 {
	nowWall := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
	secs := nowWall.Unix() - b.Midnight(time.UTC).Unix()
	if secs < 0 {
		return 0
	}
	return secs
}

// ageInYears counts completed years. A Feb 29 birthday completes its year on March 1
// in common years, matching nextOccurrence.
func ageInYears(b Birthdate, now time.Time) int64 {
	age := now.Year() - b.Year
	if int(now.Month()) < b.Month || (int(now.Month()) == b.Month && now.Day() < b.Day) {
		age--
	}
	if age < 0 {
		return 0
	}
	return int64(age)
}

// nextOccurrence returns the next birthday on or after today's calendar date and the
// number of whole days until it.
func nextOccurrence(now time.Time, b Birthdate) (time.Time, int64) {
	currentYear := now.Year()
	todayStart := time.Date(currentYear, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// time.Date normalizes Feb 29 to March 1st when the target year is not a leap year.
	candidate := time.Date(currentYear, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
	if candidate.Before(todayStart) {
		candidate = time.Date(currentYear+1, time.Month(b.Month), b.Day, 0, 0, 0, 0, time.UTC)
	}

	return candidate, int64(candidate.Sub(todayStart) / (24 * time.Hour))
}

// NextBirthday returns the calendar date of the next birthday on or after now's date.
func NextBirthday(b Birthdate, now time.Time) time.Time {
	next, _ := nextOccurrence(now, b)
	return next
}

// Calculator evaluates birthdates against a Clock.
type Calculator struct {
	Clock Clock
}

// Calculate computes the stats for b at the clock's current instant.
func (c *Calculator) Calculate(b Birthdate) (LifeStats, error) {
	stats, err := Compute(b, c.Clock.Now())
	if err != nil {
		slog.Debug(config.MsgStatsComputed,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyDOB, b.String(),
			config.LogKeyError, err)
		return LifeStats{}, err
	}
	slog.Debug(config.MsgStatsComputed,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDOB, b.String(),
		config.LogKeyDays, stats.TotalDays)
	return stats, nil
}
