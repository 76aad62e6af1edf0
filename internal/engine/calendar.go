package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-lifestats/internal/config"
)

// CalendarOptions carries the localized strings of a calendar feed.
// Nil formatters fall back to plain English.
type CalendarOptions struct {
	Name             string
	BirthdaySummary  func(age int) string
	MilestoneSummary func(days int64) string
}

// BuildCalendar renders an iCalendar document with the next birthday and every
// upcoming milestone of b as all-day events.
func BuildCalendar(b Birthdate, now time.Time, opts CalendarOptions) ([]byte, error) {
	stats, err := Compute(b, now)
	if err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)
	if opts.Name != "" {
		cal.Props.SetText(config.PropXWRCalName, opts.Name)
	}

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	birthdaySummary := opts.BirthdaySummary
	if birthdaySummary == nil {
		birthdaySummary = func(age int) string { return fmt.Sprintf("Birthday (%d)", age) }
	}
	milestoneSummary := opts.MilestoneSummary
	if milestoneSummary == nil {
		milestoneSummary = func(days int64) string { return fmt.Sprintf("Day %d", days) }
	}

	nextBday := NextBirthday(b, now)
	age := nextBday.Year() - b.Year
	events := []*ical.Event{
		newAllDayEvent(b, config.CategoryBirthday, int64(age), nextBday, birthdaySummary(age)),
	}

	// Table milestones first, then the next round 10 000-day mark.
	birth := b.Midnight(time.UTC)
	for _, m := range stats.UpcomingMilestones {
		date := birth.AddDate(0, 0, m.Days)
		events = append(events, newAllDayEvent(b, config.CategoryMilestone, int64(m.Days), date, milestoneSummary(int64(m.Days))))
	}
	markDate := birth.AddDate(0, 0, int(stats.NextMilestone))
	events = append(events, newAllDayEvent(b, config.CategoryMilestone, stats.NextMilestone, markDate, milestoneSummary(stats.NextMilestone)))

	for _, e := range events {
		e.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, e.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDOB, b.String(),
		config.LogKeyCount, len(events))

	return buf.Bytes(), nil
}

// newAllDayEvent builds a VEVENT whose UID is stable for the same birthdate, kind and ordinal,
// so calendar clients update events in place across refreshes.
func newAllDayEvent(b Birthdate, category string, ordinal int64, date time.Time, summary string) *ical.Event {
	name := fmt.Sprintf(config.FormatEventName, category, b.Year, b.Month, b.Day, ordinal, config.ICalDomain)

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String())
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropCategories, category)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(date)
	event.Props.Set(dtStartProp)

	return event
}
