package export

import (
	"time"

	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
)

// CalendarOptions localizes the calendar feed for loc.
// A nil catalog keeps the English defaults of the engine.
func CalendarOptions(cat *locale.Catalog, loc locale.Locale) engine.CalendarOptions {
	if cat == nil {
		return engine.CalendarOptions{}
	}
	return engine.CalendarOptions{
		Name:             cat.Dictionary(loc).Calendar,
		BirthdaySummary:  func(age int) string { return cat.BirthdaySummary(loc, age) },
		MilestoneSummary: func(days int64) string { return cat.MilestoneSummary(loc, days) },
	}
}

// Calendar renders the localized iCalendar feed of b.
func Calendar(b engine.Birthdate, now time.Time, cat *locale.Catalog, loc locale.Locale) ([]byte, error) {
	return engine.BuildCalendar(b, now, CalendarOptions(cat, loc))
}
