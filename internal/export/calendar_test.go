package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
)

func TestCalendar_Localized(t *testing.T) {
	cat, err := locale.NewCatalog()
	require.NoError(t, err)

	b := engine.Birthdate{Year: 1990, Month: 5, Day: 15}
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		loc      locale.Locale
		birthday string
	}{
		{locale.English, "Birthday (35)"},
		{locale.Korean, "생일 (35세)"},
		{locale.Spanish, "Cumpleaños (35)"},
	}

	for _, tt := range tests {
		t.Run(tt.loc.String(), func(t *testing.T) {
			data, err := Calendar(b, now, cat, tt.loc)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.birthday)
			assert.Contains(t, string(data), cat.Dictionary(tt.loc).Calendar)
		})
	}
}

func TestCalendarOptions_NilCatalog(t *testing.T) {
	opts := CalendarOptions(nil, locale.Korean)
	assert.Empty(t, opts.Name)
	assert.Nil(t, opts.BirthdaySummary)
	assert.Nil(t, opts.MilestoneSummary)
}
