package engine

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCalendarOptions() CalendarOptions {
	return CalendarOptions{
		Name:             "My Life",
		BirthdaySummary:  func(age int) string { return fmt.Sprintf("Turning %d", age) },
		MilestoneSummary: func(days int64) string { return fmt.Sprintf("%d days alive", days) },
	}
}

func TestBuildCalendar_Adult(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	data, err := BuildCalendar(Birthdate{Year: 1990, Month: 5, Day: 15}, now, testCalendarOptions())
	require.NoError(t, err)

	icsStr := string(data)
	assert.Contains(t, icsStr, "BEGIN:VCALENDAR")
	assert.Contains(t, icsStr, "X-WR-CALNAME:My Life")
	assert.Contains(t, icsStr, "REFRESH-INTERVAL")

	// Next birthday plus the next 10 000-day mark; all table milestones are behind.
	assert.Equal(t, 2, strings.Count(icsStr, "BEGIN:VEVENT"))
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20260515")
	assert.Contains(t, icsStr, "SUMMARY:Turning 36")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20450215")
	assert.Contains(t, icsStr, "SUMMARY:20000 days alive")
}

func TestBuildCalendar_Baby(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	data, err := BuildCalendar(Birthdate{Year: 2025, Month: 6, Day: 1}, now, testCalendarOptions())
	require.NoError(t, err)

	icsStr := string(data)
	// Birthday + 5 table milestones + 10 000-day mark.
	assert.Equal(t, 7, strings.Count(icsStr, "BEGIN:VEVENT"))
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20250909", "100 days after June 1st")
	assert.Contains(t, icsStr, "SUMMARY:Turning 1")
}

func TestBuildCalendar_StableUIDs(t *testing.T) {
	birth := Birthdate{Year: 1990, Month: 5, Day: 15}

	first, err := BuildCalendar(birth, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC), CalendarOptions{})
	require.NoError(t, err)
	second, err := BuildCalendar(birth, time.Date(2025, 6, 20, 8, 0, 0, 0, time.UTC), CalendarOptions{})
	require.NoError(t, err)

	uids := func(data []byte) []string {
		cal, err := ical.NewDecoder(strings.NewReader(string(data))).Decode()
		require.NoError(t, err)
		var out []string
		for _, e := range cal.Events() {
			uid, err := e.Props.Text("UID")
			require.NoError(t, err)
			out = append(out, uid)
		}
		return out
	}

	firstUIDs := uids(first)
	require.Len(t, firstUIDs, 2)
	assert.Equal(t, firstUIDs, uids(second))
	assert.NotEqual(t, firstUIDs[0], firstUIDs[1])
}

func TestBuildCalendar_DefaultSummaries(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	data, err := BuildCalendar(Birthdate{Year: 1990, Month: 5, Day: 15}, now, CalendarOptions{})
	require.NoError(t, err)

	icsStr := string(data)
	assert.Contains(t, icsStr, "SUMMARY:Birthday (36)")
	assert.NotContains(t, icsStr, "X-WR-CALNAME")
}

func TestBuildCalendar_RejectsInvalidInput(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	_, err := BuildCalendar(Birthdate{Year: 2025, Month: 2, Day: 30}, now, CalendarOptions{})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = BuildCalendar(Birthdate{Year: 2026, Month: 1, Day: 1}, now, CalendarOptions{})
	assert.ErrorIs(t, err, ErrFutureDate)
}
