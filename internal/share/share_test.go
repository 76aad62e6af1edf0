package share_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/share"
)

func TestGenerateURL(t *testing.T) {
	got := share.GenerateURL("https://lifestats.example", engine.Birthdate{Year: 1990, Month: 5, Day: 15})
	assert.Equal(t, "https://lifestats.example?day=15&month=5&year=1990", got)

	got = share.GenerateURL("https://lifestats.example/ko/?ref=x", engine.Birthdate{Year: 2000, Month: 2, Day: 29})
	assert.Equal(t, "https://lifestats.example/ko/?day=29&month=2&ref=x&year=2000", got)
}

func TestRoundTrip(t *testing.T) {
	bases := []string{"http://localhost:3050", "https://lifestats.example/es", "https://lifestats.example/ko/?ref=x"}
	tests := []struct {
		name string
		b    engine.Birthdate
	}{
		{"Christmas", engine.Birthdate{Year: 1985, Month: 12, Day: 25}},
		{"Leap day", engine.Birthdate{Year: 2000, Month: 2, Day: 29}},
		{"Single-digit month and day", engine.Birthdate{Year: 2007, Month: 3, Day: 4}},
		{"Earliest API year", engine.Birthdate{Year: 1900, Month: 1, Day: 1}},
		{"Last day of a year", engine.Birthdate{Year: 1999, Month: 12, Day: 31}},
	}

	for _, tt := range tests {
		for _, base := range bases {
			t.Run(tt.name+" "+base, func(t *testing.T) {
				require.NoError(t, tt.b.Validate())
				got, ok := share.FromURL(share.GenerateURL(base, tt.b))
				require.True(t, ok)
				assert.Equal(t, tt.b, got)
			})
		}
	}
}

// TestRoundTrip_EveryDay walks every calendar day of a few common and leap years.
func TestRoundTrip_EveryDay(t *testing.T) {
	for _, year := range []int{1900, 1996, 2000, 2023, 2024} {
		day := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		for day.Year() == year {
			b := engine.BirthdateFromTime(day)
			got, ok := share.FromURL(share.GenerateURL("https://lifestats.example/en", b))
			if !ok || got != b {
				t.Fatalf("round trip of %s gave %s (ok=%v)", b, got, ok)
			}
			day = day.AddDate(0, 0, 1)
		}
	}
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected *engine.Birthdate
	}{
		{"Valid", "year=1990&month=5&day=15", &engine.Birthdate{Year: 1990, Month: 5, Day: 15}},
		{"Leading digits", "year=1990&month=05&day=15abc", &engine.Birthdate{Year: 1990, Month: 5, Day: 15}},
		{"Calendar check is deferred", "year=2023&month=2&day=31", &engine.Birthdate{Year: 2023, Month: 2, Day: 31}},
		{"Month 13", "year=1990&month=13&day=1", nil},
		{"Month 0", "year=1990&month=0&day=1", nil},
		{"Day 32", "year=1990&month=1&day=32", nil},
		{"Non-numeric year", "year=abc&month=1&day=1", nil},
		{"Missing day", "year=1990&month=1", nil},
		{"Empty value", "year=&month=1&day=1", nil},
		{"Nothing", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, ok := share.FromQuery(q)
			if tt.expected == nil {
				assert.False(t, ok)
				assert.Equal(t, engine.Birthdate{}, got)
				return
			}
			require.True(t, ok)
			assert.Equal(t, *tt.expected, got)
		})
	}
}

func TestFromURL_Malformed(t *testing.T) {
	_, ok := share.FromURL("http://[::1]:namedport?year=1990&month=5&day=15")
	assert.False(t, ok)

	_, ok = share.FromURL("/ko?month=13&day=1&year=1990")
	assert.False(t, ok)
}
