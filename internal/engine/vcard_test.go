package engine

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vcardNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestStatsFromVCards_Success(t *testing.T) {
	vcardData := "BEGIN:VCARD\nVERSION:3.0\nFN:John Doe\nBDAY:1990-05-15\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nN:Smith;Jane;;;\nBDAY:20000229\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nFN:No Birthday\nEND:VCARD\n"

	contacts, err := StatsFromVCards(context.Background(), strings.NewReader(vcardData), vcardNow)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	assert.Equal(t, "John Doe", contacts[0].Name)
	assert.Equal(t, Birthdate{Year: 1990, Month: 5, Day: 15}, contacts[0].Birthdate)
	assert.Equal(t, int64(12815), contacts[0].Stats.TotalDays)

	assert.Equal(t, "Jane Smith", contacts[1].Name)
	assert.Equal(t, int64(25), contacts[1].Stats.AgeYears)
}

func TestStatsFromVCards_DateFormats(t *testing.T) {
	tests := []struct {
		name     string
		bday     string
		expected *Birthdate
	}{
		{"ISO Extended", "1985-12-25", &Birthdate{1985, 12, 25}},
		{"ISO Basic", "19851225", &Birthdate{1985, 12, 25}},
		{"RFC3339", "1985-12-25T00:00:00Z", &Birthdate{1985, 12, 25}},
		{"No year (extended)", "--12-25", nil},
		{"No year (basic)", "--1225", nil},
		{"Garbage", "not-a-date", nil},
		{"Future", "2030-01-01", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vcardData := "BEGIN:VCARD\nVERSION:3.0\nFN:Test User\nBDAY:" + tt.bday + "\nEND:VCARD\n"

			contacts, err := StatsFromVCards(context.Background(), strings.NewReader(vcardData), vcardNow)
			require.NoError(t, err)

			if tt.expected == nil {
				assert.Empty(t, contacts)
				return
			}
			require.Len(t, contacts, 1)
			assert.Equal(t, *tt.expected, contacts[0].Birthdate)
		})
	}
}

func TestStatsFromVCards_FallbackName(t *testing.T) {
	vcardData := "BEGIN:VCARD\nVERSION:3.0\nBDAY:1990-05-15\nEND:VCARD\n"

	contacts, err := StatsFromVCards(context.Background(), strings.NewReader(vcardData), vcardNow)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Unknown", contacts[0].Name)
}

func TestStatsFromVCards_Empty(t *testing.T) {
	contacts, err := StatsFromVCards(context.Background(), strings.NewReader(""), vcardNow)
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
}

func TestStatsFromVCards_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	vcardData := "BEGIN:VCARD\nVERSION:3.0\nFN:John Doe\nBDAY:1990-05-15\nEND:VCARD\n"
	_, err := StatsFromVCards(ctx, strings.NewReader(vcardData), vcardNow)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatsFromVCards_MalformedStreamFails(t *testing.T) {
	vcardData := "BEGIN:VCARD\nVERSION:3.0\nFN:John Doe\nBDAY:1990-05-15\nEND:VCARD\n" +
		"FN:Orphan Field\nBDAY:1991-01-01\nEND:VCARD\n" +
		"BEGIN:VCARD\nVERSION:3.0\nFN:Jane Doe\nBDAY:1992-02-02\nEND:VCARD\n"

	contacts, err := StatsFromVCards(context.Background(), strings.NewReader(vcardData), vcardNow)
	require.Error(t, err)
	assert.Nil(t, contacts)
	assert.Contains(t, err.Error(), "card 2")
}

func TestStatsFromVCards_ReaderErrorFails(t *testing.T) {
	readErr := errors.New("connection reset")
	r := io.MultiReader(
		strings.NewReader("BEGIN:VCARD\nVERSION:3.0\nFN:John Doe\nBDAY:1990-05-15\nEND:VCARD\nBEGIN:VCARD\n"),
		iotest.ErrReader(readErr),
	)

	_, err := StatsFromVCards(context.Background(), r, vcardNow)
	assert.ErrorIs(t, err, readErr)
}
