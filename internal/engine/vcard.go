package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-lifestats/internal/config"
)

// ContactStats holds the statistics computed for one vCard contact.
type ContactStats struct {
	Name      string    `json:"name"`
	Birthdate Birthdate `json:"birthdate"`
	Stats     LifeStats `json:"stats"`
}

// StatsFromVCards decodes a vCard stream and computes LifeStats for every contact
// with a usable birthday. Unusable dates are skipped; a stream that cannot be
// decoded to the end fails as a whole.
func StatsFromVCards(ctx context.Context, r io.Reader, now time.Time) ([]ContactStats, error) {
	decoder := vcard.NewDecoder(r)
	var processed int
	results := []ContactStats{}

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The decoder cannot resync after a broken card.
			return nil, fmt.Errorf("%s (card %d): %w", config.ErrVCardParse, processed+1, err)
		}
		processed++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birth, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}

		stats, err := Compute(birth, now)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value,
				config.LogKeyError, err)
			continue
		}

		results = append(results, ContactStats{Name: contactName(card), Birthdate: birth, Stats: stats})
	}

	slog.Info(config.MsgVCardDone,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, processed),
			slog.Int(config.LogKeyFound, len(results)),
		),
	)

	return results, nil
}

// contactName prefers FN over the structured N field.
func contactName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && strings.TrimSpace(fn.Value) != "" {
		return strings.TrimSpace(fn.Value)
	}
	if n := card.Name(); n != nil {
		full := strings.TrimSpace(strings.Join([]string{n.GivenName, n.FamilyName}, " "))
		if full != "" {
			return full
		}
	}
	return config.FallbackName
}

// parseDate accepts the vCard date forms that carry a year.
// Truncated forms such as --MM-DD are rejected since elapsed stats need a year.
func parseDate(value string) (Birthdate, error) {
	formats := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formats {
		if t, err := time.Parse(f, strings.TrimSpace(value)); err == nil {
			return BirthdateFromTime(t), nil
		}
	}

	return Birthdate{}, errors.New(config.ErrDateParse)
}
