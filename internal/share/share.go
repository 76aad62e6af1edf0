// Package share encodes a birthdate into a shareable link and reads it back.
package share

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
)

// GenerateURL returns baseURL with the birthdate appended as year/month/day query
// parameters. Existing query parameters on baseURL are kept.
func GenerateURL(baseURL string, b engine.Birthdate) string {
	params := url.Values{}
	params.Set(config.QueryYear, strconv.Itoa(b.Year))
	params.Set(config.QueryMonth, strconv.Itoa(b.Month))
	params.Set(config.QueryDay, strconv.Itoa(b.Day))

	if u, err := url.Parse(baseURL); err == nil {
		q := u.Query()
		for k, v := range params {
			q[k] = v
		}
		u.RawQuery = q.Encode()
		return u.String()
	}
	return baseURL + "?" + params.Encode()
}

// FromQuery extracts a birthdate from query parameters. Any missing, non-numeric
// or out-of-range component makes the result absent; it never errors.
// Day is only checked against 1..31; calendar validity is the calculator's job.
func FromQuery(q url.Values) (engine.Birthdate, bool) {
	year, ok := intParam(q, config.QueryYear)
	if !ok {
		return engine.Birthdate{}, false
	}
	month, ok := intParam(q, config.QueryMonth)
	if !ok || month < 1 || month > 12 {
		return engine.Birthdate{}, false
	}
	day, ok := intParam(q, config.QueryDay)
	if !ok || day < 1 || day > 31 {
		return engine.Birthdate{}, false
	}
	return engine.Birthdate{Year: year, Month: month, Day: day}, true
}

// FromURL parses raw and extracts the birthdate from its query string.
func FromURL(raw string) (engine.Birthdate, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return engine.Birthdate{}, false
	}
	return FromQuery(u.Query())
}

// intParam reads a base-10 integer parameter. Leading digits are accepted the
// way a lenient browser parser would ("15abc" -> 15).
func intParam(q url.Values, key string) (int, bool) {
	raw := strings.TrimSpace(q.Get(key))
	end := 0
	for end < len(raw) && (raw[end] >= '0' && raw[end] <= '9' || end == 0 && (raw[end] == '-' || raw[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
