package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/zalando/go-keyring"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"LocaleCookieName", config.LocaleCookieName},
		{"MsgPDFRendered", config.MsgPDFRendered},
		{"ErrCompatInvalid", config.ErrCompatInvalid},
		{"ErrPDFNoCatalog", config.ErrPDFNoCatalog},
		{"HTTPMsgBadVCard", config.HTTPMsgBadVCard},
		{"HTTPMsgBodyTooLarge", config.HTTPMsgBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

func TestCalendarYearBounds(t *testing.T) {
	assert.Equal(t, 1, config.MinCalendarYear)
	assert.Equal(t, 9999, config.MaxCalendarYear)
	assert.LessOrEqual(t, config.MinCalendarYear, config.MinBirthYear)
}

// TestRates_Sanity pins the biological rate constants shared with the web frontend.
func TestRates_Sanity(t *testing.T) {
	assert.Equal(t, 72, config.HeartRatePerMinute)
	assert.Equal(t, 15, config.BreathsPerMinute)
	assert.Equal(t, 8, config.SleepHoursPerDay)
	assert.Equal(t, 3, config.MealsPerDay)
	assert.Equal(t, 10000, config.MilestoneDays)
	assert.Equal(t, config.SecondsPerDay, 24*config.SecondsPerHour)
}

// TestLocaleSettings verifies the cookie contract and the priority order.
func TestLocaleSettings(t *testing.T) {
	assert.Equal(t, 365*24*time.Hour, config.LocaleCookieMaxAge)
	assert.Equal(t, []string{"ko", "es", "en"}, config.SupportedLanguages)
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-LifeStats/"))
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second)
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute)
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second)
	assert.Greater(t, config.MaxHTTPResponseSize, 0)
	assert.Greater(t, config.MaxVCardBody, config.MaxRequestBody)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"LIFESTATS_ADDR", "LIFESTATS_CORS_ORIGINS", "LIFESTATS_OTEL_ENDPOINT"} {
		t.Setenv(key, "") // registers restore
		require.NoError(t, os.Unsetenv(key))
	}

	s, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAddr, s.Addr)
	assert.Equal(t, []string{"http://localhost:3050", "http://127.0.0.1:3050"}, s.CORSOrigins)
	assert.Empty(t, s.OTelEndpoint)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LIFESTATS_ADDR", "0.0.0.0:9000")
	t.Setenv("LIFESTATS_UPSTREAM_URL", " https://api.example.com/ ")
	t.Setenv("LIFESTATS_CORS_ORIGINS", "https://a.example,https://b.example")

	s, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", s.Addr)
	assert.Equal(t, "https://api.example.com", s.UpstreamURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.CORSOrigins)
}

func TestResolveAPIKey(t *testing.T) {
	keyring.MockInit()

	t.Run("Env wins", func(t *testing.T) {
		require.NoError(t, config.StoreAPIKey("from-keyring"))
		key, err := config.Settings{UpstreamAPIKey: "from-env"}.ResolveAPIKey()
		require.NoError(t, err)
		assert.Equal(t, "from-env", key)
	})

	t.Run("Keyring fallback", func(t *testing.T) {
		require.NoError(t, config.StoreAPIKey("  from-keyring "))
		key, err := config.Settings{}.ResolveAPIKey()
		require.NoError(t, err)
		assert.Equal(t, "from-keyring", key)
	})

	t.Run("Missing entry is empty", func(t *testing.T) {
		require.NoError(t, config.DeleteAPIKey())
		key, err := config.Settings{}.ResolveAPIKey()
		require.NoError(t, err)
		assert.Empty(t, key)

		// Deleting twice stays quiet.
		assert.NoError(t, config.DeleteAPIKey())
	})
}
