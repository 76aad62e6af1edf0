package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/server"
	"github.com/tartampluch/go-lifestats/internal/storage"
	"github.com/tartampluch/go-lifestats/internal/views"
)

var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

// newTestApp returns an app writing to a buffer, with a frozen clock and no
// log file or keyring access.
func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	a := &app{
		out:          out,
		in:           strings.NewReader(""),
		clock:        engine.FixedClock(testNow),
		logSetup:     func(bool) io.Closer { return nil },
		loadSettings: config.Load,
		storeKey:     func(string) error { return nil },
		deleteKey:    func() error { return nil },
	}
	return a, out
}

func execute(t *testing.T, a *app, args ...string) error {
	t.Helper()
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestVersionFlag(t *testing.T) {
	a, out := newTestApp(t)

	require.NoError(t, execute(t, a, "--version"))
	assert.Equal(t, versionLine(), out.String())
	assert.Contains(t, out.String(), config.AppName)
}

func TestCalc_Local(t *testing.T) {
	tests := []struct {
		lang  string
		label string
		days  string
	}{
		{"en", "Days lived", "12,419"},
		{"ko", "살아온 날", "12,419"},
		{"es", "Días vividos", "12.419"},
		{"fr", "Days lived", "12,419"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			a, out := newTestApp(t)
			require.NoError(t, execute(t, a, "calc", "--year", "1990", "--month", "5", "--day", "15", "--lang", tt.lang))

			text := out.String()
			assert.Contains(t, text, "1990-05-15")
			assert.Contains(t, text, tt.label)
			assert.Contains(t, text, tt.days)
		})
	}
}

func TestCalc_UpcomingMilestones(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, execute(t, a, "calc", "--year", "2024", "--month", "1", "--day", "1"))

	assert.Contains(t, out.String(), config.MilestoneIcon200)
	assert.Contains(t, out.String(), "200 days")
}

func TestCalc_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"Invalid date", []string{"--year", "2023", "--month", "2", "--day", "29"}, engine.ErrInvalidDate},
		{"Future date", []string{"--year", "2030", "--month", "1", "--day", "1"}, engine.ErrFutureDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp(t)
			err := execute(t, a, append([]string{"calc"}, tt.args...)...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("Missing flags", func(t *testing.T) {
		a, _ := newTestApp(t)
		assert.Error(t, execute(t, a, "calc", "--year", "1990"))
	})
}

func TestCalc_Exports(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "card.pdf")
	icsPath := filepath.Join(dir, "feed.ics")

	a, _ := newTestApp(t)
	require.NoError(t, execute(t, a, "calc", "--year", "1990", "--month", "5", "--day", "15",
		"--pdf", pdfPath, "--ics", icsPath))

	pdf, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	ics, err := os.ReadFile(icsPath)
	require.NoError(t, err)
	assert.Contains(t, string(ics), "BEGIN:VCALENDAR")
	assert.Contains(t, string(ics), "Birthday (34)")
}

func TestCalc_Remote(t *testing.T) {
	t.Setenv("LIFESTATS_UPSTREAM_API_KEY", "test-key")

	cat, err := locale.NewCatalog()
	require.NoError(t, err)
	store, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "remote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	backend := server.New("", server.Deps{
		Catalog: cat,
		Views:   views.NewService(store),
		Clock:   engine.FixedClock(testNow),
	})
	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(ts.Close)

	a, out := newTestApp(t)
	require.NoError(t, execute(t, a, "calc", "--year", "1990", "--month", "5", "--day", "15", "--remote", ts.URL))

	text := out.String()
	assert.Contains(t, text, "12,419")
	assert.Contains(t, text, "Total visits")

	totals, err := views.NewService(store).Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.TotalStatsCalculated)
	assert.Equal(t, int64(1), totals.TotalPageViews, "a remote run counts as a visit")
}

func TestCalc_RemoteFailure(t *testing.T) {
	t.Setenv("LIFESTATS_UPSTREAM_API_KEY", "test-key")

	backend := server.New("", server.Deps{Clock: engine.FixedClock(testNow)})
	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(ts.Close)

	a, _ := newTestApp(t)
	err := execute(t, a, "calc", "--year", "1990", "--month", "2", "--day", "30", "--remote", ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrRemoteCalc)
}

func TestShare(t *testing.T) {
	t.Run("Generate", func(t *testing.T) {
		a, out := newTestApp(t)
		require.NoError(t, execute(t, a, "share", "--year", "1990", "--month", "5", "--day", "15",
			"--base-url", "https://lifestats.example"))
		assert.Equal(t, "https://lifestats.example?day=15&month=5&year=1990\n", out.String())
	})

	t.Run("Generate with default base URL", func(t *testing.T) {
		t.Setenv("LIFESTATS_BASE_URL", "https://env.example/ko")
		a, out := newTestApp(t)
		require.NoError(t, execute(t, a, "share", "--year", "1990", "--month", "5", "--day", "15"))
		assert.Equal(t, "https://env.example/ko?day=15&month=5&year=1990\n", out.String())
	})

	t.Run("Parse", func(t *testing.T) {
		a, out := newTestApp(t)
		require.NoError(t, execute(t, a, "share", "https://lifestats.example/en?year=2000&month=2&day=29"))
		assert.Equal(t, "2000-02-29\n", out.String())
	})

	t.Run("Parse without birthdate", func(t *testing.T) {
		a, _ := newTestApp(t)
		err := execute(t, a, "share", "https://lifestats.example/en?year=2000")
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.ErrShareURL)
	})

	t.Run("Invalid date", func(t *testing.T) {
		a, _ := newTestApp(t)
		err := execute(t, a, "share", "--year", "2023", "--month", "2", "--day", "29")
		assert.ErrorIs(t, err, engine.ErrInvalidDate)
	})
}

func TestToken(t *testing.T) {
	t.Run("Set from argument", func(t *testing.T) {
		a, _ := newTestApp(t)
		var stored string
		a.storeKey = func(k string) error { stored = k; return nil }

		require.NoError(t, execute(t, a, "token", "set", "  abc123  "))
		assert.Equal(t, "abc123", stored)
	})

	t.Run("Set from stdin", func(t *testing.T) {
		a, _ := newTestApp(t)
		a.in = strings.NewReader("from-stdin\n")
		var stored string
		a.storeKey = func(k string) error { stored = k; return nil }

		require.NoError(t, execute(t, a, "token", "set"))
		assert.Equal(t, "from-stdin", stored)
	})

	t.Run("Empty key", func(t *testing.T) {
		a, _ := newTestApp(t)
		err := execute(t, a, "token", "set")
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.ErrKeyEmpty)
	})

	t.Run("Delete", func(t *testing.T) {
		a, _ := newTestApp(t)
		called := false
		a.deleteKey = func() error { called = true; return nil }

		require.NoError(t, execute(t, a, "token", "delete"))
		assert.True(t, called)
	})

	t.Run("Keyring failure", func(t *testing.T) {
		a, _ := newTestApp(t)
		boom := errors.New("keyring locked")
		a.deleteKey = func() error { return boom }

		assert.ErrorIs(t, execute(t, a, "token", "delete"), boom)
	})
}

func TestServe_StopsWithContext(t *testing.T) {
	const addr = "127.0.0.1:18098"
	t.Setenv("LIFESTATS_ADDR", addr)
	t.Setenv("LIFESTATS_DB_PATH", filepath.Join(t.TempDir(), "serve.db"))
	t.Setenv("LIFESTATS_OTEL_ENDPOINT", "")

	pinged := make(chan struct{}, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == config.RouteHealth {
			select {
			case pinged <- struct{}{}:
			default:
			}
		}
		w.Header().Set(config.HeaderContentType, config.MimeJSON)
		_, _ = io.WriteString(w, `{"status":"healthy"}`)
	}))
	t.Cleanup(upstream.Close)
	t.Setenv("LIFESTATS_UPSTREAM_URL", upstream.URL)
	t.Setenv("LIFESTATS_UPSTREAM_API_KEY", "test-key")

	a, _ := newTestApp(t)
	root := a.rootCmd()
	root.SetArgs([]string{"serve"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errChan := make(chan error, 1)
	go func() {
		errChan <- root.ExecuteContext(ctx)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + config.RouteHealth)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "serve did not come up")

	select {
	case <-pinged:
	default:
		t.Fatal("serve should check the upstream health before listening")
	}

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
