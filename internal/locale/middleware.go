package locale

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/tartampluch/go-lifestats/internal/config"
)

type ctxKey struct{}

// WithLocale returns a copy of ctx carrying loc.
func WithLocale(ctx context.Context, loc Locale) context.Context {
	return context.WithValue(ctx, ctxKey{}, loc)
}

// FromContext returns the locale stored by Middleware, or Default.
func FromContext(ctx context.Context) Locale {
	if loc, ok := ctx.Value(ctxKey{}).(Locale); ok {
		return loc
	}
	return Default
}

// Excluded reports whether the middleware leaves pathname alone:
// API routes, the health probe and static files (a dot in the last segment).
func Excluded(pathname string) bool {
	if strings.HasPrefix(pathname, config.RouteAPIPrefix) || pathname == config.RouteHealth {
		return true
	}
	return strings.Contains(path.Base(pathname), ".")
}

// Middleware enforces a locale prefix on page paths. Requests that already carry
// one pass through with the locale stored in their context; the others get a
// 307 to the prefixed path plus the preference cookie.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Excluded(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		var cookieValue string
		if c, err := r.Cookie(config.LocaleCookieName); err == nil {
			cookieValue = c.Value
		}

		res := Resolve(r.URL.Path, cookieValue, r.Header.Get(config.HeaderAcceptLanguage))
		if !res.NeedsRedirect() {
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), res.Locale)))
			return
		}

		target := res.RedirectPath(r.URL.Path)
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		slog.Debug(config.MsgLocaleRedirect,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyPath, r.URL.Path,
			config.LogKeyLang, res.Locale.String(),
			config.LogKeySource, string(res.Source))

		http.SetCookie(w, PreferenceCookie(res.Locale))
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	})
}

// PreferenceCookie builds the cookie that remembers loc for a year.
func PreferenceCookie(loc Locale) *http.Cookie {
	return &http.Cookie{
		Name:     config.LocaleCookieName,
		Value:    loc.String(),
		Path:     config.LocaleCookiePath,
		MaxAge:   int(config.LocaleCookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
}
