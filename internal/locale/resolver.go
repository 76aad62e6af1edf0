package locale

import "strings"

// Source records which input decided a Resolution.
type Source string

const (
	SourcePath    Source = "path"
	SourceCookie  Source = "cookie"
	SourceHeader  Source = "header"
	SourceDefault Source = "default"
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	Locale Locale
	Source Source
}

// NeedsRedirect reports whether the caller must redirect to a locale-prefixed path.
func (r Resolution) NeedsRedirect() bool {
	return r.Source != SourcePath
}

// RedirectPath returns the locale-prefixed form of pathname.
func (r Resolution) RedirectPath(pathname string) string {
	return "/" + string(r.Locale) + pathname
}

// Resolve picks the display locale from, in order: a locale path prefix, the
// preference cookie, the Accept-Language header and finally the default.
// It never fails.
func Resolve(pathname, cookieLocale, acceptLanguage string) Resolution {
	if loc, ok := FromPath(pathname); ok {
		return Resolution{Locale: loc, Source: SourcePath}
	}

	if loc, ok := Parse(cookieLocale); ok {
		return Resolution{Locale: loc, Source: SourceCookie}
	}

	// Plain substring match in priority order, so "ko" anywhere in the header wins.
	if acceptLanguage != "" {
		for _, loc := range Supported() {
			if strings.Contains(acceptLanguage, string(loc)) {
				return Resolution{Locale: loc, Source: SourceHeader}
			}
		}
	}

	return Resolution{Locale: Default, Source: SourceDefault}
}

// FromPath reports the locale carried by a path of the form /{loc} or /{loc}/...
func FromPath(pathname string) (Locale, bool) {
	for _, loc := range Supported() {
		prefix := "/" + string(loc)
		if pathname == prefix || strings.HasPrefix(pathname, prefix+"/") {
			return loc, true
		}
	}
	return "", false
}
