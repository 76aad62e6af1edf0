// Package locale resolves the display language of a request and serves the
// localized dictionaries shown by every page.
package locale

import (
	"github.com/tartampluch/go-lifestats/internal/config"
	"golang.org/x/text/language"
)

// Locale is one of the supported display languages.
type Locale string

const (
	English Locale = "en"
	Korean  Locale = "ko"
	Spanish Locale = "es"
)

// Default is used when nothing else resolves.
const Default = English

// Supported returns the locales in Accept-Language priority order.
func Supported() []Locale {
	out := make([]Locale, 0, len(config.SupportedLanguages))
	for _, s := range config.SupportedLanguages {
		out = append(out, Locale(s))
	}
	return out
}

// Parse returns the Locale named by s, if supported. Matching is exact.
func Parse(s string) (Locale, bool) {
	for _, l := range config.SupportedLanguages {
		if s == l {
			return Locale(l), true
		}
	}
	return "", false
}

// Tag returns the BCP 47 tag of the locale.
func (l Locale) Tag() language.Tag {
	switch l {
	case Korean:
		return language.Korean
	case Spanish:
		return language.Spanish
	default:
		return language.English
	}
}

func (l Locale) String() string {
	return string(l)
}
