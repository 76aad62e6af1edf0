package locale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-lifestats/internal/locale"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name           string
		pathname       string
		cookie         string
		acceptLanguage string
		expected       locale.Locale
		source         locale.Source
	}{
		{"Path prefix with subpath", "/ko/blog", "", "", locale.Korean, locale.SourcePath},
		{"Bare path prefix", "/es", "", "", locale.Spanish, locale.SourcePath},
		{"Path wins over cookie", "/en/couple", "ko", "es-ES", locale.English, locale.SourcePath},
		{"Cookie on root", "/", "es", "", locale.Spanish, locale.SourceCookie},
		{"Cookie beats header", "/", "en", "ko-KR", locale.English, locale.SourceCookie},
		{"Unsupported cookie ignored", "/", "fr", "", locale.English, locale.SourceDefault},
		{"Header en-US", "/", "", "en-US,en;q=0.9", locale.English, locale.SourceHeader},
		{"Header priority prefers ko", "/", "", "en-US,en;q=0.9,ko;q=0.8", locale.Korean, locale.SourceHeader},
		{"Header priority prefers es over en", "/", "", "en;q=0.9,es;q=0.5", locale.Spanish, locale.SourceHeader},
		{"Header with no match", "/", "", "fr-FR,de;q=0.8", locale.English, locale.SourceDefault},
		{"Nothing at all", "/about", "", "", locale.English, locale.SourceDefault},
		{"Look-alike prefix is not a locale", "/korea", "", "", locale.English, locale.SourceDefault},
		{"Uppercase path is not a locale", "/KO/blog", "", "", locale.English, locale.SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := locale.Resolve(tt.pathname, tt.cookie, tt.acceptLanguage)
			assert.Equal(t, tt.expected, res.Locale)
			assert.Equal(t, tt.source, res.Source)
			assert.Equal(t, tt.source != locale.SourcePath, res.NeedsRedirect())
		})
	}
}

func TestResolve_RedirectPath(t *testing.T) {
	res := locale.Resolve("/", "es", "")
	assert.True(t, res.NeedsRedirect())
	assert.Equal(t, "/es/", res.RedirectPath("/"))

	res = locale.Resolve("/couple", "", "ko-KR")
	assert.Equal(t, "/ko/couple", res.RedirectPath("/couple"))
}

func TestParse(t *testing.T) {
	for _, s := range []string{"en", "ko", "es"} {
		loc, ok := locale.Parse(s)
		assert.True(t, ok, s)
		assert.Equal(t, s, loc.String())
	}

	for _, s := range []string{"", "EN", "fr", "en-US"} {
		_, ok := locale.Parse(s)
		assert.False(t, ok, s)
	}
}

func TestSupported_Order(t *testing.T) {
	assert.Equal(t, []locale.Locale{locale.Korean, locale.Spanish, locale.English}, locale.Supported())
	assert.Equal(t, locale.English, locale.Default)
}
