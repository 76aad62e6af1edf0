package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/share"
	"github.com/tartampluch/go-lifestats/internal/views"
)

// PageData is everything a localized page needs to render.
type PageData struct {
	Locale    locale.Locale      `json:"locale"`
	Dict      *locale.Dictionary `json:"dictionary,omitempty"`
	Birthdate *engine.Birthdate  `json:"birthdate,omitempty"`
	Stats     *engine.LifeStats  `json:"stats,omitempty"`
	ShareURL  string             `json:"share_url,omitempty"`
	Views     *views.Totals      `json:"views,omitempty"`
}

// handlePage answers /{lang}[/...] with the dictionary of the locale and, when
// the query carries a shared birthdate, its statistics. It runs behind
// locale.Middleware, which only lets supported locale prefixes through.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	loc := locale.FromContext(r.Context())

	data := PageData{Locale: loc}
	if s.deps.Catalog != nil {
		dict := s.deps.Catalog.Dictionary(loc)
		data.Dict = &dict
	}

	if b, ok := share.FromQuery(r.URL.Query()); ok {
		// A bad shared date just renders the empty form.
		if stats, err := engine.Compute(b, s.deps.Clock.Now()); err == nil {
			data.Birthdate = &b
			data.Stats = &stats
			data.ShareURL = share.GenerateURL(s.deps.BaseURL+"/"+loc.String(), b)
		}
	}

	data.Views = s.totals(r.Context())
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) totals(ctx context.Context) *views.Totals {
	if s.deps.Views == nil {
		return nil
	}
	t, err := s.deps.Views.Totals(ctx)
	if err != nil {
		slog.Debug(config.MsgTotalsMissing,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
		return nil
	}
	return &t
}
