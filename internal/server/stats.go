package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/export"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/share"
)

// checkRanges applies the bounds the API accepts before any calendar math.
func checkRanges(b engine.Birthdate, now time.Time) string {
	switch {
	case b.Year < config.MinBirthYear || b.Year > now.Year():
		return config.ErrYearRange
	case b.Month < 1 || b.Month > 12:
		return config.ErrMonthRange
	case b.Day < 1 || b.Day > 31:
		return config.ErrDayRange
	}
	return ""
}

// compute validates b and derives its stats, writing the error response itself on failure.
func (s *Server) compute(w http.ResponseWriter, b engine.Birthdate, now time.Time) (engine.LifeStats, bool) {
	if msg := checkRanges(b, now); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return engine.LifeStats{}, false
	}
	stats, err := engine.Compute(b, now)
	if err != nil {
		writeComputeError(w, err)
		return engine.LifeStats{}, false
	}
	return stats, true
}

func writeComputeError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrInvalidDate) || errors.Is(err, engine.ErrFutureDate) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Error(config.HTTPMsgCalcFailed,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyError, err)
	writeError(w, http.StatusInternalServerError, config.HTTPMsgCalcFailed)
}

// requestLocale picks the display locale of an API call: ?lang first, then the
// usual cookie and Accept-Language resolution.
func requestLocale(r *http.Request) locale.Locale {
	if loc, ok := locale.Parse(r.URL.Query().Get(config.QueryLang)); ok {
		return loc
	}
	var cookie string
	if c, err := r.Cookie(config.LocaleCookieName); err == nil {
		cookie = c.Value
	}
	return locale.Resolve("", cookie, r.Header.Get(config.HeaderAcceptLanguage)).Locale
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var b engine.Birthdate
	if err := decodeJSON(w, r, &b); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, ok := s.compute(w, b, s.deps.Clock.Now())
	if !ok {
		return
	}
	s.recordCalculation(r.Context())
	writeJSON(w, http.StatusOK, stats)
}

// recordCalculation bumps the counter. A storage failure never fails the calculation.
func (s *Server) recordCalculation(ctx context.Context) {
	if s.deps.Views == nil {
		return
	}
	if _, err := s.deps.Views.IncrementStatsCalculated(ctx); err != nil {
		slog.Warn(config.ErrViewCountRecord,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyEvent, config.EventStatsCalculated,
			config.LogKeyError, err)
	}
}

func (s *Server) handleVCard(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, config.MaxVCardBody)
	results, err := engine.StatsFromVCards(r.Context(), body, s.deps.Clock.Now())
	if err != nil {
		slog.Warn(config.ErrVCardParse,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, config.HTTPMsgBodyTooLarge)
		case r.Context().Err() != nil:
			writeError(w, http.StatusInternalServerError, config.HTTPMsgInternalErr)
		default:
			writeError(w, http.StatusBadRequest, config.HTTPMsgBadVCard)
		}
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// handleCalendar serves the iCalendar feed of the birthdate in the query string.
// Feeds are rebuilt once per day and answered with ETag/Last-Modified caching.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	b, ok := share.FromQuery(r.URL.Query())
	if !ok {
		writeError(w, http.StatusBadRequest, config.HTTPMsgNoBirthdate)
		return
	}
	now := s.deps.Clock.Now()
	if msg := checkRanges(b, now); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	loc := requestLocale(r)
	key := b.String() + "|" + loc.String()
	day := now.Format(config.DateFormatFullDash)

	item := s.feeds.load(key, day)
	if item == nil {
		data, err := export.Calendar(b, now, s.deps.Catalog, loc)
		if err != nil {
			writeComputeError(w, err)
			return
		}
		item = s.feeds.update(key, day, data, now)
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if notModified(r, item) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		writeError(w, http.StatusInternalServerError, config.HTTPMsgInternalErr)
		return
	}

	var b engine.Birthdate
	if err := decodeJSON(w, r, &b); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, ok := s.compute(w, b, s.deps.Clock.Now())
	if !ok {
		return
	}

	card := export.Card{Birthdate: b, Stats: stats}
	data, err := export.RenderPDF(r.Context(), card, s.deps.Catalog, requestLocale(r)).Await(r.Context())
	if err != nil {
		slog.Error(config.ErrPDFRender,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
		writeError(w, http.StatusInternalServerError, config.HTTPMsgInternalErr)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimePDF)
	w.Header().Set(config.HeaderContentDisp, fmt.Sprintf(config.FormatPDFFilename, b.Year, b.Month, b.Day))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
