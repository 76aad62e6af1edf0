package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-pdf/fpdf"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"golang.org/x/text/message"
)

// Card is everything printed on a stats card.
type Card struct {
	Birthdate engine.Birthdate
	Stats     engine.LifeStats
}

// pdfLocale maps a display locale to one the core PDF fonts can print.
// Hangul is outside cp1252, so Korean cards are printed in English.
func pdfLocale(loc locale.Locale) locale.Locale {
	if loc == locale.Korean {
		return locale.English
	}
	return loc
}

// RenderPDF builds a one-page stats card in the background. Requests that
// cannot start come back already resolved.
func RenderPDF(ctx context.Context, card Card, cat *locale.Catalog, loc locale.Locale) *Future[[]byte] {
	if cat == nil {
		return Resolved[[]byte](nil, errors.New(config.ErrPDFNoCatalog))
	}
	if err := ctx.Err(); err != nil {
		return Resolved[[]byte](nil, err)
	}
	return Go(ctx, func(ctx context.Context) ([]byte, error) {
		loc := pdfLocale(loc)
		data, err := renderCard(card, cat.Dictionary(loc), cat.Printer(loc))
		if err != nil {
			return nil, err
		}
		slog.Debug(config.MsgPDFRendered,
			config.LogKeyComponent, config.CompExport,
			config.LogKeyLang, loc.String(),
			config.LogKeySizeBytes, len(data))
		return data, nil
	})
}

func renderCard(card Card, dict locale.Dictionary, p *message.Printer) ([]byte, error) {
	pdf := fpdf.New(config.PDFOrientation, config.PDFUnit, config.PDFPageSize, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(dict.Result.Title, true)
	pdf.SetCreator(config.AppName, true)
	pdf.AddPage()

	pdf.SetFont(config.PDFFont, config.PDFStyleBold, config.PDFTitleSize)
	pdf.Cell(0, 12, tr(dict.Result.Title))
	pdf.Ln(12)

	pdf.SetFont(config.PDFFont, config.PDFStyleNormal, config.PDFBodySize)
	pdf.Cell(0, config.PDFLineHeight, tr(fmt.Sprintf("%s  (%s)", dict.Result.Subtitle, card.Birthdate)))
	pdf.Ln(14)

	s := card.Stats
	rows := []struct {
		label string
		value int64
		unit  string
	}{
		{dict.Stats.Age, s.AgeYears, dict.Units.Years},
		{dict.Stats.Days, s.TotalDays, dict.Units.Days},
		{dict.Stats.Hours, s.TotalHours, dict.Units.Hours},
		{dict.Stats.Minutes, s.TotalMinutes, dict.Units.Minutes},
		{dict.Stats.Seconds, s.TotalSeconds, dict.Units.Seconds},
		{dict.Stats.Heartbeats, s.Heartbeats, dict.Units.Times},
		{dict.Stats.Breaths, s.Breaths, dict.Units.Times},
		{dict.Stats.Sleep, s.SleepHours, dict.Units.Hours},
		{dict.Stats.Meals, s.MealsEaten, dict.Units.Meals},
		{dict.Stats.NextBirthday, s.DaysUntilNextBirthday, dict.Units.DaysLeft},
	}
	for _, r := range rows {
		pdf.SetFont(config.PDFFont, config.PDFStyleBold, config.PDFBodySize)
		pdf.CellFormat(config.PDFLabelWidth, config.PDFLineHeight, tr(r.label), "", 0, "L", false, 0, "")
		pdf.SetFont(config.PDFFont, config.PDFStyleNormal, config.PDFBodySize)
		pdf.Cell(0, config.PDFLineHeight, tr(p.Sprintf("%d %s", r.value, r.unit)))
		pdf.Ln(config.PDFLineHeight)
	}

	pdf.SetFont(config.PDFFont, config.PDFStyleBold, config.PDFBodySize)
	pdf.CellFormat(config.PDFLabelWidth, config.PDFLineHeight, tr(dict.Stats.NextMilestone), "", 0, "L", false, 0, "")
	pdf.SetFont(config.PDFFont, config.PDFStyleNormal, config.PDFBodySize)
	pdf.Cell(0, config.PDFLineHeight, tr(p.Sprintf("%d %s (%d %s)", s.NextMilestone, dict.Units.Days, s.DaysUntilNextMilestone, dict.Units.DaysLeft)))
	pdf.Ln(config.PDFLineHeight)

	if len(s.UpcomingMilestones) > 0 {
		pdf.Ln(6)
		pdf.SetFont(config.PDFFont, config.PDFStyleBold, config.PDFHeadingSize)
		pdf.Cell(0, 10, tr(dict.Stats.NextMilestone))
		pdf.Ln(10)
		pdf.SetFont(config.PDFFont, config.PDFStyleNormal, config.PDFBodySize)
		for _, m := range s.UpcomingMilestones {
			label := dict.Milestones[m.LabelKey]
			pdf.Cell(0, config.PDFLineHeight, tr(p.Sprintf("- %s: %d %s", label, m.DaysRemaining, dict.Units.DaysLeft)))
			pdf.Ln(config.PDFLineHeight)
		}
	}

	pdf.Ln(10)
	pdf.SetFont(config.PDFFont, config.PDFStyleNormal, config.PDFSmallSize)
	pdf.MultiCell(0, 5, tr(dict.Footer), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPDFRender, err)
	}
	return buf.Bytes(), nil
}
