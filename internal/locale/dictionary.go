package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-lifestats/internal/config"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed locales/*.json
var localeFS embed.FS

// Dictionary is the full set of UI strings for one locale.
// It is a plain value; mutating a copy never affects the Catalog.
type Dictionary struct {
	Locale     Locale            `json:"locale"`
	Meta       MetaText          `json:"meta"`
	Form       FormText          `json:"form"`
	Toast      ToastText         `json:"toast"`
	ViewCount  ViewCountText     `json:"view_count"`
	Result     ResultText        `json:"result"`
	Stats      StatLabels        `json:"stats"`
	Units      UnitLabels        `json:"units"`
	Milestones map[string]string `json:"milestones"`
	Compat     CompatText        `json:"compatibility"`
	Calendar   string            `json:"calendar_name"`
	Footer     string            `json:"footer"`
}

type MetaText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type FormText struct {
	Calculate   string `json:"calculate_button"`
	Calculating string `json:"calculating"`
	PrivacyNote string `json:"privacy_note"`
}

type ToastText struct {
	EnterAllFields      string `json:"enter_all_fields"`
	InvalidDate         string `json:"invalid_date"`
	FutureDate          string `json:"future_date"`
	CalculationFailed   string `json:"calculation_failed"`
	URLCopied           string `json:"url_copied"`
	ImageDownloaded     string `json:"image_downloaded"`
	ImageDownloadFailed string `json:"image_download_failed"`
}

type ViewCountText struct {
	TotalViews        string `json:"total_views"`
	TotalCalculations string `json:"total_calculations"`
}

type ResultText struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type StatLabels struct {
	Age           string `json:"age"`
	Days          string `json:"days"`
	Hours         string `json:"hours"`
	Minutes       string `json:"minutes"`
	Seconds       string `json:"seconds"`
	Heartbeats    string `json:"heartbeats"`
	Breaths       string `json:"breaths"`
	Sleep         string `json:"sleep"`
	Meals         string `json:"meals"`
	NextBirthday  string `json:"next_birthday"`
	NextMilestone string `json:"next_milestone"`
}

type UnitLabels struct {
	Years    string `json:"years"`
	Days     string `json:"days"`
	Hours    string `json:"hours"`
	Minutes  string `json:"minutes"`
	Seconds  string `json:"seconds"`
	Times    string `json:"times"`
	Meals    string `json:"meals"`
	DaysLeft string `json:"days_left"`
}

type CompatText struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Score     string `json:"score"`
	Summary   string `json:"summary"`
	Strengths string `json:"strengths"`
	Cautions  string `json:"cautions"`
	Elements  string `json:"elements"`
	Zodiac    string `json:"zodiac"`
	Advice    string `json:"advice"`
	Failed    string `json:"failed"`
}

// milestoneKeys are the label keys of the milestone table.
var milestoneKeys = []string{
	config.MilestoneKey100,
	config.MilestoneKey200,
	config.MilestoneKey500,
	config.MilestoneKey1000,
	config.MilestoneKey5Years,
}

// Catalog holds the translation bundle loaded from the embedded message files.
// It is safe for concurrent use once built.
type Catalog struct {
	bundle     *i18n.Bundle
	localizers map[Locale]*i18n.Localizer
	loaded     []Locale
}

// NewCatalog loads every embedded active.<lang>.json message file.
func NewCatalog() (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	c := &Catalog{bundle: bundle, localizers: make(map[Locale]*i18n.Localizer)}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		loc, ok := Parse(langCode)
		if !ok {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
		c.loaded = append(c.loaded, loc)
	}

	for _, loc := range Supported() {
		c.localizers[loc] = i18n.NewLocalizer(bundle, loc.String())
	}

	return c, nil
}

// Languages lists the locales that had a message file.
func (c *Catalog) Languages() []Locale {
	out := make([]Locale, len(c.loaded))
	copy(out, c.loaded)
	return out
}

// Translate looks up key for loc, filling templates from data.
// Unknown locales use English; unknown keys come back verbatim.
func (c *Catalog) Translate(loc Locale, key string, data map[string]any) string {
	localizer, ok := c.localizers[loc]
	if !ok {
		localizer = c.localizers[Default]
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, loc.String(),
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		if msg == "" {
			return key
		}
	}
	return msg
}

// Dictionary builds the UI strings of loc. Unknown locales get English.
func (c *Catalog) Dictionary(loc Locale) Dictionary {
	if _, ok := Parse(loc.String()); !ok {
		loc = Default
	}
	t := func(key string) string { return c.Translate(loc, key, nil) }

	milestones := make(map[string]string, len(milestoneKeys))
	for _, k := range milestoneKeys {
		milestones[k] = t(k)
	}

	return Dictionary{
		Locale: loc,
		Meta: MetaText{
			Title:       t(config.TKeyMetaTitle),
			Description: t(config.TKeyMetaDescription),
		},
		Form: FormText{
			Calculate:   t(config.TKeyFormCalculate),
			Calculating: t(config.TKeyFormCalculating),
			PrivacyNote: t(config.TKeyFormPrivacy),
		},
		Toast: ToastText{
			EnterAllFields:      t(config.TKeyToastEnterAll),
			InvalidDate:         t(config.TKeyToastInvalidDate),
			FutureDate:          t(config.TKeyToastFutureDate),
			CalculationFailed:   t(config.TKeyToastCalcFailed),
			URLCopied:           t(config.TKeyToastURLCopied),
			ImageDownloaded:     t(config.TKeyToastImageSaved),
			ImageDownloadFailed: t(config.TKeyToastImageFailed),
		},
		ViewCount: ViewCountText{
			TotalViews:        t(config.TKeyViewTotalViews),
			TotalCalculations: t(config.TKeyViewTotalCalcs),
		},
		Result: ResultText{
			Title:    t(config.TKeyResultTitle),
			Subtitle: t(config.TKeyResultSubtitle),
		},
		Stats: StatLabels{
			Age:           t(config.TKeyStatAge),
			Days:          t(config.TKeyStatDays),
			Hours:         t(config.TKeyStatHours),
			Minutes:       t(config.TKeyStatMinutes),
			Seconds:       t(config.TKeyStatSeconds),
			Heartbeats:    t(config.TKeyStatHeartbeats),
			Breaths:       t(config.TKeyStatBreaths),
			Sleep:         t(config.TKeyStatSleep),
			Meals:         t(config.TKeyStatMeals),
			NextBirthday:  t(config.TKeyStatNextBirthday),
			NextMilestone: t(config.TKeyStatNextMilestone),
		},
		Units: UnitLabels{
			Years:    t(config.TKeyUnitYears),
			Days:     t(config.TKeyUnitDays),
			Hours:    t(config.TKeyUnitHours),
			Minutes:  t(config.TKeyUnitMinutes),
			Seconds:  t(config.TKeyUnitSeconds),
			Times:    t(config.TKeyUnitTimes),
			Meals:    t(config.TKeyUnitMeals),
			DaysLeft: t(config.TKeyUnitDaysLeft),
		},
		Milestones: milestones,
		Compat: CompatText{
			Title:     t(config.TKeyCompatTitle),
			Subtitle:  t(config.TKeyCompatSubtitle),
			Score:     t(config.TKeyCompatScore),
			Summary:   t(config.TKeyCompatSummary),
			Strengths: t(config.TKeyCompatStrengths),
			Cautions:  t(config.TKeyCompatCautions),
			Elements:  t(config.TKeyCompatElements),
			Zodiac:    t(config.TKeyCompatZodiac),
			Advice:    t(config.TKeyCompatAdvice),
			Failed:    t(config.TKeyCompatFailed),
		},
		Calendar: t(config.TKeyCalName),
		Footer:   t(config.TKeyFooterCopyright),
	}
}

// BirthdaySummary formats the calendar title of a birthday.
func (c *Catalog) BirthdaySummary(loc Locale, age int) string {
	return c.Translate(loc, config.TKeyEvtBirthday, map[string]any{"Age": age})
}

// MilestoneSummary formats the calendar title of a day-count milestone.
func (c *Catalog) MilestoneSummary(loc Locale, days int64) string {
	return c.Translate(loc, config.TKeyEvtMilestone, map[string]any{"Days": c.Printer(loc).Sprintf("%d", days)})
}

// Printer returns a number formatter for loc (digit grouping and so on).
func (c *Catalog) Printer(loc Locale) *message.Printer {
	return message.NewPrinter(loc.Tag())
}
