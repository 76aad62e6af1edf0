package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/views"
	"golang.org/x/text/message"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#9E9E9E")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle = lipgloss.NewStyle().Width(22).Foreground(muted)
	valueStyle = lipgloss.NewStyle().Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
)

// renderStats lays out one stats card for the terminal. totals may be nil.
func renderStats(dict locale.Dictionary, p *message.Printer, b engine.Birthdate, s engine.LifeStats, totals *views.Totals) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}
	num := func(v int64, unit string) string {
		return p.Sprintf("%d %s", v, unit)
	}

	lines := []string{
		titleStyle.Render(dict.Result.Title),
		b.String(),
		"",
		row(dict.Stats.Age, num(s.AgeYears, dict.Units.Years)),
		row(dict.Stats.Days, num(s.TotalDays, dict.Units.Days)),
		row(dict.Stats.Hours, num(s.TotalHours, dict.Units.Hours)),
		row(dict.Stats.Minutes, num(s.TotalMinutes, dict.Units.Minutes)),
		row(dict.Stats.Seconds, num(s.TotalSeconds, dict.Units.Seconds)),
		row(dict.Stats.Heartbeats, num(s.Heartbeats, dict.Units.Times)),
		row(dict.Stats.Breaths, num(s.Breaths, dict.Units.Times)),
		row(dict.Stats.Sleep, num(s.SleepHours, dict.Units.Hours)),
		row(dict.Stats.Meals, num(s.MealsEaten, dict.Units.Meals)),
		row(dict.Stats.NextBirthday, num(s.DaysUntilNextBirthday, dict.Units.DaysLeft)),
		row(dict.Stats.NextMilestone, p.Sprintf("%d %s (%d %s)", s.NextMilestone, dict.Units.Days, s.DaysUntilNextMilestone, dict.Units.DaysLeft)),
	}

	for _, m := range s.UpcomingMilestones {
		lines = append(lines, row(m.Icon+" "+dict.Milestones[m.LabelKey], num(m.DaysRemaining, dict.Units.DaysLeft)))
	}

	if totals != nil {
		lines = append(lines, "",
			row(dict.ViewCount.TotalViews, p.Sprintf("%d", totals.TotalPageViews)),
			row(dict.ViewCount.TotalCalculations, p.Sprintf("%d", totals.TotalStatsCalculated)),
		)
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
