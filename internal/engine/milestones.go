package engine

import "github.com/tartampluch/go-lifestats/internal/config"

// Milestone is a configured day-count anniversary surfaced as a countdown until reached.
type Milestone struct {
	Days     int    `json:"days"`
	Icon     string `json:"icon"`
	LabelKey string `json:"label_key"`
}

// MilestoneCountdown pairs a milestone with the days left until it is reached.
type MilestoneCountdown struct {
	Milestone
	DaysRemaining int64 `json:"days_remaining"`
}

// milestoneTable is ordered by Days.
var milestoneTable = [...]Milestone{
	{Days: 100, Icon: config.MilestoneIcon100, LabelKey: config.MilestoneKey100},
	{Days: 200, Icon: config.MilestoneIcon200, LabelKey: config.MilestoneKey200},
	{Days: 500, Icon: config.MilestoneIcon500, LabelKey: config.MilestoneKey500},
	{Days: 1000, Icon: config.MilestoneIcon1000, LabelKey: config.MilestoneKey1000},
	{Days: config.DaysPerYear * 5, Icon: config.MilestoneIcon5Years, LabelKey: config.MilestoneKey5Years},
}

// Milestones returns a copy of the milestone table.
func Milestones() []Milestone {
	out := make([]Milestone, len(milestoneTable))
	copy(out, milestoneTable[:])
	return out
}

// UpcomingMilestones lists the table entries not yet reached after totalDays, in table order.
func UpcomingMilestones(totalDays int64) []MilestoneCountdown {
	var upcoming []MilestoneCountdown
	for _, m := range milestoneTable {
		if remaining := int64(m.Days) - totalDays; remaining > 0 {
			upcoming = append(upcoming, MilestoneCountdown{Milestone: m, DaysRemaining: remaining})
		}
	}
	return upcoming
}

// NextMilestone returns the next multiple of config.MilestoneDays strictly after totalDays
// and the days left until it.
func NextMilestone(totalDays int64) (next, daysUntil int64) {
	if totalDays < 0 {
		totalDays = 0
	}
	next = (totalDays/config.MilestoneDays + 1) * config.MilestoneDays
	return next, next - totalDays
}
