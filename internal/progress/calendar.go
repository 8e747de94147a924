package progress

import (
	"time"

	"github.com/kalambet/readmind/internal/storage"
)

// ActivityLevel classifies a day's total reading minutes for the calendar
// heatmap.
type ActivityLevel string

const (
	ActivityNone   ActivityLevel = "none"
	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
)

// Bucket thresholds are fixed, not configurable.
const (
	highMinutes   = 30
	mediumMinutes = 15
)

// LevelFor maps total minutes to an activity level: >=30 high, 15..29 medium,
// 1..14 low, 0 none.
func LevelFor(minutes int) ActivityLevel {
	switch {
	case minutes >= highMinutes:
		return ActivityHigh
	case minutes >= mediumMinutes:
		return ActivityMedium
	case minutes > 0:
		return ActivityLow
	default:
		return ActivityNone
	}
}

// DayActivity is one calendar cell: a day and the minutes read that day.
type DayActivity struct {
	Date    string        `json:"date"`
	Minutes int           `json:"minutes"`
	Level   ActivityLevel `json:"level"`
}

// MinutesByDay produces one entry per day in [start, end] inclusive, in
// ascending date order, with zero entries for days without sessions. The
// session log is loaded once into a date-keyed map.
func (t *Tracker) MinutesByDay(start, end time.Time) ([]DayActivity, error) {
	sessions, err := t.store.ListSessions()
	if err != nil {
		return nil, err
	}

	minutes := make(map[string]int, len(sessions))
	for _, s := range sessions {
		minutes[s.Date] += s.Minutes
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var days []DayActivity
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format(storage.DateLayout)
		m := minutes[key]
		days = append(days, DayActivity{Date: key, Minutes: m, Level: LevelFor(m)})
	}
	return days, nil
}
