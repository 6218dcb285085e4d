// Package activity holds the pure daily-log and weekly-history math.
// Nothing here touches storage or the clock; callers pass dates in.
package activity

import "time"

// DateLayout is the ISO date format used for log stamps.
const DateLayout = "2006-01-02"

// Log is a single sport's counter for one day. A log whose Date no longer
// matches the current day reads as zero without being rewritten.
type Log struct {
	Value int    `json:"value"`
	Date  string `json:"date"`
}

// Week is a fixed Monday-first history, one slot per weekday.
type Week [7]int

// ValueForDate returns the logged value if the log was stamped on date,
// otherwise 0. Stale logs are never mutated here.
func ValueForDate(l Log, date string) int {
	if l.Date == date {
		return l.Value
	}
	return 0
}

// DayIndex maps a time to the Monday-first weekday index (Monday=0 … Sunday=6).
func DayIndex(t time.Time) int {
	d := int(t.Weekday())
	if d == 0 {
		return 6
	}
	return d - 1
}

// WeeklyView overlays the live value for today onto the persisted history.
// The persisted week is not modified; saving is a separate, explicit step.
func WeeklyView(persisted Week, liveToday, todayIndex int) Week {
	if todayIndex < 0 || todayIndex > 6 {
		return persisted
	}
	persisted[todayIndex] = liveToday
	return persisted
}

// DayLabels are the chart axis labels, Monday first.
var DayLabels = [7]string{"L", "M", "X", "J", "V", "S", "D"}

// ChartPoint is one day of the weekly progress chart.
type ChartPoint struct {
	Day   string `json:"day"`
	Value int    `json:"value"`
}

// ChartData converts a week into ordered label/value pairs.
func ChartData(week Week) []ChartPoint {
	points := make([]ChartPoint, len(week))
	for i, v := range week {
		points[i] = ChartPoint{Day: DayLabels[i], Value: v}
	}
	return points
}
