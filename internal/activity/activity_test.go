package activity

import (
	"testing"
	"time"
)

// TestValueForDate verifies that a log only counts on the day it was stamped.
// A stale log reads as zero without being rewritten.
func TestValueForDate(t *testing.T) {
	l := Log{Value: 42, Date: "2026-08-28"}

	if got := ValueForDate(l, "2026-08-28"); got != 42 {
		t.Errorf("same-day value = %d, want 42", got)
	}
	if got := ValueForDate(l, "2026-08-29"); got != 0 {
		t.Errorf("stale value = %d, want 0", got)
	}
	if l.Value != 42 || l.Date != "2026-08-28" {
		t.Errorf("log mutated: %+v", l)
	}
}

// TestDayIndex verifies the Monday-first weekday mapping, including the
// Sunday wrap to index 6.
func TestDayIndex(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2026-08-24", 0}, // Monday
		{"2026-08-25", 1}, // Tuesday
		{"2026-08-26", 2}, // Wednesday
		{"2026-08-27", 3}, // Thursday
		{"2026-08-28", 4}, // Friday
		{"2026-08-29", 5}, // Saturday
		{"2026-08-30", 6}, // Sunday
	}
	for _, tc := range cases {
		d, err := time.Parse(DateLayout, tc.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := DayIndex(d); got != tc.want {
			t.Errorf("DayIndex(%s) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

// TestWeeklyView verifies the live-today overlay leaves the persisted week
// untouched and only replaces the one slot.
func TestWeeklyView(t *testing.T) {
	persisted := Week{1, 2, 3, 4, 5, 6, 7}

	got := WeeklyView(persisted, 99, 2)
	want := Week{1, 2, 99, 4, 5, 6, 7}
	if got != want {
		t.Errorf("WeeklyView = %v, want %v", got, want)
	}
	if persisted != (Week{1, 2, 3, 4, 5, 6, 7}) {
		t.Errorf("persisted week mutated: %v", persisted)
	}
}

// TestWeeklyViewOutOfRange verifies an invalid today index is ignored.
func TestWeeklyViewOutOfRange(t *testing.T) {
	persisted := Week{1, 2, 3, 4, 5, 6, 7}
	if got := WeeklyView(persisted, 99, 7); got != persisted {
		t.Errorf("WeeklyView with bad index = %v, want %v", got, persisted)
	}
}

// TestChartData verifies the ordered Spanish day labels on the chart.
func TestChartData(t *testing.T) {
	points := ChartData(Week{0, 1, 2, 3, 4, 5, 6})
	if len(points) != 7 {
		t.Fatalf("got %d points, want 7", len(points))
	}

	labels := [7]string{"L", "M", "X", "J", "V", "S", "D"}
	for i, p := range points {
		if p.Day != labels[i] {
			t.Errorf("point %d label = %q, want %q", i, p.Day, labels[i])
		}
		if p.Value != i {
			t.Errorf("point %d value = %d, want %d", i, p.Value, i)
		}
	}
}
