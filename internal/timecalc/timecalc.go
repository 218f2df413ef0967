package timecalc

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar-day key format used for attendance records.
const DateLayout = "2006-01-02"

// ClockLayout is the time-of-day format shown for clock and break times.
const ClockLayout = "15:04:05"

// DateKey returns the YYYY-MM-DD key of the day containing t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatClock formats t as HH:MM:SS, or "--:--:--" when t is nil.
func FormatClock(t *time.Time) string {
	if t == nil {
		return "--:--:--"
	}
	return t.Format(ClockLayout)
}

// ParseClock parses "HH:MM" or "HH:MM:SS" on the given day in day's location.
func ParseClock(day time.Time, s string) (time.Time, error) {
	for _, layout := range []string{"15:04", ClockLayout} {
		if c, err := time.Parse(layout, s); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				c.Hour(), c.Minute(), c.Second(), 0, day.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q (want HH:MM or HH:MM:SS)", s)
}

// WholeMinutes returns the whole minutes from a to b, never negative.
func WholeMinutes(a, b time.Time) int64 {
	m := int64(b.Sub(a) / time.Minute)
	if m < 0 {
		return 0
	}
	return m
}

// WholeSeconds returns the whole seconds from a to b, never negative.
func WholeSeconds(a, b time.Time) int64 {
	s := int64(b.Sub(a) / time.Second)
	if s < 0 {
		return 0
	}
	return s
}

// RoundHours rounds h to two decimals.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatHours formats fractional hours as "7.75h".
func FormatHours(h float64) string {
	return fmt.Sprintf("%.2fh", h)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
