// Package dates holds calendar-day helpers shared by attendance marking and history filtering.
// A calendar day is always carried as a "YYYY-MM-DD" string.
package dates

import (
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Normalize drops any time-of-day suffix so that "2024-01-05T10:00:00Z" and
// "2024-01-05" compare equal.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		return s[:i]
	}
	return s
}

// Format renders t as a calendar day in t's own location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

func Today(now time.Time) string {
	return Format(now)
}

// IsFuture reports whether day is strictly after the calendar day of now.
// Days are compared as strings, which is safe for the fixed-width layout.
func IsFuture(day string, now time.Time) bool {
	return Normalize(day) > Today(now)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func weekStart(t time.Time) time.Time {
	d := dateOnly(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
