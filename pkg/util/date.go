package util

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format, YYYY-MM-DD.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate formats t as YYYY-MM-DD. The zero time formats as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// CalendarDate returns the UTC midnight of t's wall-clock date in t's location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
