package utils

import (
	"log"
	"time"
)

const DefaultDateFormat = "2006-01-02"

// ParseDate parses a calendar-day string using the default format.
// Logs an error and returns zero time if parsing fails.
func ParseDate(dateStr string) time.Time {
	t, err := time.Parse(DefaultDateFormat, dateStr)
	if err != nil {
		log.Printf("Error parsing date '%s' with format '%s': %v. Returning zero time.", dateStr, DefaultDateFormat, err)
		return time.Time{}
	}
	return t
}

// FormatDate renders a time as a calendar-day string.
func FormatDate(t time.Time) string {
	return t.Format(DefaultDateFormat)
}

// FormatClock renders a time as the 12-hour display string stored on
// transactions and schedules, e.g. "08:30 AM".
func FormatClock(t time.Time) string {
	return t.Format("03:04 PM")
}

// SameMonth reports whether two calendar-day strings fall in the same
// calendar month. Comparison is on the "2006-01" prefix.
func SameMonth(a, b string) bool {
	if len(a) < 7 || len(b) < 7 {
		return false
	}
	return a[:7] == b[:7]
}
