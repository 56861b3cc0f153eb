package utils

import (
	"testing"
	"time"
)

func TestParseDateRoundTrip(t *testing.T) {
	t.Parallel()

	parsed := ParseDate("2025-05-10")
	if FormatDate(parsed) != "2025-05-10" {
		t.Fatalf("round trip produced %s", FormatDate(parsed))
	}
	if !ParseDate("10/05/2025").IsZero() {
		t.Fatal("unparsable date must yield zero time")
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()

	morning := time.Date(2025, 5, 10, 8, 30, 0, 0, time.UTC)
	if got := FormatClock(morning); got != "08:30 AM" {
		t.Fatalf("FormatClock = %q, want 08:30 AM", got)
	}
	evening := time.Date(2025, 5, 10, 21, 5, 0, 0, time.UTC)
	if got := FormatClock(evening); got != "09:05 PM" {
		t.Fatalf("FormatClock = %q, want 09:05 PM", got)
	}
}

func TestSameMonth(t *testing.T) {
	t.Parallel()

	if !SameMonth("2025-05-01", "2025-05-31") {
		t.Fatal("dates in the same month must match")
	}
	if SameMonth("2025-05-31", "2025-06-01") {
		t.Fatal("adjacent months must not match")
	}
	if SameMonth("", "2025-06-01") {
		t.Fatal("malformed input must not match")
	}
}
