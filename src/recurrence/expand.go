// Package recurrence materializes dated copies of a template entry at record
// creation time. Nothing here schedules anything; the caller stores the
// produced entries like any other records.
package recurrence

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/utils"
)

type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// DefaultCount is used whenever the requested repeat count is unusable.
const DefaultCount = 12

// MaxCount caps how many copies one request may materialize.
const MaxCount = 365

// ValidCadence reports whether c is a known cadence.
func ValidCadence(c Cadence) bool {
	return c == CadenceDaily || c == CadenceWeekly || c == CadenceMonthly
}

// NormalizeCount coerces a raw repeat count into [1, MaxCount], falling back
// to DefaultCount instead of erroring on anything unusable.
func NormalizeCount(raw int) int {
	if raw <= 0 || raw > MaxCount {
		return DefaultCount
	}
	return raw
}

// NormalizeCountString is NormalizeCount over an untrusted string field.
func NormalizeCountString(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultCount
	}
	return NormalizeCount(n)
}

// Dates returns count occurrence dates. The first is start itself; occurrence
// i is start shifted by i cadence units via time.AddDate, so calendar
// overflow follows Go's normalization (Jan 31 plus one month lands in early
// March). That rule is deliberate and applied consistently.
func Dates(start time.Time, count int, cadence Cadence) []time.Time {
	count = NormalizeCount(count)
	out := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		switch cadence {
		case CadenceDaily:
			out = append(out, start.AddDate(0, 0, i))
		case CadenceWeekly:
			out = append(out, start.AddDate(0, 0, 7*i))
		default:
			out = append(out, start.AddDate(0, i, 0))
		}
	}
	return out
}

// ExpandTransaction produces count dated copies of the template transaction.
// Each copy gets a fresh id; every other field is taken verbatim from the
// template except the occurrence date.
func ExpandTransaction(tmpl models.Transaction, count int, cadence Cadence) []models.Transaction {
	dates := Dates(utils.ParseDate(tmpl.Date), count, cadence)
	out := make([]models.Transaction, 0, len(dates))
	for _, d := range dates {
		tx := tmpl
		tx.ID = uuid.NewString()
		tx.Date = utils.FormatDate(d)
		out = append(out, tx)
	}
	return out
}

// ExpandSchedule produces count dated copies of the template schedule entry.
func ExpandSchedule(tmpl models.Schedule, count int, cadence Cadence) []models.Schedule {
	dates := Dates(utils.ParseDate(tmpl.Date), count, cadence)
	out := make([]models.Schedule, 0, len(dates))
	for _, d := range dates {
		sc := tmpl
		sc.ID = uuid.NewString()
		sc.Date = utils.FormatDate(d)
		out = append(out, sc)
	}
	return out
}
