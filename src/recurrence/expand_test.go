package recurrence

import (
	"testing"
	"time"

	"github.com/username/allrounder/backend/src/models"
)

func TestNormalizeCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  int
		want int
	}{
		{raw: 1, want: 1},
		{raw: 12, want: 12},
		{raw: 365, want: 365},
		{raw: 0, want: DefaultCount},
		{raw: -3, want: DefaultCount},
		{raw: 366, want: DefaultCount},
	}
	for _, c := range cases {
		if got := NormalizeCount(c.raw); got != c.want {
			t.Errorf("NormalizeCount(%d) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestNormalizeCountString(t *testing.T) {
	t.Parallel()

	if got := NormalizeCountString("7"); got != 7 {
		t.Fatalf("NormalizeCountString(\"7\") = %d, want 7", got)
	}
	if got := NormalizeCountString("abc"); got != DefaultCount {
		t.Fatalf("NormalizeCountString(\"abc\") = %d, want %d", got, DefaultCount)
	}
	if got := NormalizeCountString(""); got != DefaultCount {
		t.Fatalf("NormalizeCountString(\"\") = %d, want %d", got, DefaultCount)
	}
}

func TestDatesCadences(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	daily := Dates(start, 3, CadenceDaily)
	if daily[2].Format("2006-01-02") != "2025-01-17" {
		t.Fatalf("daily third occurrence = %s, want 2025-01-17", daily[2].Format("2006-01-02"))
	}

	weekly := Dates(start, 3, CadenceWeekly)
	if weekly[2].Format("2006-01-02") != "2025-01-29" {
		t.Fatalf("weekly third occurrence = %s, want 2025-01-29", weekly[2].Format("2006-01-02"))
	}

	monthly := Dates(start, 3, CadenceMonthly)
	if monthly[2].Format("2006-01-02") != "2025-03-15" {
		t.Fatalf("monthly third occurrence = %s, want 2025-03-15", monthly[2].Format("2006-01-02"))
	}
}

func TestDatesMonthlyOverflowNormalizes(t *testing.T) {
	t.Parallel()

	// Jan 31 + 1 month lands in March per time.AddDate normalization.
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	dates := Dates(start, 2, CadenceMonthly)
	if dates[1].Format("2006-01-02") != "2025-03-03" {
		t.Fatalf("overflowed occurrence = %s, want 2025-03-03", dates[1].Format("2006-01-02"))
	}
}

func TestExpandTransaction(t *testing.T) {
	t.Parallel()

	tmpl := models.Transaction{
		ID:       "template",
		Type:     models.TxExpense,
		Date:     "2025-06-01",
		Title:    "헬스장",
		Amount:   60000,
		Category: "쇼핑",
	}

	out := ExpandTransaction(tmpl, 3, CadenceMonthly)
	if len(out) != 3 {
		t.Fatalf("expanded %d copies, want 3", len(out))
	}
	if out[0].Date != "2025-06-01" || out[1].Date != "2025-07-01" || out[2].Date != "2025-08-01" {
		t.Fatalf("unexpected dates: %s %s %s", out[0].Date, out[1].Date, out[2].Date)
	}

	seen := map[string]bool{}
	for _, tx := range out {
		if tx.ID == tmpl.ID || seen[tx.ID] {
			t.Fatalf("copy ids must be fresh and unique, got %q", tx.ID)
		}
		seen[tx.ID] = true
		if tx.Title != tmpl.Title || tx.Amount != tmpl.Amount || tx.Type != tmpl.Type || tx.Category != tmpl.Category {
			t.Fatalf("copy diverged from template: %+v", tx)
		}
	}
}

func TestExpandTransactionSingleCopy(t *testing.T) {
	t.Parallel()

	tmpl := models.Transaction{ID: "template", Type: models.TxIncome, Date: "2025-06-01", Title: "급여", Amount: 100}
	out := ExpandTransaction(tmpl, 1, CadenceDaily)
	if len(out) != 1 {
		t.Fatalf("expanded %d copies, want 1", len(out))
	}
	if out[0].Date != tmpl.Date {
		t.Fatalf("single copy moved the date to %s", out[0].Date)
	}
	if out[0].ID == tmpl.ID {
		t.Fatal("single copy kept the template id")
	}
}

func TestExpandScheduleInvalidCountFallsBack(t *testing.T) {
	t.Parallel()

	tmpl := models.Schedule{ID: "template", Date: "2025-02-10", Title: "주간 회의"}
	out := ExpandSchedule(tmpl, 0, CadenceWeekly)
	if len(out) != DefaultCount {
		t.Fatalf("expanded %d copies, want default %d", len(out), DefaultCount)
	}
	if out[1].Date != "2025-02-17" {
		t.Fatalf("second weekly occurrence = %s, want 2025-02-17", out[1].Date)
	}
}
