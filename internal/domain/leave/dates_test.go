package leave

import (
	"errors"
	"testing"
	"time"
)

func TestParseISODate(t *testing.T) {
	parsed, err := ParseISODate("2026-03-15")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed.Year() != 2026 || parsed.Month() != time.March || parsed.Day() != 15 {
		t.Fatalf("unexpected date: %v", parsed)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", parsed.Location())
	}
}

func TestParseISODateRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "15/03/2026", "2026-13-01", "march 1"} {
		if _, err := ParseISODate(value); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate for %q, got %v", value, err)
		}
	}
}

func TestDiffMonthsIgnoresDayOfMonth(t *testing.T) {
	from, _ := ParseISODate("2026-01-31")
	to, _ := ParseISODate("2026-02-01")
	if got := DiffMonths(from, to); got != 1 {
		t.Fatalf("expected 1 month, got %d", got)
	}

	from, _ = ParseISODate("2025-06-15")
	to, _ = ParseISODate("2026-06-14")
	if got := DiffMonths(from, to); got != 12 {
		t.Fatalf("expected 12 months, got %d", got)
	}
}

func TestIsBusinessDay(t *testing.T) {
	saturday, _ := ParseISODate("2026-09-05")
	monday, _ := ParseISODate("2026-09-07")
	holidays := map[string]struct{}{"2026-09-07": {}}

	if IsBusinessDay(saturday, nil) {
		t.Fatal("saturday should not be a business day")
	}
	if IsBusinessDay(monday, holidays) {
		t.Fatal("holiday monday should not be a business day")
	}
	if !IsBusinessDay(monday, nil) {
		t.Fatal("plain monday should be a business day")
	}
}

func TestSpanDaysInclusive(t *testing.T) {
	start, _ := ParseISODate("2026-09-01")
	end, _ := ParseISODate("2026-09-03")

	days := SpanDays(start, end)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if !days[0].Equal(start) || !days[2].Equal(end) {
		t.Fatalf("unexpected span: %v", days)
	}
	if SpanDays(end, start) != nil {
		t.Fatal("reversed span should be nil")
	}
}

func TestDiffDays(t *testing.T) {
	from, _ := ParseISODate("2026-09-01")
	to, _ := ParseISODate("2026-09-11")
	if got := DiffDays(from, to); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := DiffDays(to, from); got != -10 {
		t.Fatalf("expected -10, got %d", got)
	}
}
