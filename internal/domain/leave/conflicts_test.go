package leave

import (
	"context"
	"testing"
	"time"
)

func TestRangesOverlap(t *testing.T) {
	day := func(value string) time.Time {
		parsed, err := ParseISODate(value)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}
		return parsed
	}

	cases := []struct {
		name                       string
		existingStart, existingEnd string
		newStart, newEnd           string
		want                       bool
	}{
		{"disjoint before", "2026-09-01", "2026-09-05", "2026-09-06", "2026-09-10", false},
		{"disjoint after", "2026-09-06", "2026-09-10", "2026-09-01", "2026-09-05", false},
		{"shared boundary day", "2026-09-01", "2026-09-05", "2026-09-05", "2026-09-08", true},
		{"contained", "2026-09-01", "2026-09-10", "2026-09-03", "2026-09-04", true},
		{"containing", "2026-09-03", "2026-09-04", "2026-09-01", "2026-09-10", true},
		{"identical", "2026-09-01", "2026-09-05", "2026-09-01", "2026-09-05", true},
	}

	for _, tc := range cases {
		got := RangesOverlap(day(tc.existingStart), day(tc.existingEnd), day(tc.newStart), day(tc.newEnd))
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestCheckNoOverlap(t *testing.T) {
	start, _ := ParseISODate("2026-09-01")
	end, _ := ParseISODate("2026-09-05")

	svc := NewService(&fakeStore{overlaps: map[string]int{"u1": 1}})
	if err := svc.CheckNoOverlap(context.Background(), "u1", start, end, ""); err != ErrOverlap {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
	if err := svc.CheckNoOverlap(context.Background(), "u2", start, end, ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestCheckRelieverAvailability(t *testing.T) {
	start, _ := ParseISODate("2026-09-01")
	end, _ := ParseISODate("2026-09-05")

	svc := NewService(&fakeStore{overlaps: map[string]int{"rel-1": 2}})
	if err := svc.CheckRelieverAvailability(context.Background(), "rel-1", start, end, ""); err != ErrRelieverUnavailable {
		t.Fatalf("expected ErrRelieverUnavailable, got %v", err)
	}
	if err := svc.CheckRelieverAvailability(context.Background(), "rel-2", start, end, ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
