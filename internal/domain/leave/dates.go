package leave

import (
	"fmt"
	"time"
)

const isoDateLayout = "2006-01-02"

// ParseISODate parses a YYYY-MM-DD string as UTC midnight.
func ParseISODate(value string) (time.Time, error) {
	parsed, err := time.Parse(isoDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return parsed.UTC(), nil
}

func FormatISODate(date time.Time) string {
	return date.UTC().Format(isoDateLayout)
}

// AddDays offsets by whole days without normalizing across DST; all dates
// in this package are UTC midnights so AddDate is exact.
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// DiffMonths returns the calendar-month difference using UTC year and month
// components only; the day of month is ignored, so Jan 31 to Feb 1 is one
// month.
func DiffMonths(from, to time.Time) int {
	fromUTC := from.UTC()
	toUTC := to.UTC()
	return (toUTC.Year()-fromUTC.Year())*12 + int(toUTC.Month()) - int(fromUTC.Month())
}

func IsWeekend(date time.Time) bool {
	weekday := date.UTC().Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsBusinessDay reports whether date is neither a weekend day nor present in
// the holiday exclusion set (keyed by ISO date string).
func IsBusinessDay(date time.Time, holidaySet map[string]struct{}) bool {
	if IsWeekend(date) {
		return false
	}
	_, excluded := holidaySet[FormatISODate(date)]
	return !excluded
}

// TruncateToUTCDay drops the time-of-day component.
func TruncateToUTCDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// SpanDays returns every calendar day in [start, end] inclusive.
func SpanDays(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	var days []time.Time
	for cursor := TruncateToUTCDay(start); !cursor.After(end); cursor = AddDays(cursor, 1) {
		days = append(days, cursor)
	}
	return days
}
