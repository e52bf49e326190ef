package leave

import (
	"context"
	"fmt"
	"time"
)

// HolidaySource yields the non-business holiday dates for a location within
// a range, keyed by ISO date string.
type HolidaySource interface {
	HolidaySet(ctx context.Context, location string, from, to time.Time) (map[string]struct{}, error)
}

type DateRange struct {
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	ResumeDate time.Time `json:"resumeDate"`
	DaysCount  int       `json:"daysCount"`
}

// holidayWindow lazily fetches holiday exclusions, extending the fetched
// range whenever the walk moves past it so far-future holidays are never
// silently treated as working days.
type holidayWindow struct {
	src      HolidaySource
	location string
	set      map[string]struct{}
	from     time.Time
	to       time.Time
	span     int
}

func newHolidayWindow(ctx context.Context, src HolidaySource, location string, start time.Time, span int) (*holidayWindow, error) {
	window := &holidayWindow{
		src:      src,
		location: location,
		set:      map[string]struct{}{},
		from:     start,
		to:       AddDays(start, span),
		span:     span,
	}
	if err := window.fetch(ctx, window.from, window.to); err != nil {
		return nil, err
	}
	return window, nil
}

func (w *holidayWindow) fetch(ctx context.Context, from, to time.Time) error {
	fetched, err := w.src.HolidaySet(ctx, w.location, from, to)
	if err != nil {
		return fmt.Errorf("failed to load holiday calendar: %w", err)
	}
	for key := range fetched {
		w.set[key] = struct{}{}
	}
	return nil
}

func (w *holidayWindow) covers(ctx context.Context, date time.Time) (map[string]struct{}, error) {
	if !date.After(w.to) {
		return w.set, nil
	}
	next := AddDays(w.to, w.span)
	if err := w.fetch(ctx, AddDays(w.to, 1), next); err != nil {
		return nil, err
	}
	w.to = next
	return w.set, nil
}

// ComputeLeaveDates resolves the end and return-to-work dates for a leave
// span. Calendar mode is pure arithmetic; business mode walks forward day by
// day, counting only business days against the location's holiday calendar.
func ComputeLeaveDates(ctx context.Context, src HolidaySource, startDate time.Time, daysCount int, accrualMode, location string) (DateRange, error) {
	if daysCount <= 0 {
		return DateRange{}, ErrInvalidDayCount
	}
	start := TruncateToUTCDay(startDate)

	switch accrualMode {
	case AccrualCalendarDays, "":
		end := AddDays(start, daysCount-1)
		return DateRange{
			StartDate:  start,
			EndDate:    end,
			ResumeDate: AddDays(end, 1),
			DaysCount:  daysCount,
		}, nil
	case AccrualBusinessDays:
		span := daysCount * 4
		if span < 120 {
			span = 120
		}
		window, err := newHolidayWindow(ctx, src, location, start, span)
		if err != nil {
			return DateRange{}, err
		}

		cursor := start
		counted := 0
		var end time.Time
		for {
			set, err := window.covers(ctx, cursor)
			if err != nil {
				return DateRange{}, err
			}
			if IsBusinessDay(cursor, set) {
				counted++
				if counted == daysCount {
					end = cursor
					break
				}
			}
			cursor = AddDays(cursor, 1)
		}

		resume := AddDays(end, 1)
		for {
			set, err := window.covers(ctx, resume)
			if err != nil {
				return DateRange{}, err
			}
			if IsBusinessDay(resume, set) {
				break
			}
			resume = AddDays(resume, 1)
		}

		return DateRange{
			StartDate:  start,
			EndDate:    end,
			ResumeDate: resume,
			DaysCount:  daysCount,
		}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownAccrualMode, accrualMode)
	}
}
