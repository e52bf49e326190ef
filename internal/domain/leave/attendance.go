package leave

import (
	"context"
	"fmt"
	"time"
)

const (
	AttendanceSet   = "set"
	AttendanceClear = "clear"

	AttendanceOnLeave = "on_leave"
)

// SyncAttendance materializes or clears the daily attendance rows for a
// leave span. Set upserts one on_leave row per calendar day, overwriting
// whatever was recorded for those days; clear removes only on_leave rows in
// range so unrelated attendance survives a reversal.
func (s *Service) SyncAttendance(ctx context.Context, userID string, startDate, endDate time.Time, mode string) error {
	switch mode {
	case AttendanceSet:
		days := SpanDays(startDate, endDate)
		if len(days) == 0 {
			return fmt.Errorf("%w: empty span", ErrInvalidDayCount)
		}
		if err := s.Store.UpsertOnLeaveDays(ctx, userID, days); err != nil {
			return fmt.Errorf("failed to sync attendance: %w", err)
		}
		return nil
	case AttendanceClear:
		if err := s.Store.ClearOnLeaveRange(ctx, userID, startDate, endDate); err != nil {
			return fmt.Errorf("failed to clear attendance: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown attendance sync mode %q", mode)
	}
}
