package leave

import (
	"context"
	"fmt"
	"time"
)

// Statuses that block a new request over the same dates.
var overlapStatuses = []string{StatusPending, StatusPendingEvidence, StatusApproved}

// RangesOverlap tests inclusive intersection of two date ranges.
func RangesOverlap(existingStart, existingEnd, newStart, newEnd time.Time) bool {
	return !existingStart.After(newEnd) && !existingEnd.Before(newStart)
}

// CheckNoOverlap fails when the user already has a pending, evidence-pending
// or approved request intersecting [startDate, endDate]. excludeRequestID
// skips one request, for edit flows.
func (s *Service) CheckNoOverlap(ctx context.Context, userID string, startDate, endDate time.Time, excludeRequestID string) error {
	count, err := s.Store.OverlappingRequests(ctx, userID, startDate, endDate, excludeRequestID)
	if err != nil {
		return fmt.Errorf("failed to check for conflicting requests: %w", err)
	}
	if count > 0 {
		return ErrOverlap
	}
	return nil
}

// CheckRelieverAvailability applies the same overlap rule to the nominated
// reliever's own requests.
func (s *Service) CheckRelieverAvailability(ctx context.Context, relieverID string, startDate, endDate time.Time, excludeRequestID string) error {
	count, err := s.Store.OverlappingRequests(ctx, relieverID, startDate, endDate, excludeRequestID)
	if err != nil {
		return fmt.Errorf("failed to check reliever availability: %w", err)
	}
	if count > 0 {
		return ErrRelieverUnavailable
	}
	return nil
}
