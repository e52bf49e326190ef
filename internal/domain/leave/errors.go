package leave

import "errors"

var (
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDayCount     = errors.New("day count must be positive")
	ErrLeaveTypeNotFound   = errors.New("leave type not found")
	ErrProfileNotFound     = errors.New("requester profile not found")
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrNotEligible         = errors.New("not eligible for this leave type")
	ErrOverlap             = errors.New("an overlapping leave request already exists for this period")
	ErrRelieverUnavailable = errors.New("nominated reliever is unavailable for this period")
	ErrUnknownStage        = errors.New("unknown approval stage")
	ErrWrongStage          = errors.New("request is not at this approval stage")
	ErrInvalidState        = errors.New("request is not in a state that allows this action")
	ErrEvidenceOutstanding = errors.New("required evidence is still outstanding")
	ErrEvidenceNotRequired = errors.New("no outstanding evidence of this type")
	ErrUnknownAccrualMode  = errors.New("unknown accrual mode")
	ErrUnknownDecision     = errors.New("decision must be approved or rejected")
)
