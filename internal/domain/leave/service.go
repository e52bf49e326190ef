package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Evaluate runs the eligibility rules for a prospective request without
// persisting anything.
func (s *Service) Evaluate(ctx context.Context, userID, leaveTypeID string, startDate time.Time, daysCount int) (EligibilityResult, error) {
	policy, err := s.GetLeavePolicy(ctx, leaveTypeID)
	if err != nil {
		return EligibilityResult{}, err
	}
	leaveType, err := s.Store.LeaveTypeByID(ctx, leaveTypeID)
	if err != nil {
		return EligibilityResult{}, err
	}
	profile, err := s.Store.Profile(ctx, userID)
	if err != nil {
		return EligibilityResult{}, err
	}

	var events []LifeEvent
	if needsLifeEvents(policy) {
		events, err = s.Store.LifeEvents(ctx, userID)
		if err != nil {
			return EligibilityResult{}, fmt.Errorf("failed to load life events: %w", err)
		}
	}

	return EvaluateEligibility(EvaluationInput{
		Policy:        policy,
		Profile:       profile,
		LeaveTypeName: leaveType.Name,
		StartDate:     startDate,
		DaysCount:     daysCount,
		LifeEvents:    events,
		Today:         time.Now(),
	}), nil
}

// ComputeDates resolves end and resume dates for a span under the leave
// type's accrual mode.
func (s *Service) ComputeDates(ctx context.Context, leaveTypeID string, startDate time.Time, daysCount int, location string) (DateRange, error) {
	policy, err := s.GetLeavePolicy(ctx, leaveTypeID)
	if err != nil {
		return DateRange{}, err
	}
	return ComputeLeaveDates(ctx, s.Store, startDate, daysCount, policy.AccrualMode, location)
}

// SubmitInput is a validated submission; dates arrive already parsed.
type SubmitInput struct {
	UserID      string
	LeaveTypeID string
	RelieverID  string
	StartDate   time.Time
	DaysCount   int
	Reason      string
	Location    string
}

// SubmitResult reports what was created so the caller can notify the first
// approver.
type SubmitResult struct {
	RequestID        string
	Request          LeaveRequest
	LeaveTypeName    string
	Eligibility      EligibilityResult
	MissingDocuments []string
}

// SubmitRequest runs the full intake flow: policy resolution, eligibility,
// date computation, then conflict checks and inserts inside one transaction
// so two concurrent submissions cannot both pass the overlap check.
func (s *Service) SubmitRequest(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	policy, err := s.GetLeavePolicy(ctx, in.LeaveTypeID)
	if err != nil {
		return SubmitResult{}, err
	}
	leaveType, err := s.Store.LeaveTypeByID(ctx, in.LeaveTypeID)
	if err != nil {
		return SubmitResult{}, err
	}
	profile, err := s.Store.Profile(ctx, in.UserID)
	if err != nil {
		return SubmitResult{}, err
	}

	var events []LifeEvent
	if needsLifeEvents(policy) {
		events, err = s.Store.LifeEvents(ctx, in.UserID)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("failed to load life events: %w", err)
		}
	}

	verdict := EvaluateEligibility(EvaluationInput{
		Policy:        policy,
		Profile:       profile,
		LeaveTypeName: leaveType.Name,
		StartDate:     in.StartDate,
		DaysCount:     in.DaysCount,
		LifeEvents:    events,
		Today:         time.Now(),
	})
	if verdict.Status == EligibilityStatusNotEligible {
		return SubmitResult{}, fmt.Errorf("%w: %s", ErrNotEligible, verdict.Reason)
	}

	dates, err := ComputeLeaveDates(ctx, s.Store, in.StartDate, in.DaysCount, policy.AccrualMode, in.Location)
	if err != nil {
		return SubmitResult{}, err
	}

	status := StatusPending
	if verdict.Status == EligibilityStatusMissingEvidence {
		status = StatusPendingEvidence
	}

	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback leave submission", slog.String("error", err.Error()))
		}
	}()

	count, err := s.Store.OverlappingRequestsTx(ctx, tx, in.UserID, dates.StartDate, dates.EndDate, "")
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to check for conflicting requests: %w", err)
	}
	if count > 0 {
		return SubmitResult{}, ErrOverlap
	}
	if in.RelieverID != "" {
		count, err = s.Store.OverlappingRequestsTx(ctx, tx, in.RelieverID, dates.StartDate, dates.EndDate, "")
		if err != nil {
			return SubmitResult{}, fmt.Errorf("failed to check reliever availability: %w", err)
		}
		if count > 0 {
			return SubmitResult{}, ErrRelieverUnavailable
		}
	}

	requestID, err := s.Store.InsertRequestTx(ctx, tx, NewRequest{
		UserID:      in.UserID,
		LeaveTypeID: in.LeaveTypeID,
		RelieverID:  in.RelieverID,
		StartDate:   dates.StartDate,
		EndDate:     dates.EndDate,
		ResumeDate:  dates.ResumeDate,
		Days:        dates.DaysCount,
		Reason:      in.Reason,
		Status:      status,
		Stage:       StageReliever,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	if len(verdict.MissingDocuments) > 0 {
		if err := s.Store.InsertEvidenceTx(ctx, tx, requestID, verdict.MissingDocuments); err != nil {
			return SubmitResult{}, fmt.Errorf("failed to record required evidence: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return SubmitResult{}, fmt.Errorf("failed to commit leave submission: %w", err)
	}

	return SubmitResult{
		RequestID: requestID,
		Request: LeaveRequest{
			ID:          requestID,
			UserID:      in.UserID,
			LeaveTypeID: in.LeaveTypeID,
			RelieverID:  in.RelieverID,
			StartDate:   dates.StartDate,
			EndDate:     dates.EndDate,
			ResumeDate:  dates.ResumeDate,
			Days:        dates.DaysCount,
			Reason:      in.Reason,
			Status:      status,
			Stage:       StageReliever,
		},
		LeaveTypeName:    leaveType.Name,
		Eligibility:      verdict,
		MissingDocuments: verdict.MissingDocuments,
	}, nil
}

// DecisionInput records one approver acting at one stage.
type DecisionInput struct {
	RequestID  string
	ApproverID string
	Stage      Stage
	Decision   string
	Comments   string
}

// DecisionResult tells the caller what happened and who to notify next.
type DecisionResult struct {
	Request         LeaveRequest
	Status          string
	Stage           Stage
	Final           bool
	NextApproverIDs []string
}

// DecideStage applies an approver's decision. A rejection at any stage is
// terminal; an approval either advances the request to the next stage or,
// at the HR stage, finalizes it and materializes attendance.
func (s *Service) DecideStage(ctx context.Context, in DecisionInput) (DecisionResult, error) {
	if _, err := ParseStage(string(in.Stage)); err != nil {
		return DecisionResult{}, err
	}
	decision, err := ParseDecision(in.Decision)
	if err != nil {
		return DecisionResult{}, err
	}

	req, err := s.Store.RequestByID(ctx, in.RequestID)
	if err != nil {
		return DecisionResult{}, err
	}
	switch req.Status {
	case StatusPending:
	case StatusPendingEvidence:
		return DecisionResult{}, ErrEvidenceOutstanding
	default:
		return DecisionResult{}, fmt.Errorf("%w: status is %s", ErrInvalidState, req.Status)
	}
	if req.Stage != in.Stage {
		return DecisionResult{}, fmt.Errorf("%w: request is at %s", ErrWrongStage, req.Stage)
	}

	if err := s.Store.InsertApproval(ctx, ApprovalRecord{
		LeaveRequestID: in.RequestID,
		ApproverID:     in.ApproverID,
		ApprovalLevel:  in.Stage.Level(),
		Status:         decision,
		Comments:       in.Comments,
	}); err != nil {
		return DecisionResult{}, fmt.Errorf("failed to record approval: %w", err)
	}

	if decision == DecisionRejected {
		if err := s.Store.UpdateRequestState(ctx, in.RequestID, StatusRejected, ""); err != nil {
			return DecisionResult{}, fmt.Errorf("failed to update request: %w", err)
		}
		req.Status = StatusRejected
		req.Stage = ""
		return DecisionResult{Request: req, Status: StatusRejected, Final: true}, nil
	}

	next, ok := in.Stage.Next()
	if !ok {
		if err := s.Store.UpdateRequestState(ctx, in.RequestID, StatusApproved, ""); err != nil {
			return DecisionResult{}, fmt.Errorf("failed to update request: %w", err)
		}
		if err := s.SyncAttendance(ctx, req.UserID, req.StartDate, req.EndDate, AttendanceSet); err != nil {
			return DecisionResult{}, err
		}
		req.Status = StatusApproved
		req.Stage = ""
		return DecisionResult{Request: req, Status: StatusApproved, Final: true}, nil
	}

	if err := s.Store.UpdateRequestState(ctx, in.RequestID, StatusPending, next); err != nil {
		return DecisionResult{}, fmt.Errorf("failed to update request: %w", err)
	}
	req.Status = StatusPending
	req.Stage = next

	approvers, err := s.nextApprovers(ctx, req.UserID, next)
	if err != nil {
		return DecisionResult{}, err
	}
	return DecisionResult{Request: req, Status: StatusPending, Stage: next, NextApproverIDs: approvers}, nil
}

func (s *Service) nextApprovers(ctx context.Context, requesterID string, stage Stage) ([]string, error) {
	switch stage {
	case StageSupervisor:
		supervisorID, err := s.Store.SupervisorUserID(ctx, requesterID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve supervisor: %w", err)
		}
		if supervisorID == "" {
			return nil, nil
		}
		return []string{supervisorID}, nil
	case StageHR:
		ids, err := s.Store.HRUserIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve HR approvers: %w", err)
		}
		return ids, nil
	default:
		return nil, nil
	}
}

// AttachEvidence marks one required document as submitted. When nothing
// remains outstanding the request moves from pending_evidence back into the
// normal approval flow at its current stage.
func (s *Service) AttachEvidence(ctx context.Context, requestID, documentType, fileName string) (LeaveRequest, error) {
	req, err := s.Store.RequestByID(ctx, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}
	switch req.Status {
	case StatusPending, StatusPendingEvidence:
	default:
		return LeaveRequest{}, fmt.Errorf("%w: status is %s", ErrInvalidState, req.Status)
	}

	updated, err := s.Store.MarkEvidenceSubmitted(ctx, requestID, documentType, fileName)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("failed to record evidence: %w", err)
	}
	if !updated {
		return LeaveRequest{}, fmt.Errorf("%w: %s", ErrEvidenceNotRequired, documentType)
	}

	if req.Status == StatusPendingEvidence {
		outstanding, err := s.Store.OutstandingEvidenceCount(ctx, requestID)
		if err != nil {
			return LeaveRequest{}, fmt.Errorf("failed to count outstanding evidence: %w", err)
		}
		if outstanding == 0 {
			if err := s.Store.UpdateRequestState(ctx, requestID, StatusPending, req.Stage); err != nil {
				return LeaveRequest{}, fmt.Errorf("failed to update request: %w", err)
			}
			req.Status = StatusPending
		}
	}
	return req, nil
}

// CancelRequest withdraws a request. Cancelling an approved request also
// clears the attendance rows its approval created.
func (s *Service) CancelRequest(ctx context.Context, requestID, userID string) (LeaveRequest, error) {
	req, err := s.Store.RequestByID(ctx, requestID)
	if err != nil {
		return LeaveRequest{}, err
	}
	if req.UserID != userID {
		return LeaveRequest{}, ErrRequestNotFound
	}
	switch req.Status {
	case StatusRejected, StatusCancelled:
		return LeaveRequest{}, fmt.Errorf("%w: status is %s", ErrInvalidState, req.Status)
	}

	if req.Status == StatusApproved {
		if err := s.SyncAttendance(ctx, req.UserID, req.StartDate, req.EndDate, AttendanceClear); err != nil {
			return LeaveRequest{}, err
		}
	}
	if err := s.Store.UpdateRequestState(ctx, requestID, StatusCancelled, ""); err != nil {
		return LeaveRequest{}, fmt.Errorf("failed to update request: %w", err)
	}
	req.Status = StatusCancelled
	req.Stage = ""
	return req, nil
}

func (s *Service) GetRequest(ctx context.Context, requestID string) (LeaveRequest, error) {
	return s.Store.RequestByID(ctx, requestID)
}

func (s *Service) ListRequests(ctx context.Context, userID string, limit, offset int) ([]LeaveRequest, int, error) {
	return s.Store.ListRequests(ctx, userID, limit, offset)
}

func (s *Service) ListApprovals(ctx context.Context, requestID string) ([]LeaveApproval, error) {
	return s.Store.ListApprovals(ctx, requestID)
}

func (s *Service) ListEvidence(ctx context.Context, requestID string) ([]EvidenceItem, error) {
	return s.Store.ListEvidence(ctx, requestID)
}

func (s *Service) ListHolidays(ctx context.Context, location string) ([]HolidayCalendarEntry, error) {
	return s.Store.ListHolidays(ctx, location)
}

func (s *Service) CreateHoliday(ctx context.Context, entry HolidayCalendarEntry) (HolidayCalendarEntry, error) {
	id, err := s.Store.CreateHoliday(ctx, entry)
	if err != nil {
		return HolidayCalendarEntry{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	entry.ID = id
	return entry, nil
}

func (s *Service) DeleteHoliday(ctx context.Context, holidayID string) error {
	return s.Store.DeleteHoliday(ctx, holidayID)
}
