package leave

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// StoreAPI is the narrow persistence surface the workflow needs. Services
// depend on it rather than on a concrete store so tests can substitute
// fakes.
type StoreAPI interface {
	HolidaySource

	PolicyByLeaveType(ctx context.Context, leaveTypeID string, includeGovernance bool) (*LeavePolicy, error)
	LeaveTypeByID(ctx context.Context, leaveTypeID string) (LeaveType, error)
	Profile(ctx context.Context, userID string) (RequesterProfile, error)
	LifeEvents(ctx context.Context, employeeID string) ([]LifeEvent, error)

	ListHolidays(ctx context.Context, location string) ([]HolidayCalendarEntry, error)
	CreateHoliday(ctx context.Context, entry HolidayCalendarEntry) (string, error)
	DeleteHoliday(ctx context.Context, holidayID string) error

	OverlappingRequests(ctx context.Context, userID string, startDate, endDate time.Time, excludeRequestID string) (int, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)
	OverlappingRequestsTx(ctx context.Context, tx pgx.Tx, userID string, startDate, endDate time.Time, excludeRequestID string) (int, error)
	InsertRequestTx(ctx context.Context, tx pgx.Tx, req NewRequest) (string, error)
	InsertEvidenceTx(ctx context.Context, tx pgx.Tx, requestID string, documentTypes []string) error

	RequestByID(ctx context.Context, requestID string) (LeaveRequest, error)
	ListRequests(ctx context.Context, userID string, limit, offset int) ([]LeaveRequest, int, error)
	UpdateRequestState(ctx context.Context, requestID, status string, stage Stage) error

	InsertApproval(ctx context.Context, rec ApprovalRecord) error
	ListApprovals(ctx context.Context, requestID string) ([]LeaveApproval, error)

	MarkEvidenceSubmitted(ctx context.Context, requestID, documentType, fileName string) (bool, error)
	OutstandingEvidenceCount(ctx context.Context, requestID string) (int, error)
	ListEvidence(ctx context.Context, requestID string) ([]EvidenceItem, error)

	SupervisorUserID(ctx context.Context, employeeID string) (string, error)
	HRUserIDs(ctx context.Context) ([]string, error)

	UpsertOnLeaveDays(ctx context.Context, userID string, days []time.Time) error
	ClearOnLeaveRange(ctx context.Context, userID string, startDate, endDate time.Time) error
}

// NewRequest is the insert payload for a leave request.
type NewRequest struct {
	UserID      string
	LeaveTypeID string
	RelieverID  string
	StartDate   time.Time
	EndDate     time.Time
	ResumeDate  time.Time
	Days        int
	Reason      string
	Status      string
	Stage       Stage
}

// ApprovalRecord is the append-only decision row for one approval stage.
type ApprovalRecord struct {
	LeaveRequestID string
	ApproverID     string
	ApprovalLevel  int
	Status         string
	Comments       string
}
