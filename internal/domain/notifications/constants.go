package notifications

const (
	TypeApprovalRequest   = "approval_request"
	TypeLeaveApproved     = "leave_approved"
	TypeLeaveRejected     = "leave_rejected"
	TypeLeaveCancelled    = "leave_cancelled"
	TypeEvidenceRequested = "evidence_requested"
)

const (
	CategoryApprovals = "approvals"

	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

const DefaultLeaveLink = "/dashboard/leave"
