package leave

import "time"

const (
	AccrualCalendarDays = "calendar_days"
	AccrualBusinessDays = "business_days"
)

const (
	EligibilityAll        = "all"
	EligibilityFemaleOnly = "female_only"
	EligibilityMaleOnly   = "male_only"
)

const (
	StatusPending         = "pending"
	StatusPendingEvidence = "pending_evidence"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
	StatusCancelled       = "cancelled"
)

// Document types attached as required evidence.
const (
	DocMedicalConfirmation    = "medical_confirmation"
	DocBirthOrAdoptionProof   = "birth_or_adoption_proof"
	DocBereavementDeclaration = "bereavement_declaration"
	DocAdmissionOrExamLetter  = "admission_or_exam_letter"
	DocMedicalCertificate     = "medical_certificate"
)

// Life event types recorded against an employee.
const (
	EventPregnancy   = "pregnancy"
	EventChildbirth  = "childbirth"
	EventAdoption    = "adoption"
	EventBereavement = "bereavement"
)

const (
	EvidenceStatusRequired  = "required"
	EvidenceStatusSubmitted = "submitted"
)

const DefaultEventWindowDays = 365

type LeaveType struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	MaxDays int    `json:"maxDays"`
}

// EligibilityConditions gates a policy on employee attributes and recorded
// life events. Empty allow-lists mean no restriction.
type EligibilityConditions struct {
	EmploymentTypes        []string `json:"employmentTypes,omitempty"`
	MaritalStatuses        []string `json:"maritalStatuses,omitempty"`
	RequiresChildren       bool     `json:"requiresChildren,omitempty"`
	RequiresPregnancyEvent bool     `json:"requiresPregnancyEvent,omitempty"`
	RequiresBirthEvent     bool     `json:"requiresBirthOrAdoptionEvent,omitempty"`
	RequiresBereavement    bool     `json:"requiresBereavementEvent,omitempty"`
	RequiresStudyPurpose   bool     `json:"requiresStudyPurpose,omitempty"`
	EventWindowDays        int      `json:"eventWindowDays,omitempty"`
}

type FrequencyRules struct {
	MedicalCertificateAfterDays int `json:"medicalCertificateAfterDays,omitempty"`
	MaxDaysPerRequest           int `json:"maxDaysPerRequest,omitempty"`
}

type LeavePolicy struct {
	LeaveTypeID       string                `json:"leaveTypeId"`
	AnnualDays        int                   `json:"annualDays"`
	Eligibility       string                `json:"eligibility"`
	MinTenureMonths   int                   `json:"minTenureMonths"`
	NoticeDays        int                   `json:"noticeDays"`
	AccrualMode       string                `json:"accrualMode"`
	IsActive          bool                  `json:"isActive"`
	Conditions        EligibilityConditions `json:"eligibilityConditions"`
	RequiredDocuments []string              `json:"requiredDocuments"`
	Frequency         FrequencyRules        `json:"frequencyRules"`
	OverrideAllowed   bool                  `json:"overrideAllowed"`
}

// RequesterProfile is a snapshot of the employee making the request,
// supplied per evaluation and never persisted by this package.
type RequesterProfile struct {
	ID              string     `json:"id"`
	Gender          string     `json:"gender"`
	EmploymentDate  *time.Time `json:"employmentDate,omitempty"`
	EmploymentType  string     `json:"employmentType"`
	MaritalStatus   string     `json:"maritalStatus"`
	HasChildren     bool       `json:"hasChildren"`
	PregnancyStatus string     `json:"pregnancyStatus"`
}

type LifeEvent struct {
	EmployeeID string    `json:"employeeId"`
	EventType  string    `json:"eventType"`
	EventDate  time.Time `json:"eventDate"`
}

const (
	EligibilityStatusEligible        = "eligible"
	EligibilityStatusNotEligible     = "not_eligible"
	EligibilityStatusMissingEvidence = "missing_evidence"
)

// EligibilityResult is a verdict, not an error: missing evidence means the
// request needs more information, not that it is invalid.
type EligibilityResult struct {
	Status            string   `json:"status"`
	Reason            string   `json:"reason,omitempty"`
	RequiredDocuments []string `json:"requiredDocuments"`
	MissingDocuments  []string `json:"missingDocuments"`
}

type HolidayCalendarEntry struct {
	ID            string    `json:"id"`
	Location      string    `json:"location"`
	HolidayDate   time.Time `json:"holidayDate"`
	Name          string    `json:"name"`
	IsBusinessDay bool      `json:"isBusinessDay"`
}

type LeaveRequest struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	LeaveTypeID string    `json:"leaveTypeId"`
	RelieverID  string    `json:"relieverId,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	ResumeDate  time.Time `json:"resumeDate"`
	Days        int       `json:"days"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	Stage       Stage     `json:"stage,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type LeaveApproval struct {
	ID             string    `json:"id"`
	LeaveRequestID string    `json:"leaveRequestId"`
	ApproverID     string    `json:"approverId"`
	ApprovalLevel  int       `json:"approvalLevel"`
	Status         string    `json:"status"`
	Comments       string    `json:"comments,omitempty"`
	ApprovedAt     time.Time `json:"approvedAt"`
}

type EvidenceItem struct {
	ID             string     `json:"id"`
	LeaveRequestID string     `json:"leaveRequestId"`
	DocumentType   string     `json:"documentType"`
	Status         string     `json:"status"`
	FileName       string     `json:"fileName,omitempty"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
}
