package leavehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/audit"
	"peopleops/internal/domain/auth"
	"peopleops/internal/domain/leave"
	"peopleops/internal/domain/notifications"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Service         *leave.Service
	Notify          *notifications.Service
	Audit           *audit.Service
	DefaultLocation string
}

func NewHandler(service *leave.Service, notify *notifications.Service, auditSvc *audit.Service, defaultLocation string) *Handler {
	return &Handler{Service: service, Notify: notify, Audit: auditSvc, DefaultLocation: defaultLocation}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/policies/{leaveTypeID}", h.handleGetPolicy)
		r.Post("/eligibility", h.handleEvaluateEligibility)
		r.Post("/dates", h.handleComputeDates)

		r.Get("/holidays", h.handleListHolidays)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/holidays", h.handleCreateHoliday)
		r.With(middleware.RequireRole(auth.RoleHR)).Delete("/holidays/{holidayID}", h.handleDeleteHoliday)

		r.Get("/requests", h.handleListRequests)
		r.Get("/requests/{requestID}", h.handleGetRequest)
		r.Post("/requests", h.handleSubmitRequest)
		r.Post("/requests/{requestID}/decision", h.handleDecision)
		r.Post("/requests/{requestID}/evidence", h.handleAttachEvidence)
		r.Post("/requests/{requestID}/cancel", h.handleCancelRequest)
	})
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	leaveTypeID := chi.URLParam(r, "leaveTypeID")
	policy, err := h.Service.GetLeavePolicy(r.Context(), leaveTypeID)
	if err != nil {
		h.fail(w, r, err, "failed to load leave policy")
		return
	}
	api.Success(w, policy, middleware.GetRequestID(r.Context()))
}

type eligibilityPayload struct {
	LeaveTypeID string `json:"leaveTypeId"`
	StartDate   string `json:"startDate"`
	DaysCount   int    `json:"daysCount"`
}

func (h *Handler) handleEvaluateEligibility(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	var payload eligibilityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("leaveTypeId", payload.LeaveTypeID, "leave type is required")
	v.Positive("daysCount", payload.DaysCount, "must be a positive number of days")
	start, _ := v.Date("startDate", payload.StartDate)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Service.Evaluate(r.Context(), user.UserID, payload.LeaveTypeID, start, payload.DaysCount)
	if err != nil {
		h.fail(w, r, err, "failed to evaluate eligibility")
		return
	}
	api.Success(w, result, requestID)
}

type datesPayload struct {
	LeaveTypeID string `json:"leaveTypeId"`
	StartDate   string `json:"startDate"`
	DaysCount   int    `json:"daysCount"`
	Location    string `json:"location,omitempty"`
}

func (h *Handler) handleComputeDates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload datesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("leaveTypeId", payload.LeaveTypeID, "leave type is required")
	v.Positive("daysCount", payload.DaysCount, "must be a positive number of days")
	start, _ := v.Date("startDate", payload.StartDate)
	if v.Reject(w, requestID) {
		return
	}

	dates, err := h.Service.ComputeDates(r.Context(), payload.LeaveTypeID, start, payload.DaysCount, h.location(payload.Location))
	if err != nil {
		h.fail(w, r, err, "failed to compute leave dates")
		return
	}
	api.Success(w, dates, requestID)
}

type submitPayload struct {
	LeaveTypeID string `json:"leaveTypeId"`
	RelieverID  string `json:"relieverId,omitempty"`
	StartDate   string `json:"startDate"`
	DaysCount   int    `json:"daysCount"`
	Reason      string `json:"reason,omitempty"`
	Location    string `json:"location,omitempty"`
}

func (h *Handler) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("leaveTypeId", payload.LeaveTypeID, "leave type is required")
	v.Positive("daysCount", payload.DaysCount, "must be a positive number of days")
	start, _ := v.Date("startDate", payload.StartDate)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Service.SubmitRequest(r.Context(), leave.SubmitInput{
		UserID:      user.UserID,
		LeaveTypeID: payload.LeaveTypeID,
		RelieverID:  strings.TrimSpace(payload.RelieverID),
		StartDate:   start,
		DaysCount:   payload.DaysCount,
		Reason:      payload.Reason,
		Location:    h.location(payload.Location),
	})
	if err != nil {
		h.fail(w, r, err, "failed to submit leave request")
		return
	}

	h.record(r, user.UserID, audit.ActionSubmit, "leave_request", result.RequestID, result.Request)

	if result.Request.RelieverID != "" {
		h.notify(r, notifications.Dispatch{
			RecipientIDs: []string{result.Request.RelieverID},
			Type:         notifications.TypeApprovalRequest,
			Priority:     notifications.PriorityHigh,
			Title:        fmt.Sprintf("%s request awaiting your sign-off", result.LeaveTypeName),
			Message: fmt.Sprintf("A %s request for %s to %s needs you to confirm cover before it moves on.",
				result.LeaveTypeName, leave.FormatISODate(result.Request.StartDate), leave.FormatISODate(result.Request.EndDate)),
		})
	}
	if result.Request.Status == leave.StatusPendingEvidence {
		h.notify(r, notifications.Dispatch{
			RecipientIDs: []string{user.UserID},
			Type:         notifications.TypeEvidenceRequested,
			Priority:     notifications.PriorityHigh,
			Title:        "Supporting documents required",
			Message: fmt.Sprintf("Your %s request is on hold until you attach: %s.",
				result.LeaveTypeName, strings.Join(result.MissingDocuments, ", ")),
		})
	}

	api.Created(w, result.Request, requestID)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 20, 100)

	// HR sees everything; everyone else only their own requests.
	scopeUserID := user.UserID
	if user.Role == auth.RoleHR {
		scopeUserID = r.URL.Query().Get("userId")
	}

	requests, total, err := h.Service.ListRequests(r.Context(), scopeUserID, page.Limit, page.Offset)
	if err != nil {
		h.fail(w, r, err, "failed to list leave requests")
		return
	}
	api.Success(w, map[string]any{"items": requests, "total": total}, requestID)
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "requestID")

	req, err := h.Service.GetRequest(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "failed to load leave request")
		return
	}
	if user.Role != auth.RoleHR && req.UserID != user.UserID && req.RelieverID != user.UserID && user.Role != auth.RoleSupervisor {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
		return
	}

	approvals, err := h.Service.ListApprovals(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "failed to load approvals")
		return
	}
	evidence, err := h.Service.ListEvidence(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "failed to load evidence")
		return
	}
	api.Success(w, map[string]any{"request": req, "approvals": approvals, "evidence": evidence}, requestID)
}

type decisionPayload struct {
	Stage    string `json:"stage"`
	Decision string `json:"decision"`
	Comments string `json:"comments,omitempty"`
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "requestID")

	var payload decisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	stage, err := leave.ParseStage(payload.Stage)
	if err != nil {
		h.fail(w, r, err, "unknown approval stage")
		return
	}
	if !h.mayDecide(user, stage) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role for this approval stage", requestID)
		return
	}

	result, err := h.Service.DecideStage(r.Context(), leave.DecisionInput{
		RequestID:  id,
		ApproverID: user.UserID,
		Stage:      stage,
		Decision:   payload.Decision,
		Comments:   payload.Comments,
	})
	if err != nil {
		h.fail(w, r, err, "failed to record decision")
		return
	}

	h.record(r, user.UserID, audit.ActionDecide, "leave_request", id, map[string]any{
		"stage":    string(stage),
		"decision": payload.Decision,
		"status":   result.Status,
	})

	switch {
	case result.Final && result.Status == leave.StatusApproved:
		h.notify(r, notifications.Dispatch{
			RecipientIDs: []string{result.Request.UserID},
			Type:         notifications.TypeLeaveApproved,
			Title:        "Leave request approved",
			Message: fmt.Sprintf("Your leave from %s to %s is approved. Return to work on %s.",
				leave.FormatISODate(result.Request.StartDate), leave.FormatISODate(result.Request.EndDate),
				leave.FormatISODate(result.Request.ResumeDate)),
		})
	case result.Final:
		h.notify(r, notifications.Dispatch{
			RecipientIDs: []string{result.Request.UserID},
			Type:         notifications.TypeLeaveRejected,
			Title:        "Leave request rejected",
			Message:      "Your leave request was rejected. See the approval trail for comments.",
		})
	case len(result.NextApproverIDs) > 0:
		h.notify(r, notifications.Dispatch{
			RecipientIDs: result.NextApproverIDs,
			Type:         notifications.TypeApprovalRequest,
			Priority:     notifications.PriorityHigh,
			Title:        "Leave request awaiting your approval",
			Message: fmt.Sprintf("A leave request from %s to %s has reached your approval stage.",
				leave.FormatISODate(result.Request.StartDate), leave.FormatISODate(result.Request.EndDate)),
		})
	}

	api.Success(w, result.Request, requestID)
}

type evidencePayload struct {
	DocumentType string `json:"documentType"`
	FileName     string `json:"fileName,omitempty"`
}

func (h *Handler) handleAttachEvidence(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "requestID")

	var payload evidencePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("documentType", payload.DocumentType, "document type is required")
	if v.Reject(w, requestID) {
		return
	}

	req, err := h.Service.AttachEvidence(r.Context(), id, payload.DocumentType, payload.FileName)
	if err != nil {
		h.fail(w, r, err, "failed to attach evidence")
		return
	}

	h.record(r, user.UserID, audit.ActionEvidence, "leave_request", id, map[string]any{
		"documentType": payload.DocumentType,
	})
	api.Success(w, req, requestID)
}

func (h *Handler) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "requestID")

	req, err := h.Service.CancelRequest(r.Context(), id, user.UserID)
	if err != nil {
		h.fail(w, r, err, "failed to cancel leave request")
		return
	}

	h.record(r, user.UserID, audit.ActionCancel, "leave_request", id, nil)

	if req.RelieverID != "" {
		h.notify(r, notifications.Dispatch{
			RecipientIDs: []string{req.RelieverID},
			Type:         notifications.TypeLeaveCancelled,
			Title:        "Leave request cancelled",
			Message: fmt.Sprintf("The leave from %s to %s you were covering has been cancelled.",
				leave.FormatISODate(req.StartDate), leave.FormatISODate(req.EndDate)),
		})
	}

	api.Success(w, req, requestID)
}

func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	location := h.location(r.URL.Query().Get("location"))

	holidays, err := h.Service.ListHolidays(r.Context(), location)
	if err != nil {
		h.fail(w, r, err, "failed to list holidays")
		return
	}
	api.Success(w, holidays, requestID)
}

type holidayPayload struct {
	Location      string `json:"location,omitempty"`
	Date          string `json:"date"`
	Name          string `json:"name"`
	IsBusinessDay bool   `json:"isBusinessDay"`
}

func (h *Handler) handleCreateHoliday(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	var payload holidayPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, requestID) {
		return
	}

	entry, err := h.Service.CreateHoliday(r.Context(), leave.HolidayCalendarEntry{
		Location:      h.location(payload.Location),
		HolidayDate:   date,
		Name:          payload.Name,
		IsBusinessDay: payload.IsBusinessDay,
	})
	if err != nil {
		h.fail(w, r, err, "failed to create holiday")
		return
	}
	h.record(r, user.UserID, audit.ActionHolidayAdd, "holiday", entry.ID, entry)
	api.Created(w, entry, requestID)
}

func (h *Handler) handleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "holidayID")

	if err := h.Service.DeleteHoliday(r.Context(), id); err != nil {
		h.fail(w, r, err, "failed to delete holiday")
		return
	}
	h.record(r, user.UserID, audit.ActionHolidayRemove, "holiday", id, nil)
	api.Success(w, map[string]string{"id": id}, requestID)
}

// mayDecide enforces who can act at each stage: anyone signed in can confirm
// cover as a reliever, supervisors and HR can act at the supervisor stage,
// and only HR can finalize.
func (h *Handler) mayDecide(user auth.UserContext, stage leave.Stage) bool {
	switch stage {
	case leave.StageReliever:
		return true
	case leave.StageSupervisor:
		return user.Role == auth.RoleSupervisor || user.Role == auth.RoleHR
	case leave.StageHR:
		return user.Role == auth.RoleHR
	default:
		return false
	}
}

func (h *Handler) location(value string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return h.DefaultLocation
}

func (h *Handler) record(r *http.Request, actorID, action, entityType, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) notify(r *http.Request, d notifications.Dispatch) {
	if h.Notify == nil {
		return
	}
	if err := h.Notify.NotifyUsers(r.Context(), d); err != nil {
		slog.Warn("notification dispatch failed", "type", d.Type, "err", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrLeaveTypeNotFound),
		errors.Is(err, leave.ErrProfileNotFound),
		errors.Is(err, leave.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, leave.ErrNotEligible):
		api.Fail(w, http.StatusUnprocessableEntity, "not_eligible", err.Error(), requestID)
	case errors.Is(err, leave.ErrOverlap):
		api.Fail(w, http.StatusConflict, "overlapping_request", err.Error(), requestID)
	case errors.Is(err, leave.ErrRelieverUnavailable):
		api.Fail(w, http.StatusConflict, "reliever_unavailable", err.Error(), requestID)
	case errors.Is(err, leave.ErrEvidenceNotRequired):
		api.Fail(w, http.StatusNotFound, "evidence_not_required", err.Error(), requestID)
	case errors.Is(err, leave.ErrWrongStage),
		errors.Is(err, leave.ErrInvalidState),
		errors.Is(err, leave.ErrEvidenceOutstanding):
		api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestID)
	case errors.Is(err, leave.ErrInvalidDate),
		errors.Is(err, leave.ErrInvalidDayCount),
		errors.Is(err, leave.ErrUnknownStage),
		errors.Is(err, leave.ErrUnknownDecision),
		errors.Is(err, leave.ErrUnknownAccrualMode):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), requestID)
	default:
		slog.Error(fallback, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", fallback, requestID)
	}
}
