package leave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"peopleops/internal/domain/auth"
)

const governancePolicyQuery = `
    SELECT leave_type_id, annual_days, eligibility, min_tenure_months, notice_days, accrual_mode, is_active,
           COALESCE(eligibility_conditions, '{}'::jsonb),
           COALESCE(required_documents, '{}'),
           COALESCE(frequency_rules, '{}'::jsonb),
           COALESCE(override_allowed, false)
    FROM leave_policies
    WHERE leave_type_id = $1 AND is_active = true
    ORDER BY created_at DESC
    LIMIT 1
  `

const legacyPolicyQuery = `
    SELECT leave_type_id, annual_days, eligibility, min_tenure_months, notice_days, accrual_mode, is_active
    FROM leave_policies
    WHERE leave_type_id = $1 AND is_active = true
    ORDER BY created_at DESC
    LIMIT 1
  `

func (s *Store) PolicyByLeaveType(ctx context.Context, leaveTypeID string, includeGovernance bool) (*LeavePolicy, error) {
	var policy LeavePolicy
	if includeGovernance {
		var conditionsJSON, frequencyJSON []byte
		err := s.DB.QueryRow(ctx, governancePolicyQuery, leaveTypeID).Scan(
			&policy.LeaveTypeID, &policy.AnnualDays, &policy.Eligibility, &policy.MinTenureMonths,
			&policy.NoticeDays, &policy.AccrualMode, &policy.IsActive,
			&conditionsJSON, &policy.RequiredDocuments, &frequencyJSON, &policy.OverrideAllowed,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(conditionsJSON, &policy.Conditions); err != nil {
			return nil, fmt.Errorf("malformed eligibility_conditions for leave type %s: %w", leaveTypeID, err)
		}
		if err := json.Unmarshal(frequencyJSON, &policy.Frequency); err != nil {
			return nil, fmt.Errorf("malformed frequency_rules for leave type %s: %w", leaveTypeID, err)
		}
		return &policy, nil
	}

	err := s.DB.QueryRow(ctx, legacyPolicyQuery, leaveTypeID).Scan(
		&policy.LeaveTypeID, &policy.AnnualDays, &policy.Eligibility, &policy.MinTenureMonths,
		&policy.NoticeDays, &policy.AccrualMode, &policy.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	policy.RequiredDocuments = []string{}
	return &policy, nil
}

func (s *Store) LeaveTypeByID(ctx context.Context, leaveTypeID string) (LeaveType, error) {
	var leaveType LeaveType
	err := s.DB.QueryRow(ctx, `
    SELECT id, code, name, max_days
    FROM leave_types
    WHERE id = $1
  `, leaveTypeID).Scan(&leaveType.ID, &leaveType.Code, &leaveType.Name, &leaveType.MaxDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveType{}, ErrLeaveTypeNotFound
	}
	if err != nil {
		return LeaveType{}, err
	}
	return leaveType, nil
}

func (s *Store) Profile(ctx context.Context, userID string) (RequesterProfile, error) {
	var profile RequesterProfile
	err := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(gender, ''), employment_date, COALESCE(employment_type, ''),
           COALESCE(marital_status, ''), COALESCE(has_children, false), COALESCE(pregnancy_status, 'none')
    FROM profiles
    WHERE id = $1
  `, userID).Scan(
		&profile.ID, &profile.Gender, &profile.EmploymentDate, &profile.EmploymentType,
		&profile.MaritalStatus, &profile.HasChildren, &profile.PregnancyStatus,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return RequesterProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return RequesterProfile{}, err
	}
	return profile, nil
}

func (s *Store) LifeEvents(ctx context.Context, employeeID string) ([]LifeEvent, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, event_type, event_date
    FROM employee_life_events
    WHERE employee_id = $1
    ORDER BY event_date DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []LifeEvent
	for rows.Next() {
		var event LifeEvent
		if err := rows.Scan(&event.EmployeeID, &event.EventType, &event.EventDate); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (s *Store) HolidaySet(ctx context.Context, location string, from, to time.Time) (map[string]struct{}, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT holiday_date
    FROM holiday_calendar
    WHERE location = $1 AND holiday_date >= $2 AND holiday_date <= $3 AND is_business_day = false
  `, location, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := map[string]struct{}{}
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		set[FormatISODate(date)] = struct{}{}
	}
	return set, rows.Err()
}

func (s *Store) ListHolidays(ctx context.Context, location string) ([]HolidayCalendarEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, location, holiday_date, name, is_business_day
    FROM holiday_calendar
    WHERE location = $1
    ORDER BY holiday_date
  `, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HolidayCalendarEntry
	for rows.Next() {
		var entry HolidayCalendarEntry
		if err := rows.Scan(&entry.ID, &entry.Location, &entry.HolidayDate, &entry.Name, &entry.IsBusinessDay); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) CreateHoliday(ctx context.Context, entry HolidayCalendarEntry) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO holiday_calendar (location, holiday_date, name, is_business_day)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, entry.Location, entry.HolidayDate, entry.Name, entry.IsBusinessDay).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) DeleteHoliday(ctx context.Context, holidayID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM holiday_calendar WHERE id = $1", holidayID)
	return err
}

const overlapQuery = `
    SELECT COUNT(1)
    FROM leave_requests
    WHERE user_id = $1
      AND status = ANY($2)
      AND start_date <= $3
      AND end_date >= $4
      AND ($5 = '' OR id::text <> $5)
  `

func (s *Store) OverlappingRequests(ctx context.Context, userID string, startDate, endDate time.Time, excludeRequestID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, overlapQuery, userID, overlapStatuses, endDate, startDate, excludeRequestID).Scan(&count)
	return count, err
}

func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
}

func (s *Store) OverlappingRequestsTx(ctx context.Context, tx pgx.Tx, userID string, startDate, endDate time.Time, excludeRequestID string) (int, error) {
	var count int
	err := tx.QueryRow(ctx, overlapQuery, userID, overlapStatuses, endDate, startDate, excludeRequestID).Scan(&count)
	return count, err
}

func (s *Store) InsertRequestTx(ctx context.Context, tx pgx.Tx, req NewRequest) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
    INSERT INTO leave_requests (user_id, leave_type_id, reliever_id, start_date, end_date, resume_date, days, reason, status, stage)
    VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, req.UserID, req.LeaveTypeID, req.RelieverID, req.StartDate, req.EndDate, req.ResumeDate,
		req.Days, req.Reason, req.Status, string(req.Stage)).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) InsertEvidenceTx(ctx context.Context, tx pgx.Tx, requestID string, documentTypes []string) error {
	batch := &pgx.Batch{}
	for _, documentType := range documentTypes {
		batch.Queue(`
      INSERT INTO leave_evidence (leave_request_id, document_type, status)
      VALUES ($1,$2,$3)
      ON CONFLICT (leave_request_id, document_type) DO NOTHING
    `, requestID, documentType, EvidenceStatusRequired)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range documentTypes {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

func (s *Store) RequestByID(ctx context.Context, requestID string) (LeaveRequest, error) {
	var req LeaveRequest
	var stage string
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, leave_type_id, COALESCE(reliever_id::text, ''), start_date, end_date, resume_date, days,
           COALESCE(reason, ''), status, COALESCE(stage, ''), created_at
    FROM leave_requests
    WHERE id = $1
  `, requestID).Scan(
		&req.ID, &req.UserID, &req.LeaveTypeID, &req.RelieverID, &req.StartDate, &req.EndDate,
		&req.ResumeDate, &req.Days, &req.Reason, &req.Status, &stage, &req.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrRequestNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	req.Stage = Stage(stage)
	return req, nil
}

func (s *Store) ListRequests(ctx context.Context, userID string, limit, offset int) ([]LeaveRequest, int, error) {
	query := `
    SELECT id, user_id, leave_type_id, COALESCE(reliever_id::text, ''), start_date, end_date, resume_date, days,
           COALESCE(reason, ''), status, COALESCE(stage, ''), created_at
    FROM leave_requests
  `
	countQuery := "SELECT COUNT(1) FROM leave_requests"
	args := []any{}
	if userID != "" {
		query += " WHERE user_id = $1"
		countQuery += " WHERE user_id = $1"
		args = append(args, userID)
	}

	var total int
	if err := s.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		var stage string
		if err := rows.Scan(
			&req.ID, &req.UserID, &req.LeaveTypeID, &req.RelieverID, &req.StartDate, &req.EndDate,
			&req.ResumeDate, &req.Days, &req.Reason, &req.Status, &stage, &req.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		req.Stage = Stage(stage)
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}

func (s *Store) UpdateRequestState(ctx context.Context, requestID, status string, stage Stage) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leave_requests SET status = $1, stage = NULLIF($2,''), updated_at = now()
    WHERE id = $3
  `, status, string(stage), requestID)
	return err
}

func (s *Store) InsertApproval(ctx context.Context, rec ApprovalRecord) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_approvals (leave_request_id, approver_id, approval_level, status, comments, approved_at)
    VALUES ($1,$2,$3,$4,NULLIF($5,''),now())
  `, rec.LeaveRequestID, rec.ApproverID, rec.ApprovalLevel, rec.Status, rec.Comments)
	return err
}

func (s *Store) ListApprovals(ctx context.Context, requestID string) ([]LeaveApproval, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, leave_request_id, approver_id, approval_level, status, COALESCE(comments, ''), approved_at
    FROM leave_approvals
    WHERE leave_request_id = $1
    ORDER BY approved_at
  `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []LeaveApproval
	for rows.Next() {
		var approval LeaveApproval
		if err := rows.Scan(
			&approval.ID, &approval.LeaveRequestID, &approval.ApproverID, &approval.ApprovalLevel,
			&approval.Status, &approval.Comments, &approval.ApprovedAt,
		); err != nil {
			return nil, err
		}
		approvals = append(approvals, approval)
	}
	return approvals, rows.Err()
}

func (s *Store) MarkEvidenceSubmitted(ctx context.Context, requestID, documentType, fileName string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_evidence
    SET status = $1, file_name = NULLIF($2,''), submitted_at = now()
    WHERE leave_request_id = $3 AND document_type = $4 AND status = $5
  `, EvidenceStatusSubmitted, fileName, requestID, documentType, EvidenceStatusRequired)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) OutstandingEvidenceCount(ctx context.Context, requestID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM leave_evidence WHERE leave_request_id = $1 AND status = $2
  `, requestID, EvidenceStatusRequired).Scan(&count)
	return count, err
}

func (s *Store) ListEvidence(ctx context.Context, requestID string) ([]EvidenceItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, leave_request_id, document_type, status, COALESCE(file_name, ''), submitted_at
    FROM leave_evidence
    WHERE leave_request_id = $1
    ORDER BY document_type
  `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []EvidenceItem
	for rows.Next() {
		var item EvidenceItem
		if err := rows.Scan(&item.ID, &item.LeaveRequestID, &item.DocumentType, &item.Status, &item.FileName, &item.SubmittedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) SupervisorUserID(ctx context.Context, employeeID string) (string, error) {
	var supervisorID string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(supervisor_id::text, '')
    FROM profiles
    WHERE id = $1
  `, employeeID).Scan(&supervisorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrProfileNotFound
	}
	return supervisorID, err
}

func (s *Store) HRUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id FROM profiles WHERE role = $1", auth.RoleHR)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) UpsertOnLeaveDays(ctx context.Context, userID string, days []time.Time) error {
	batch := &pgx.Batch{}
	for _, day := range days {
		batch.Queue(`
      INSERT INTO attendance_records (user_id, date, status, notes)
      VALUES ($1,$2,$3,$4)
      ON CONFLICT (user_id, date) DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes
    `, userID, day, AttendanceOnLeave, "approved leave")
	}
	results := s.DB.SendBatch(ctx, batch)
	defer results.Close()
	for range days {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

func (s *Store) ClearOnLeaveRange(ctx context.Context, userID string, startDate, endDate time.Time) error {
	_, err := s.DB.Exec(ctx, `
    DELETE FROM attendance_records
    WHERE user_id = $1 AND status = $2 AND date >= $3 AND date <= $4
  `, userID, AttendanceOnLeave, startDate, endDate)
	return err
}
