package leave

import (
	"fmt"
	"strings"
	"time"
)

// EvaluationInput carries everything the evaluator needs so the function
// stays pure: no clock, no store.
type EvaluationInput struct {
	Policy        LeavePolicy
	Profile       RequesterProfile
	LeaveTypeName string
	StartDate     time.Time
	DaysCount     int
	LifeEvents    []LifeEvent
	Today         time.Time
}

// EvaluateEligibility applies the policy's restriction checks in order,
// short-circuiting on the first hard failure, then accumulates evidence
// requirements without short-circuiting so a requester learns every missing
// document at once. The max-days-per-request cap overrides any accumulated
// evidence verdict.
func EvaluateEligibility(in EvaluationInput) EligibilityResult {
	policy := in.Policy

	if reason, ok := checkGender(policy.Eligibility, in.Profile.Gender, in.LeaveTypeName); !ok {
		return notEligible(reason, policy.RequiredDocuments)
	}

	if policy.MinTenureMonths > 0 {
		if in.Profile.EmploymentDate == nil {
			return notEligible(
				fmt.Sprintf("%s requires at least %d months of service, but no employment date is on record", in.LeaveTypeName, policy.MinTenureMonths),
				policy.RequiredDocuments,
			)
		}
		months := DiffMonths(*in.Profile.EmploymentDate, in.StartDate)
		if months < policy.MinTenureMonths {
			return notEligible(
				fmt.Sprintf("%s requires at least %d months of service; you have %d", in.LeaveTypeName, policy.MinTenureMonths, months),
				policy.RequiredDocuments,
			)
		}
	}

	today := TruncateToUTCDay(in.Today)
	earliestStart := AddDays(today, policy.NoticeDays)
	if in.StartDate.Before(earliestStart) {
		return notEligible(
			fmt.Sprintf("%s must be requested at least %d days in advance", in.LeaveTypeName, policy.NoticeDays),
			policy.RequiredDocuments,
		)
	}

	if len(policy.Conditions.EmploymentTypes) > 0 && !containsFold(policy.Conditions.EmploymentTypes, in.Profile.EmploymentType) {
		return notEligible(
			fmt.Sprintf("%s is not available for your employment type", in.LeaveTypeName),
			policy.RequiredDocuments,
		)
	}

	if len(policy.Conditions.MaritalStatuses) > 0 && !containsFold(policy.Conditions.MaritalStatuses, in.Profile.MaritalStatus) {
		return notEligible(
			fmt.Sprintf("%s is restricted by marital status", in.LeaveTypeName),
			policy.RequiredDocuments,
		)
	}

	if policy.Conditions.RequiresChildren && !in.Profile.HasChildren {
		return notEligible(
			fmt.Sprintf("%s is available only to employees with dependent children", in.LeaveTypeName),
			policy.RequiredDocuments,
		)
	}

	required := newDocumentSet(policy.RequiredDocuments)
	missing := newDocumentSet(nil)

	window := policy.Conditions.EventWindowDays
	if window <= 0 {
		window = DefaultEventWindowDays
	}

	if policy.Conditions.RequiresPregnancyEvent {
		satisfied := isPregnancyStatus(in.Profile.PregnancyStatus) ||
			hasEventWithin(in.LifeEvents, in.StartDate, window, EventPregnancy)
		required.add(DocMedicalConfirmation)
		if !satisfied {
			missing.add(DocMedicalConfirmation)
		}
	}

	if policy.Conditions.RequiresBirthEvent {
		required.add(DocBirthOrAdoptionProof)
		if !hasEventWithin(in.LifeEvents, in.StartDate, window, EventChildbirth, EventAdoption) {
			missing.add(DocBirthOrAdoptionProof)
		}
	}

	if policy.Conditions.RequiresBereavement {
		required.add(DocBereavementDeclaration)
		if !hasEventWithin(in.LifeEvents, in.StartDate, window, EventBereavement) {
			missing.add(DocBereavementDeclaration)
		}
	}

	if policy.Conditions.RequiresStudyPurpose {
		// No profile signal can satisfy this one; manual proof is always
		// required.
		required.add(DocAdmissionOrExamLetter)
		missing.add(DocAdmissionOrExamLetter)
	}

	if threshold := policy.Frequency.MedicalCertificateAfterDays; threshold > 0 && in.DaysCount > threshold {
		required.add(DocMedicalCertificate)
		missing.add(DocMedicalCertificate)
	}

	if maxPerRequest := policy.Frequency.MaxDaysPerRequest; maxPerRequest > 0 && in.DaysCount > maxPerRequest {
		return EligibilityResult{
			Status:            EligibilityStatusNotEligible,
			Reason:            fmt.Sprintf("%s allows at most %d days per request", in.LeaveTypeName, maxPerRequest),
			RequiredDocuments: required.values(),
			MissingDocuments:  []string{},
		}
	}

	if missing.len() > 0 {
		return EligibilityResult{
			Status:            EligibilityStatusMissingEvidence,
			Reason:            fmt.Sprintf("additional evidence is required for %s", in.LeaveTypeName),
			RequiredDocuments: required.values(),
			MissingDocuments:  missing.values(),
		}
	}

	return EligibilityResult{
		Status:            EligibilityStatusEligible,
		RequiredDocuments: required.values(),
		MissingDocuments:  []string{},
	}
}

func checkGender(eligibility, gender, leaveTypeName string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(gender))
	if normalized == "" {
		normalized = "unspecified"
	}
	switch eligibility {
	case EligibilityFemaleOnly:
		if normalized != "female" {
			return fmt.Sprintf("%s is available to female employees only", leaveTypeName), false
		}
	case EligibilityMaleOnly:
		if normalized != "male" {
			return fmt.Sprintf("%s is available to male employees only", leaveTypeName), false
		}
	}
	return "", true
}

func isPregnancyStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pregnant", "postpartum":
		return true
	default:
		return false
	}
}

// hasEventWithin reports whether any of the given event types occurred
// within windowDays of the leave start date, on either side.
func hasEventWithin(events []LifeEvent, startDate time.Time, windowDays int, types ...string) bool {
	for _, event := range events {
		matched := false
		for _, eventType := range types {
			if strings.EqualFold(event.EventType, eventType) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		delta := DiffDays(event.EventDate, startDate)
		if delta < 0 {
			delta = -delta
		}
		if delta <= windowDays {
			return true
		}
	}
	return false
}

// DiffDays returns whole days from one UTC midnight to another.
func DiffDays(from, to time.Time) int {
	return int(TruncateToUTCDay(to).Sub(TruncateToUTCDay(from)).Hours() / 24)
}

func containsFold(values []string, candidate string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(candidate)) {
			return true
		}
	}
	return false
}

func notEligible(reason string, baseDocuments []string) EligibilityResult {
	return EligibilityResult{
		Status:            EligibilityStatusNotEligible,
		Reason:            reason,
		RequiredDocuments: newDocumentSet(baseDocuments).values(),
		MissingDocuments:  []string{},
	}
}

// documentSet keeps insertion order while deduplicating, so results are
// deterministic without sorting.
type documentSet struct {
	seen  map[string]struct{}
	order []string
}

func newDocumentSet(initial []string) *documentSet {
	set := &documentSet{seen: make(map[string]struct{}, len(initial))}
	for _, value := range initial {
		set.add(value)
	}
	return set
}

func (s *documentSet) add(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, ok := s.seen[value]; ok {
		return
	}
	s.seen[value] = struct{}{}
	s.order = append(s.order, value)
}

func (s *documentSet) len() int { return len(s.order) }

func (s *documentSet) values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
