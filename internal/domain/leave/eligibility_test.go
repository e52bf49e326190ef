package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := ParseISODate(value)
	require.NoError(t, err)
	return parsed
}

func baseInput(t *testing.T) EvaluationInput {
	return EvaluationInput{
		Policy: LeavePolicy{
			LeaveTypeID: "lt-1",
			Eligibility: EligibilityAll,
			AccrualMode: AccrualCalendarDays,
			IsActive:    true,
		},
		Profile:       RequesterProfile{ID: "u1", Gender: "female"},
		LeaveTypeName: "Annual Leave",
		StartDate:     mustDate(t, "2026-10-12"),
		DaysCount:     5,
		Today:         mustDate(t, "2026-09-01"),
	}
}

func TestEvaluateEligibleWithNoRestrictions(t *testing.T) {
	result := EvaluateEligibility(baseInput(t))
	require.Equal(t, EligibilityStatusEligible, result.Status)
	require.Empty(t, result.MissingDocuments)
}

func TestGenderRestrictionBlocks(t *testing.T) {
	in := baseInput(t)
	in.Policy.Eligibility = EligibilityFemaleOnly
	in.LeaveTypeName = "Maternity Leave"
	in.Profile.Gender = "male"

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusNotEligible, result.Status)
	require.Contains(t, result.Reason, "female employees only")
	require.Empty(t, result.MissingDocuments)
}

func TestUnspecifiedGenderFailsRestrictedTypes(t *testing.T) {
	in := baseInput(t)
	in.Policy.Eligibility = EligibilityMaleOnly
	in.Profile.Gender = ""

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusNotEligible, result.Status)
}

func TestZeroMinTenureNeverBlocks(t *testing.T) {
	in := baseInput(t)
	in.Policy.MinTenureMonths = 0
	in.Profile.EmploymentDate = nil

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusEligible, result.Status)
}

func TestTenureRequirementBlocksNewHire(t *testing.T) {
	in := baseInput(t)
	in.Policy.MinTenureMonths = 12
	hired := mustDate(t, "2026-03-01")
	in.Profile.EmploymentDate = &hired

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusNotEligible, result.Status)
	require.Contains(t, result.Reason, "12 months")
}

func TestTenureRequirementWithoutEmploymentDateBlocks(t *testing.T) {
	in := baseInput(t)
	in.Policy.MinTenureMonths = 6
	in.Profile.EmploymentDate = nil

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusNotEligible, result.Status)
}

func TestNoticePeriodBlocksShortNotice(t *testing.T) {
	in := baseInput(t)
	in.Policy.NoticeDays = 60
	in.StartDate = mustDate(t, "2026-09-10")

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusNotEligible, result.Status)
	require.Contains(t, result.Reason, "60 days in advance")
}

func TestEmploymentTypeAllowListIsCaseInsensitive(t *testing.T) {
	in := baseInput(t)
	in.Policy.Conditions.EmploymentTypes = []string{"Permanent", "Contract"}
	in.Profile.EmploymentType = "permanent"

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusEligible, result.Status)
}

func TestPregnancyEvidenceRequiredWhenNoSignal(t *testing.T) {
	in := baseInput(t)
	in.LeaveTypeName = "Maternity Leave"
	in.Policy.Eligibility = EligibilityFemaleOnly
	in.Policy.Conditions.RequiresPregnancyEvent = true
	in.Profile.PregnancyStatus = "none"

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusMissingEvidence, result.Status)
	require.Equal(t, []string{DocMedicalConfirmation}, result.MissingDocuments)
}

func TestPregnancyStatusSatisfiesEvidence(t *testing.T) {
	in := baseInput(t)
	in.Policy.Conditions.RequiresPregnancyEvent = true
	in.Profile.PregnancyStatus = "pregnant"

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusEligible, result.Status)
	require.Contains(t, result.RequiredDocuments, DocMedicalConfirmation)
	require.Empty(t, result.MissingDocuments)
}

func TestBirthEventWithinWindowSatisfiesEvidence(t *testing.T) {
	in := baseInput(t)
	in.Policy.Conditions.RequiresBirthEvent = true
	in.LifeEvents = []LifeEvent{
		{EmployeeID: "u1", EventType: EventChildbirth, EventDate: mustDate(t, "2026-08-20")},
	}

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusEligible, result.Status)
}

func TestBirthEventOutsideWindowLeavesEvidenceMissing(t *testing.T) {
	in := baseInput(t)
	in.Policy.Conditions.RequiresBirthEvent = true
	in.Policy.Conditions.EventWindowDays = 30
	in.LifeEvents = []LifeEvent{
		{EmployeeID: "u1", EventType: EventChildbirth, EventDate: mustDate(t, "2026-01-01")},
	}

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusMissingEvidence, result.Status)
	require.Equal(t, []string{DocBirthOrAdoptionProof}, result.MissingDocuments)
}

func TestStudyPurposeAlwaysNeedsProof(t *testing.T) {
	in := baseInput(t)
	in.Policy.Conditions.RequiresStudyPurpose = true

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusMissingEvidence, result.Status)
	require.Equal(t, []string{DocAdmissionOrExamLetter}, result.MissingDocuments)
}

func TestMedicalCertificateRequiredAboveThreshold(t *testing.T) {
	in := baseInput(t)
	in.Policy.Frequency.MedicalCertificateAfterDays = 3
	in.DaysCount = 5

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusMissingEvidence, result.Status)
	require.Equal(t, []string{DocMedicalCertificate}, result.MissingDocuments)
}

func TestMaxDaysPerRequestOverridesEvidence(t *testing.T) {
	in := baseInput(t)
	in.Policy.Conditions.RequiresStudyPurpose = true
	in.Policy.Frequency.MaxDaysPerRequest = 5
	in.DaysCount = 6

	result := EvaluateEligibility(in)
	require.Equal(t, EligibilityStatusNotEligible, result.Status)
	require.Contains(t, result.Reason, "at most 5 days")
	require.Contains(t, result.RequiredDocuments, DocAdmissionOrExamLetter)
	require.Empty(t, result.MissingDocuments)
}

func TestMissingDocumentsSubsetOfRequired(t *testing.T) {
	in := baseInput(t)
	in.Policy.RequiredDocuments = []string{DocMedicalConfirmation}
	in.Policy.Conditions.RequiresPregnancyEvent = true
	in.Policy.Conditions.RequiresStudyPurpose = true
	in.Profile.PregnancyStatus = "pregnant"

	result := EvaluateEligibility(in)
	requiredSet := map[string]struct{}{}
	for _, doc := range result.RequiredDocuments {
		requiredSet[doc] = struct{}{}
	}
	for _, doc := range result.MissingDocuments {
		_, ok := requiredSet[doc]
		require.True(t, ok, "missing doc %s absent from required set", doc)
	}
	// Base required docs are deduplicated against condition-derived ones.
	require.Equal(t, []string{DocMedicalConfirmation, DocAdmissionOrExamLetter}, result.RequiredDocuments)
}
