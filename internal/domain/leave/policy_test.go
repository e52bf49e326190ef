package leave

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestGetLeavePolicyReturnsActivePolicy(t *testing.T) {
	store := &fakeStore{
		policy: &LeavePolicy{
			LeaveTypeID: "lt-1",
			AnnualDays:  30,
			Eligibility: EligibilityFemaleOnly,
			AccrualMode: AccrualBusinessDays,
			IsActive:    true,
		},
	}
	svc := NewService(store)

	policy, err := svc.GetLeavePolicy(context.Background(), "lt-1")
	require.NoError(t, err)
	require.Equal(t, 30, policy.AnnualDays)
	require.Equal(t, EligibilityFemaleOnly, policy.Eligibility)
	require.NotNil(t, policy.RequiredDocuments)
}

func TestGetLeavePolicyFallsBackOnMissingGovernanceColumns(t *testing.T) {
	store := &fakeStore{
		policyErr: &pgconn.PgError{Code: "42703", Message: `column "eligibility_conditions" does not exist`},
		legacyPolicy: &LeavePolicy{
			LeaveTypeID: "lt-1",
			AnnualDays:  14,
			IsActive:    true,
		},
	}
	svc := NewService(store)

	policy, err := svc.GetLeavePolicy(context.Background(), "lt-1")
	require.NoError(t, err)
	require.Equal(t, 14, policy.AnnualDays)
	require.Equal(t, EligibilityAll, policy.Eligibility)
	require.Equal(t, AccrualCalendarDays, policy.AccrualMode)
}

func TestGetLeavePolicySynthesizesDefault(t *testing.T) {
	store := &fakeStore{
		leaveType: LeaveType{ID: "lt-1", Code: "casual", Name: "Casual Leave", MaxDays: 10},
	}
	svc := NewService(store)

	policy, err := svc.GetLeavePolicy(context.Background(), "lt-1")
	require.NoError(t, err)
	require.Equal(t, 10, policy.AnnualDays)
	require.Equal(t, EligibilityAll, policy.Eligibility)
	require.Equal(t, AccrualCalendarDays, policy.AccrualMode)
	require.True(t, policy.IsActive)
	require.Zero(t, policy.MinTenureMonths)
	require.Zero(t, policy.NoticeDays)
}

func TestGetLeavePolicyUnknownLeaveType(t *testing.T) {
	store := &fakeStore{leaveTypeErr: ErrLeaveTypeNotFound}
	svc := NewService(store)

	_, err := svc.GetLeavePolicy(context.Background(), "missing")
	require.ErrorIs(t, err, ErrLeaveTypeNotFound)

	_, err = svc.GetLeavePolicy(context.Background(), "  ")
	require.ErrorIs(t, err, ErrLeaveTypeNotFound)
}

func TestGetLeavePolicyPropagatesRealErrors(t *testing.T) {
	store := &fakeStore{policyErr: errors.New("connection refused")}
	svc := NewService(store)

	_, err := svc.GetLeavePolicy(context.Background(), "lt-1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrLeaveTypeNotFound)
}

func TestIsMissingGovernanceColumn(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg undefined governance column", &pgconn.PgError{Code: "42703", Message: `column "frequency_rules" does not exist`}, true},
		{"pg undefined unrelated column", &pgconn.PgError{Code: "42703", Message: `column "salary" does not exist`}, false},
		{"pg other code naming column", &pgconn.PgError{Code: "42601", Message: "syntax error near eligibility_conditions"}, false},
		{"wrapped message", fmt.Errorf("query: %w", errors.New(`column "override_allowed" does not exist`)), true},
		{"plain failure", errors.New("connection reset"), false},
	}
	for _, tc := range cases {
		if got := IsMissingGovernanceColumn(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
