package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records   []Record
	insertErr error
	emails    map[string][]string
	emailErr  error
}

func (f *fakeStore) InsertNotifications(ctx context.Context, records []Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeStore) RecipientEmails(ctx context.Context, userIDs []string) ([]string, error) {
	if f.emailErr != nil {
		return nil, f.emailErr
	}
	var out []string
	for _, id := range userIDs {
		out = append(out, f.emails[id]...)
	}
	return out, nil
}

func (f *fakeStore) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	return nil, nil
}

func (f *fakeStore) CountUnread(ctx context.Context, userID string) (int, error) { return 0, nil }

func (f *fakeStore) MarkRead(ctx context.Context, userID, notificationID string) error { return nil }

type recordingMailer struct {
	sent []Email
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, email Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func TestNotifyUsersSendsOneAggregatedEmail(t *testing.T) {
	store := &fakeStore{emails: map[string][]string{
		"hr-1": {"hr1@example.com", "hr1.personal@example.com"},
		"hr-2": {"hr2@example.com"},
	}}
	mailer := &recordingMailer{}
	svc := New(store, mailer)

	err := svc.NotifyUsers(context.Background(), Dispatch{
		RecipientIDs: []string{"hr-1", "hr-2", "hr-1"},
		Type:         TypeApprovalRequest,
		Title:        "Leave request awaiting approval",
		Message:      "A request has reached the HR stage.",
	})
	require.NoError(t, err)

	// One in-app row per distinct recipient.
	require.Len(t, store.records, 2)
	require.Equal(t, "hr-1", store.records[0].UserID)
	require.Equal(t, "hr-2", store.records[1].UserID)

	// All addresses packed into a single email.
	require.Len(t, mailer.sent, 1)
	require.ElementsMatch(t,
		[]string{"hr1@example.com", "hr1.personal@example.com", "hr2@example.com"},
		mailer.sent[0].To,
	)
	require.Equal(t, "Leave request awaiting approval", mailer.sent[0].Subject)
}

func TestNotifyUsersDeduplicatesAddresses(t *testing.T) {
	store := &fakeStore{emails: map[string][]string{
		"u1": {"shared@example.com"},
		"u2": {"shared@example.com", "u2@example.com"},
	}}
	mailer := &recordingMailer{}
	svc := New(store, mailer)

	err := svc.NotifyUsers(context.Background(), Dispatch{
		RecipientIDs: []string{"u1", "u2"},
		Type:         TypeApprovalRequest,
		Title:        "t",
		Message:      "m",
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	require.ElementsMatch(t, []string{"shared@example.com", "u2@example.com"}, mailer.sent[0].To)
}

func TestNotifyUsersAppliesDefaults(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, nil)

	err := svc.NotifyUsers(context.Background(), Dispatch{
		RecipientIDs: []string{"u1"},
		Type:         TypeLeaveApproved,
		Title:        "t",
		Message:      "m",
	})
	require.NoError(t, err)
	require.Len(t, store.records, 1)
	require.Equal(t, CategoryApprovals, store.records[0].Category)
	require.Equal(t, PriorityNormal, store.records[0].Priority)
	require.Equal(t, DefaultLeaveLink, store.records[0].Link)
}

func TestNotifyUsersNoRecipientsIsNoop(t *testing.T) {
	store := &fakeStore{}
	mailer := &recordingMailer{}
	svc := New(store, mailer)

	err := svc.NotifyUsers(context.Background(), Dispatch{Type: TypeLeaveApproved, Title: "t", Message: "m"})
	require.NoError(t, err)
	require.Empty(t, store.records)
	require.Empty(t, mailer.sent)
}

func TestNotifyUsersEmailFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{emails: map[string][]string{"u1": {"u1@example.com"}}}
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc := New(store, mailer)

	err := svc.NotifyUsers(context.Background(), Dispatch{
		RecipientIDs: []string{"u1"},
		Type:         TypeLeaveApproved,
		Title:        "t",
		Message:      "m",
	})
	require.NoError(t, err)
	require.Len(t, store.records, 1)
}

func TestNotifyUsersInsertFailureSurfaces(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("db down")}
	svc := New(store, nil)

	err := svc.NotifyUsers(context.Background(), Dispatch{
		RecipientIDs: []string{"u1"},
		Type:         TypeLeaveApproved,
		Title:        "t",
		Message:      "m",
	})
	require.Error(t, err)
}
