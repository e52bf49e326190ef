package notifications

import (
	"context"
	"fmt"
	"log/slog"
)

// Mailer sends one email. A nil Mailer on the service disables email
// delivery without touching the in-app path.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type Service struct {
	store  StoreAPI
	Mailer Mailer
}

func New(store StoreAPI, mailer Mailer) *Service {
	return &Service{store: store, Mailer: mailer}
}

// Dispatch is one notification fan-out: every recipient gets an in-app row,
// and all recipients share a single aggregated email.
type Dispatch struct {
	RecipientIDs []string
	Type         string
	Category     string
	Priority     string
	Title        string
	Message      string
	Link         string
}

// NotifyUsers persists in-app notifications for all recipients, then sends
// one email addressed to every resolved recipient address. Email failure is
// logged, never surfaced: the in-app notification is the system of record.
func (s *Service) NotifyUsers(ctx context.Context, d Dispatch) error {
	recipients := dedupe(d.RecipientIDs)
	if len(recipients) == 0 {
		return nil
	}
	if d.Category == "" {
		d.Category = CategoryApprovals
	}
	if d.Priority == "" {
		d.Priority = PriorityNormal
	}
	if d.Link == "" {
		d.Link = DefaultLeaveLink
	}

	records := make([]Record, 0, len(recipients))
	for _, userID := range recipients {
		records = append(records, Record{
			UserID:   userID,
			Type:     d.Type,
			Category: d.Category,
			Priority: d.Priority,
			Title:    d.Title,
			Message:  d.Message,
			Link:     d.Link,
		})
	}
	if err := s.store.InsertNotifications(ctx, records); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	if s.Mailer == nil {
		return nil
	}
	emails, err := s.store.RecipientEmails(ctx, recipients)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	emails = dedupe(emails)
	if len(emails) == 0 {
		return nil
	}
	if err := s.Mailer.Send(ctx, Email{
		To:      emails,
		Subject: d.Title,
		Title:   d.Title,
		Message: d.Message,
		CTAPath: d.Link,
	}); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, userID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}

func dedupe(values []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
