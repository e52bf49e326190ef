package notifications

import "context"

type StoreAPI interface {
	InsertNotifications(ctx context.Context, records []Record) error
	RecipientEmails(ctx context.Context, userIDs []string) ([]string, error)
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}
