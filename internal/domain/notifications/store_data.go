package notifications

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func (s *Store) InsertNotifications(ctx context.Context, records []Record) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
      INSERT INTO notifications (user_id, type, category, priority, title, message, link)
      VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''))
    `, rec.UserID, rec.Type, rec.Category, rec.Priority, rec.Title, rec.Message, rec.Link)
	}
	results := s.DB.SendBatch(ctx, batch)
	defer results.Close()
	for range records {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

func (s *Store) RecipientEmails(ctx context.Context, userIDs []string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(company_email, ''), COALESCE(additional_emails, '{}')
    FROM profiles
    WHERE id = ANY($1)
  `, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var companyEmail string
		var additional []string
		if err := rows.Scan(&companyEmail, &additional); err != nil {
			return nil, err
		}
		if companyEmail != "" {
			emails = append(emails, companyEmail)
		}
		emails = append(emails, additional...)
	}
	return emails, rows.Err()
}

func (s *Store) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, type, category, priority, title, message, COALESCE(link, ''), read_at, created_at
    FROM notifications
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Category, &n.Priority, &n.Title, &n.Message, &n.Link, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, userID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM notifications WHERE user_id = $1 AND read_at IS NULL
  `, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, userID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE user_id = $1 AND id = $2 AND read_at IS NULL
  `, userID, notificationID)
	return err
}
