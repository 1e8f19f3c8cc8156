package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/task-checklist/internal/model"
)

// SendNotification inserts a new notification record.
func (s *SQLiteStore) SendNotification(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Type == "" {
		n.Type = model.NotificationInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type, read, action_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Message, string(n.Type),
		boolToInt(n.Read), n.ActionURL, n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

// GetUnreadNotifications retrieves a user's unread notifications,
// ordered by creation time descending.
func (s *SQLiteStore) GetUnreadNotifications(
	ctx context.Context,
	userID string,
) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, user_id, title, message, type, read, action_url, created_at
		FROM notifications WHERE user_id = ? AND read = 0
		ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead marks a single notification as read.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	return requireAffected(result, "notification "+id)
}

// scanNotification scans a notification row from a sqlx.Rows result set.
func scanNotification(rows interface{ Scan(dest ...interface{}) error }) (model.Notification, error) {
	var (
		n        model.Notification
		notiType string
		readInt  int
	)

	err := rows.Scan(
		&n.ID, &n.UserID, &n.Title, &n.Message, &notiType,
		&readInt, &n.ActionURL, &n.CreatedAt,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("scanning notification row: %w", err)
	}

	n.Type = model.NotificationType(notiType)
	n.Read = readInt != 0
	return n, nil
}
