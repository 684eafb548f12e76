package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rental-service/internal/errs"
	"rental-service/internal/model"
)

// NotificationRepository stores notifications in Postgres.
type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateNotification inserts exactly one record. ID and CreatedAt are filled
// in when empty; Read always starts false.
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.Read = false

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, content, type, link, is_read, created_at)
		VALUES (:id, :user_id, :title, :content, :type, :link, :is_read, :created_at)
	`, n)
	if err != nil {
		return fmt.Errorf("NotificationRepository.CreateNotification: %w", err)
	}
	return nil
}

// ListNotifications returns one page of a user's notifications, newest first,
// with the total count matching the filter.
func (r *NotificationRepository) ListNotifications(ctx context.Context, userID string, filter model.NotificationFilter) ([]model.Notification, int64, error) {
	filter = filter.Normalize()

	where := "user_id = $1"
	if filter.UnreadOnly {
		where += " AND is_read = FALSE"
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications WHERE `+where, userID); err != nil {
		return nil, 0, fmt.Errorf("NotificationRepository.ListNotifications count: %w", err)
	}

	list := make([]model.Notification, 0)
	query := `
		SELECT id, user_id, title, content, type, link, is_read, created_at
		FROM notifications
		WHERE ` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &list, query, userID, filter.PerPage, filter.Offset()); err != nil {
		return nil, 0, fmt.Errorf("NotificationRepository.ListNotifications: %w", err)
	}
	return list, total, nil
}

// GetNotification loads a single notification owned by userID.
func (r *NotificationRepository) GetNotification(ctx context.Context, id, userID string) (*model.Notification, error) {
	var n model.Notification
	err := r.db.GetContext(ctx, &n, `
		SELECT id, user_id, title, content, type, link, is_read, created_at
		FROM notifications
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("NotificationRepository.GetNotification: %w", err)
	}
	return &n, nil
}

// MarkAsRead flags one notification as read. Marking an already read
// notification succeeds.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("NotificationRepository.MarkAsRead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("NotificationRepository.MarkAsRead rows affected: %w", err)
	}
	if n == 0 {
		return errs.ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead flags every unread notification of a user and returns how many changed.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("NotificationRepository.MarkAllAsRead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("NotificationRepository.MarkAllAsRead rows affected: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID); err != nil {
		return 0, fmt.Errorf("NotificationRepository.CountUnread: %w", err)
	}
	return count, nil
}
