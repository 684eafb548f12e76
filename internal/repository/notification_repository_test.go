package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/errs"
	"rental-service/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var notificationCols = []string{"id", "user_id", "title", "content", "type", "link", "is_read", "created_at"}

func TestNotificationRepository_CreateNotification(t *testing.T) {
	link := "/profile"

	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		expectError bool
	}{
		{
			name: "successful creation",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO notifications`).
					WithArgs(
						sqlmock.AnyArg(), // id
						"u1",
						"New Review",
						"Alice left you a new review",
						"review",
						"/profile",
						false,
						sqlmock.AnyArg(), // created_at
					).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO notifications`).
					WillReturnError(sql.ErrConnDone)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewNotificationRepository(db)
			tt.setupMock(mock)

			n := &model.Notification{
				UserID:  "u1",
				Title:   "New Review",
				Content: "Alice left you a new review",
				Type:    model.NotificationReview,
				Link:    &link,
				Read:    true,
			}
			err := repo.CreateNotification(context.Background(), n)

			if tt.expectError {
				assert.ErrorIs(t, err, sql.ErrConnDone)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, n.ID)
				assert.False(t, n.CreatedAt.IsZero())
				assert.False(t, n.Read)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_ListNotifications(t *testing.T) {
	now := time.Now()

	t.Run("defaults and unread filter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1 AND is_read = FALSE`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`SELECT id, user_id, title, content, type, link, is_read, created_at\s+FROM notifications`).
			WithArgs("u1", 10, 0).
			WillReturnRows(sqlmock.NewRows(notificationCols).
				AddRow("n2", "u1", "New Message", "You have a new message from Bob", "message", "/messages", false, now).
				AddRow("n1", "u1", "New Review", "Alice left you a new review", "review", nil, false, now.Add(-time.Minute)))

		list, total, err := repo.ListNotifications(context.Background(), "u1", model.NotificationFilter{UnreadOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, list, 2)
		assert.Equal(t, "n2", list[0].ID)
		assert.Equal(t, model.NotificationMessage, list[0].Type)
		require.NotNil(t, list[0].Link)
		assert.Equal(t, "/messages", *list[0].Link)
		assert.Nil(t, list[1].Link)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("page size is capped", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`FROM notifications`).
			WithArgs("u1", 100, 200).
			WillReturnRows(sqlmock.NewRows(notificationCols))

		list, total, err := repo.ListNotifications(context.Background(), "u1", model.NotificationFilter{Page: 3, PerPage: 500})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, list)
		assert.NotNil(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectQuery(`SELECT COUNT`).WillReturnError(sql.ErrConnDone)

		_, _, err := repo.ListNotifications(context.Background(), "u1", model.NotificationFilter{})
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestNotificationRepository_GetNotification(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(`FROM notifications\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs("n1", "u1").
		WillReturnRows(sqlmock.NewRows(notificationCols).
			AddRow("n1", "u1", "New Review", "Alice left you a new review", "review", "/profile", true, time.Now()))
	mock.ExpectQuery(`FROM notifications\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs("n1", "someone-else").
		WillReturnError(sql.ErrNoRows)

	n, err := repo.GetNotification(context.Background(), "n1", "u1")
	require.NoError(t, err)
	assert.True(t, n.Read)

	_, err = repo.GetNotification(context.Background(), "n1", "someone-else")
	assert.ErrorIs(t, err, errs.ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	tests := []struct {
		name    string
		result  driverResult
		execErr error
		wantErr error
	}{
		{name: "marked", result: driverResult{affected: 1}},
		{name: "not found", result: driverResult{affected: 0}, wantErr: errs.ErrNotificationNotFound},
		{name: "database error", execErr: sql.ErrConnDone, wantErr: sql.ErrConnDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewNotificationRepository(db)

			exp := mock.ExpectExec(`UPDATE notifications SET is_read = TRUE WHERE id = \$1 AND user_id = \$2`).
				WithArgs("n1", "u1")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.result.affected))
			}

			err := repo.MarkAsRead(context.Background(), "n1", "u1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

type driverResult struct {
	affected int64
}

func TestNotificationRepository_MarkAllAsReadAndCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectExec(`UPDATE notifications SET is_read = TRUE WHERE user_id = \$1 AND is_read = FALSE`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1 AND is_read = FALSE`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	n, err := repo.MarkAllAsRead(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	unread, err := repo.CountUnread(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, unread)
	assert.NoError(t, mock.ExpectationsWereMet())
}
