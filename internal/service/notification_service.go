package service

import (
	"context"

	"rental-service/internal/model"
)

// NotificationStore is the full notification persistence contract, served
// by both the Postgres and the Mongo repositories.
type NotificationStore interface {
	NotificationCreator
	ListNotifications(ctx context.Context, userID string, filter model.NotificationFilter) ([]model.Notification, int64, error)
	GetNotification(ctx context.Context, id, userID string) (*model.Notification, error)
	MarkAsRead(ctx context.Context, id, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

// NotificationService exposes a recipient's own notifications. Records are
// only ever created through a Dispatcher.
type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, userID string, filter model.NotificationFilter) ([]model.Notification, int64, error) {
	return s.store.ListNotifications(ctx, userID, filter)
}

func (s *NotificationService) Get(ctx context.Context, id, userID string) (*model.Notification, error) {
	return s.store.GetNotification(ctx, id, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID string) error {
	return s.store.MarkAsRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}
