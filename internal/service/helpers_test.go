package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rental-service/internal/errs"
	"rental-service/internal/mailer"
	"rental-service/internal/model"
)

// memStore is an in-memory NotificationStore.
type memStore struct {
	mu      sync.Mutex
	rows    map[string]model.Notification
	failErr error
	creates int
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]model.Notification{}}
}

func (s *memStore) CreateNotification(_ context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.failErr != nil {
		return s.failErr
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()
	n.Read = false
	s.rows[n.ID] = *n
	return nil
}

func (s *memStore) ListNotifications(_ context.Context, userID string, f model.NotificationFilter) ([]model.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f = f.Normalize()
	list := make([]model.Notification, 0)
	for _, n := range s.rows {
		if n.UserID == userID && (!f.UnreadOnly || !n.Read) {
			list = append(list, n)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	total := int64(len(list))
	start := f.Offset()
	if start > len(list) {
		start = len(list)
	}
	end := start + f.PerPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], total, nil
}

func (s *memStore) GetNotification(_ context.Context, id, userID string) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.rows[id]
	if !ok || n.UserID != userID {
		return nil, errs.ErrNotificationNotFound
	}
	return &n, nil
}

func (s *memStore) MarkAsRead(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.rows[id]
	if !ok || n.UserID != userID {
		return errs.ErrNotificationNotFound
	}
	n.Read = true
	s.rows[id] = n
	return nil
}

func (s *memStore) MarkAllAsRead(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed int64
	for id, n := range s.rows {
		if n.UserID == userID && !n.Read {
			n.Read = true
			s.rows[id] = n
			changed++
		}
	}
	return changed, nil
}

func (s *memStore) CountUnread(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.rows {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// MockMailer is a mock implementation of mailer.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendEmail(ctx context.Context, email mailer.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockUserDirectory is a mock implementation of UserDirectory.
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetUser(ctx context.Context, userID string) (*model.UserProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*model.UserProfile)
	return p, args.Error(1)
}
