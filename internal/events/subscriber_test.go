package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rental-service/internal/errs"
	"rental-service/internal/model"
	"rental-service/internal/service"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyKind(ctx context.Context, kind string, data map[string]string) service.DispatchOutcome {
	args := m.Called(ctx, kind, data)
	return args.Get(0).(service.DispatchOutcome)
}

func TestHandle_DispatchesKindFromSubject(t *testing.T) {
	n := new(MockNotifier)
	n.On("NotifyKind", mock.Anything, "new_review", map[string]string{"user_id": "u1", "reviewer_name": "Alice", "dedupe_key": "rev-1"}).
		Return(service.DispatchOutcome{NotificationCreated: true, Notification: &model.Notification{ID: "n1"}})

	err := NewSubscriber(n, 0, nil).Handle(context.Background(), "rental.events.new_review",
		[]byte(`{"user_id":"u1","reviewer_name":"Alice","dedupe_key":"rev-1"}`))

	assert.NoError(t, err)
	n.AssertExpectations(t)
}

func TestHandle_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		data    string
		wantErr error
	}{
		{"foreign subject", "other.new_review", `{}`, errs.ErrUnknownEventKind},
		{"bare prefix", "rental.events.", `{}`, errs.ErrUnknownEventKind},
		{"not json", "rental.events.new_message", `not json`, errs.ErrInvalidEvent},
		{"non-string values", "rental.events.new_message", `{"recipient_id":42}`, errs.ErrInvalidEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := new(MockNotifier)
			err := NewSubscriber(n, 0, nil).Handle(context.Background(), tt.subject, []byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
			n.AssertNotCalled(t, "NotifyKind", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_ReturnsDispatchError(t *testing.T) {
	n := new(MockNotifier)
	n.On("NotifyKind", mock.Anything, "bogus", mock.Anything).Return(service.DispatchOutcome{Err: errs.ErrUnknownEventKind})

	err := NewSubscriber(n, 0, nil).Handle(context.Background(), "rental.events.bogus", []byte(`{}`))
	assert.ErrorIs(t, err, errs.ErrUnknownEventKind)
}
