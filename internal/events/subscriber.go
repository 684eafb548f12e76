package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"rental-service/internal/errs"
	"rental-service/internal/service"
)

// SubjectPrefix is followed by the event kind, e.g. rental.events.new_review.
const SubjectPrefix = "rental.events."

// Notifier raises a notification from a string-keyed trigger.
type Notifier interface {
	NotifyKind(ctx context.Context, kind string, data map[string]string) service.DispatchOutcome
}

// Subscriber turns bus messages into notifications. Messages are handled
// once; failures are logged and not redelivered.
type Subscriber struct {
	notifier Notifier
	timeout  time.Duration
	log      *logrus.Entry
}

func NewSubscriber(n Notifier, timeout time.Duration, log *logrus.Entry) *Subscriber {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Subscriber{notifier: n, timeout: timeout, log: log}
}

// Start subscribes to every kind under SubjectPrefix.
func (s *Subscriber) Start(c *Client) error {
	_, err := c.Subscribe(SubjectPrefix+">", func(subject string, data []byte) {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_ = s.Handle(ctx, subject, data)
	})
	return err
}

// Handle processes one message and returns the dispatch error, if any.
func (s *Subscriber) Handle(ctx context.Context, subject string, data []byte) error {
	entry := s.log.WithField("subject", subject)

	kind := strings.TrimPrefix(subject, SubjectPrefix)
	if kind == subject || kind == "" {
		entry.Warn("message outside event namespace dropped")
		return fmt.Errorf("subject %q: %w", subject, errs.ErrUnknownEventKind)
	}

	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		entry.WithError(err).Warn("malformed event payload dropped")
		return fmt.Errorf("decode %s: %v: %w", subject, err, errs.ErrInvalidEvent)
	}

	out := s.notifier.NotifyKind(ctx, kind, payload)
	switch {
	case out.Err == nil:
		entry.WithField("notification_id", out.Notification.ID).Debug("event handled")
	case errors.Is(out.Err, errs.ErrUnknownEventKind):
		entry.Warn("unknown event kind dropped")
	case errors.Is(out.Err, errs.ErrDuplicateDispatch):
		entry.Info("duplicate event dropped")
	case out.NotificationCreated:
		entry.WithError(out.Err).Warn("event handled without email")
	default:
		entry.WithError(out.Err).Error("event handling failed")
	}
	return out.Err
}
