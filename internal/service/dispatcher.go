package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"rental-service/internal/errs"
	"rental-service/internal/mailer"
	"rental-service/internal/metrics"
	"rental-service/internal/model"
	"rental-service/internal/notify"
)

// NotificationCreator persists a single notification record.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
}

// DispatchOutcome reports which side effects of a dispatch happened.
// NotificationCreated with EmailSent=false and a non-nil Err is a partial
// success: the in-app notification stands, only the email is missing.
type DispatchOutcome struct {
	NotificationCreated bool
	EmailSent           bool
	Notification        *model.Notification
	Err                 error
}

// Delivered reports whether the notification counts as delivered.
func (o DispatchOutcome) Delivered() bool {
	return o.NotificationCreated
}

// Dispatcher persists a notification and optionally emails it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req notify.DispatchRequest) DispatchOutcome
}

// DispatchOrchestrator writes the notification first and only then tries the
// email, at most once. There is no rollback of the store write and no retry;
// callers wanting at-least-once email retry on EmailSent=false.
type DispatchOrchestrator struct {
	store   NotificationCreator
	mailer  mailer.Mailer
	log     *logrus.Entry
	metrics *metrics.Metrics
}

// NewDispatchOrchestrator wires the orchestrator. m may be nil to disable
// email; met may be nil to disable metrics.
func NewDispatchOrchestrator(store NotificationCreator, m mailer.Mailer, log *logrus.Entry, met *metrics.Metrics) *DispatchOrchestrator {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &DispatchOrchestrator{store: store, mailer: m, log: log, metrics: met}
}

func (d *DispatchOrchestrator) Dispatch(ctx context.Context, req notify.DispatchRequest) DispatchOutcome {
	entry := d.log.WithFields(logrus.Fields{
		"kind":      req.Kind,
		"recipient": req.RecipientID,
	})

	n := req.Notification()
	if err := d.store.CreateNotification(ctx, n); err != nil {
		entry.WithError(err).Error("notification store write failed")
		d.count(req.Kind, "failed")
		return DispatchOutcome{Err: fmt.Errorf("%w: %w", errs.ErrStoreWriteFailed, err)}
	}
	out := DispatchOutcome{NotificationCreated: true, Notification: n}
	entry = entry.WithField("notification_id", n.ID)

	if !req.RequireEmail || req.RecipientEmail == "" || d.mailer == nil {
		entry.Debug("notification stored, no email required or possible")
		d.count(req.Kind, "delivered")
		return out
	}

	err := d.mailer.SendEmail(ctx, mailer.Email{
		To:      req.RecipientEmail,
		Subject: req.Title,
		Title:   req.Title,
		Body:    req.Content,
		Link:    req.Link,
	})
	if err != nil {
		entry.WithError(err).Warn("notification stored but email failed")
		d.countEmail("failed")
		d.count(req.Kind, "partial")
		out.Err = fmt.Errorf("%w: %w", errs.ErrEmailSendFailed, err)
		return out
	}

	out.EmailSent = true
	entry.Info("notification dispatched")
	d.countEmail("sent")
	d.count(req.Kind, "delivered")
	return out
}

func (d *DispatchOrchestrator) count(kind notify.Kind, outcome string) {
	if d.metrics != nil {
		d.metrics.Dispatches.WithLabelValues(string(kind), outcome).Inc()
	}
}

func (d *DispatchOrchestrator) countEmail(result string) {
	if d.metrics != nil {
		d.metrics.Emails.WithLabelValues(result).Inc()
	}
}
