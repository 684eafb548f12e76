package notify

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"rental-service/internal/errs"
	"rental-service/internal/model"
)

var validate = validator.New()

// DispatchRequest is a notification template bound to concrete data, ready
// to be persisted and optionally emailed.
type DispatchRequest struct {
	Kind           Kind
	RecipientID    string
	Title          string
	Content        string
	Type           model.NotificationType
	Link           string
	RecipientEmail string
	RequireEmail   bool
	// DedupeKey is only honored when a dedupe guard is configured.
	DedupeKey string
}

// Notification builds the record to persist for this request.
func (r DispatchRequest) Notification() *model.Notification {
	n := &model.Notification{
		UserID:  r.RecipientID,
		Title:   r.Title,
		Content: r.Content,
		Type:    r.Type,
	}
	if r.Link != "" {
		link := r.Link
		n.Link = &link
	}
	return n
}

// Classify resolves an event to its template.
func Classify(ev Event) (DispatchRequest, error) {
	if ev == nil {
		return DispatchRequest{}, fmt.Errorf("notify.Classify: nil event: %w", errs.ErrUnknownEventKind)
	}
	if err := validate.Struct(ev); err != nil {
		return DispatchRequest{}, fmt.Errorf("notify.Classify: %s: %v: %w", ev.Kind(), err, errs.ErrInvalidEvent)
	}

	switch e := ev.(type) {
	case NewMessage:
		return DispatchRequest{
			Kind:           KindNewMessage,
			RecipientID:    e.RecipientID,
			Title:          "New Message",
			Content:        fmt.Sprintf("You have a new message from %s", e.SenderName),
			Type:           model.NotificationMessage,
			Link:           "/messages",
			RecipientEmail: e.RecipientEmail,
			RequireEmail:   true,
		}, nil
	case NewBookingRequest:
		return DispatchRequest{
			Kind:           KindNewBookingRequest,
			RecipientID:    e.OwnerID,
			Title:          "New Viewing Request",
			Content:        fmt.Sprintf("%s requested a viewing of your room", e.RequesterName),
			Type:           model.NotificationBooking,
			Link:           "/appointments",
			RecipientEmail: e.OwnerEmail,
			RequireEmail:   true,
		}, nil
	case ListingApproved:
		return DispatchRequest{
			Kind:           KindListingApproved,
			RecipientID:    e.OwnerID,
			Title:          "Listing Approved",
			Content:        fmt.Sprintf("Your listing %q has been approved", e.ListingTitle),
			Type:           model.NotificationListing,
			Link:           "/listings",
			RecipientEmail: e.OwnerEmail,
			RequireEmail:   true,
		}, nil
	case NewReview:
		return DispatchRequest{
			Kind:           KindNewReview,
			RecipientID:    e.UserID,
			Title:          "New Review",
			Content:        fmt.Sprintf("%s left you a new review", e.ReviewerName),
			Type:           model.NotificationReview,
			Link:           "/profile",
			RecipientEmail: e.UserEmail,
			RequireEmail:   true,
		}, nil
	}
	return DispatchRequest{}, fmt.Errorf("notify.Classify: %T: %w", ev, errs.ErrUnknownEventKind)
}

// EventFromData builds an event from string-keyed data, as received over
// HTTP or the message bus.
func EventFromData(kind string, data map[string]string) (Event, error) {
	get := func(key string) string { return strings.TrimSpace(data[key]) }

	switch Kind(kind) {
	case KindNewMessage:
		return NewMessage{RecipientID: get("recipient_id"), SenderName: get("sender_name"), RecipientEmail: get("recipient_email")}, nil
	case KindNewBookingRequest:
		return NewBookingRequest{OwnerID: get("owner_id"), RequesterName: get("requester_name"), OwnerEmail: get("owner_email")}, nil
	case KindListingApproved:
		return ListingApproved{OwnerID: get("owner_id"), ListingTitle: get("listing_title"), OwnerEmail: get("owner_email")}, nil
	case KindNewReview:
		return NewReview{UserID: get("user_id"), ReviewerName: get("reviewer_name"), UserEmail: get("user_email")}, nil
	}
	return nil, fmt.Errorf("notify.EventFromData: %q: %w", kind, errs.ErrUnknownEventKind)
}

// ClassifyKind is Classify for string-keyed input. A "dedupe_key" entry is
// carried over to the request.
func ClassifyKind(kind string, data map[string]string) (DispatchRequest, error) {
	ev, err := EventFromData(kind, data)
	if err != nil {
		return DispatchRequest{}, err
	}
	req, err := Classify(ev)
	if err != nil {
		return DispatchRequest{}, err
	}
	req.DedupeKey = strings.TrimSpace(data["dedupe_key"])
	return req, nil
}
