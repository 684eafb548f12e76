package service

import (
	"context"

	"rental-service/internal/notify"
)

// Notifier is the entry point for raising notification events. Every input
// is passed explicitly; nothing is read from request or session state.
type Notifier struct {
	dispatcher Dispatcher
}

func NewNotifier(d Dispatcher) *Notifier {
	return &Notifier{dispatcher: d}
}

// Notify classifies ev and dispatches the result.
func (n *Notifier) Notify(ctx context.Context, ev notify.Event) DispatchOutcome {
	req, err := notify.Classify(ev)
	if err != nil {
		return DispatchOutcome{Err: err}
	}
	return n.dispatcher.Dispatch(ctx, req)
}

// NotifyKind handles string-keyed triggers from HTTP or the message bus.
func (n *Notifier) NotifyKind(ctx context.Context, kind string, data map[string]string) DispatchOutcome {
	req, err := notify.ClassifyKind(kind, data)
	if err != nil {
		return DispatchOutcome{Err: err}
	}
	return n.dispatcher.Dispatch(ctx, req)
}

func (n *Notifier) NotifyNewMessage(ctx context.Context, recipientID, senderName, recipientEmail string) DispatchOutcome {
	return n.Notify(ctx, notify.NewMessage{RecipientID: recipientID, SenderName: senderName, RecipientEmail: recipientEmail})
}

func (n *Notifier) NotifyNewBooking(ctx context.Context, ownerID, requesterName, ownerEmail string) DispatchOutcome {
	return n.Notify(ctx, notify.NewBookingRequest{OwnerID: ownerID, RequesterName: requesterName, OwnerEmail: ownerEmail})
}

func (n *Notifier) NotifyListingApproved(ctx context.Context, ownerID, listingTitle, ownerEmail string) DispatchOutcome {
	return n.Notify(ctx, notify.ListingApproved{OwnerID: ownerID, ListingTitle: listingTitle, OwnerEmail: ownerEmail})
}

func (n *Notifier) NotifyNewReview(ctx context.Context, userID, reviewerName, userEmail string) DispatchOutcome {
	return n.Notify(ctx, notify.NewReview{UserID: userID, ReviewerName: reviewerName, UserEmail: userEmail})
}
