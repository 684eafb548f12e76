// Package notify turns domain events into notification templates.
package notify

// Kind is the canonical name of a domain event that produces a notification.
type Kind string

const (
	KindNewMessage        Kind = "new_message"
	KindNewBookingRequest Kind = "new_booking_request"
	KindListingApproved   Kind = "listing_approved"
	KindNewReview         Kind = "new_review"
)

// Kinds lists every supported event kind.
var Kinds = []Kind{KindNewMessage, KindNewBookingRequest, KindListingApproved, KindNewReview}

// Event is one of NewMessage, NewBookingRequest, ListingApproved or NewReview.
type Event interface {
	Kind() Kind
	isEvent()
}

// NewMessage is raised when a user receives a chat message.
type NewMessage struct {
	RecipientID    string `validate:"required"`
	SenderName     string `validate:"required"`
	RecipientEmail string
}

// NewBookingRequest is raised when someone asks to view a listing.
type NewBookingRequest struct {
	OwnerID       string `validate:"required"`
	RequesterName string `validate:"required"`
	OwnerEmail    string
}

// ListingApproved is raised after a moderator verifies a listing.
type ListingApproved struct {
	OwnerID      string `validate:"required"`
	ListingTitle string `validate:"required"`
	OwnerEmail   string
}

// NewReview is raised when a review about a user is posted.
type NewReview struct {
	UserID       string `validate:"required"`
	ReviewerName string `validate:"required"`
	UserEmail    string
}

func (NewMessage) Kind() Kind        { return KindNewMessage }
func (NewBookingRequest) Kind() Kind { return KindNewBookingRequest }
func (ListingApproved) Kind() Kind   { return KindListingApproved }
func (NewReview) Kind() Kind         { return KindNewReview }

func (NewMessage) isEvent()        {}
func (NewBookingRequest) isEvent() {}
func (ListingApproved) isEvent()   {}
func (NewReview) isEvent()         {}
