package model

import (
	"math"
	"time"
)

// NotificationType names the domain source of a notification.
type NotificationType string

const (
	NotificationMessage NotificationType = "message"
	NotificationBooking NotificationType = "booking"
	NotificationListing NotificationType = "listing"
	NotificationReview  NotificationType = "review"
)

// Notification is an in-app notice owned by its recipient.
type Notification struct {
	ID        string           `db:"id" bson:"_id" json:"id"`
	UserID    string           `db:"user_id" bson:"user_id" json:"userId"`
	Title     string           `db:"title" bson:"title" json:"title"`
	Content   string           `db:"content" bson:"content" json:"content"`
	Type      NotificationType `db:"type" bson:"type" json:"type"`
	Link      *string          `db:"link" bson:"link,omitempty" json:"link,omitempty"`
	Read      bool             `db:"is_read" bson:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" bson:"created_at" json:"createdAt"`
}

// NotificationFilter controls pagination of a recipient's notifications.
type NotificationFilter struct {
	Page       int
	PerPage    int
	UnreadOnly bool
}

// Normalize applies the paging defaults and the page size cap.
func (f NotificationFilter) Normalize() NotificationFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 10
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
	// Keep the row offset representable; pages past the end are empty anyway.
	if maxPage := math.MaxInt32 / f.PerPage; f.Page > maxPage {
		f.Page = maxPage
	}
	return f
}

// Offset is the number of rows to skip for the current page.
func (f NotificationFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}
