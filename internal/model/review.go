package model

import "time"

// ReviewStatus is the moderation state of a review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Review represents a user's review of another user, optionally tied to a listing.
type Review struct {
	ID             string       `db:"id" json:"id"`
	Status         ReviewStatus `db:"status" json:"status"`
	ReviewerID     string       `db:"reviewer_id" json:"reviewerId"`
	ReviewedUserID string       `db:"reviewed_user_id" json:"reviewedUserId"`
	ListingID      *string      `db:"listing_id" json:"listingId,omitempty"`
	Rating         int          `db:"rating" json:"rating"`
	Comment        *string      `db:"comment" json:"comment,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
}
