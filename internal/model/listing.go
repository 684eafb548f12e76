package model

import "time"

// Listing is a room offered for rent. Verified is set by moderators, Active by the owner.
type Listing struct {
	ID            string    `db:"id" json:"id"`
	OwnerID       string    `db:"owner_id" json:"ownerId"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	Price         float64   `db:"price" json:"price"`
	Category      string    `db:"category" json:"category"`
	City          string    `db:"city" json:"city"`
	Region        string    `db:"region" json:"region"`
	Type          string    `db:"type" json:"type"` // rent/sale/search
	Verified      bool      `db:"verified" json:"verified"`
	Active        bool      `db:"active" json:"active"`
	AverageRating float64   `db:"average_rating" json:"averageRating"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// ListingFilter narrows the public listing search.
type ListingFilter struct {
	Category string
	City     string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}
