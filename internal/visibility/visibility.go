// Package visibility decides what the public may see. Every query-time filter
// and every in-memory check goes through this package.
package visibility

import (
	"fmt"

	"rental-service/internal/errs"
	"rental-service/internal/model"
)

// SQL conditions matching IsListingVisible and IsReviewVisible. Repositories
// must use these instead of writing their own.
const (
	ListingVisibleClause = "verified = TRUE AND active = TRUE"
	ReviewVisibleClause  = "status = 'approved'"
)

// IsListingVisible reports whether a listing may be shown publicly.
func IsListingVisible(verified, active bool) bool {
	return verified && active
}

// IsReviewVisible reports whether a review may be shown publicly.
func IsReviewVisible(status model.ReviewStatus) bool {
	return status == model.ReviewApproved
}

// Listing is a convenience wrapper over IsListingVisible.
func Listing(l *model.Listing) bool {
	return l != nil && IsListingVisible(l.Verified, l.Active)
}

// Review is a convenience wrapper over IsReviewVisible.
func Review(r *model.Review) bool {
	return r != nil && IsReviewVisible(r.Status)
}

// ValidReviewStatus reports whether s is one of the known review states.
func ValidReviewStatus(s model.ReviewStatus) bool {
	switch s {
	case model.ReviewPending, model.ReviewApproved, model.ReviewRejected:
		return true
	}
	return false
}

// TransitionReview checks a moderation move. Only pending reviews can change,
// and only to approved or rejected.
func TransitionReview(from, to model.ReviewStatus) error {
	if !ValidReviewStatus(from) || !ValidReviewStatus(to) {
		return fmt.Errorf("review %q -> %q: %w", from, to, errs.ErrInvalidStatus)
	}
	if from == model.ReviewPending && (to == model.ReviewApproved || to == model.ReviewRejected) {
		return nil
	}
	return fmt.Errorf("review %q -> %q: %w", from, to, errs.ErrInvalidTransition)
}

// TransitionListingVerified checks a change of the verified flag. Approval is
// one-way: unverifying a listing is not supported.
func TransitionListingVerified(from, to bool) error {
	if !from && to {
		return nil
	}
	return fmt.Errorf("listing verified %t -> %t: %w", from, to, errs.ErrInvalidTransition)
}
