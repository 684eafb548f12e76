package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"rental-service/internal/errs"
	"rental-service/internal/model"
	"rental-service/internal/visibility"
)

// ReviewStore is the review persistence used by ReviewService.
type ReviewStore interface {
	Insert(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id string) (*model.Review, error)
	FindVisibleByListing(ctx context.Context, listingID string) ([]model.Review, error)
	FindVisibleByUser(ctx context.Context, userID string) ([]model.Review, error)
	FindPending(ctx context.Context, limit, offset int) ([]model.Review, error)
	UpdateStatus(ctx context.Context, id string, from, to model.ReviewStatus) error
	RecalcAverage(ctx context.Context, listingID string) error
}

// ListingChecker reports whether a listing exists.
type ListingChecker interface {
	Exists(ctx context.Context, listingID string) (bool, error)
}

// ReviewInput is what a reviewer submits.
type ReviewInput struct {
	ReviewerID     string
	ReviewedUserID string
	ListingID      *string
	Rating         int
	Comment        *string
}

// ReviewService contains business logic for reviews.
type ReviewService struct {
	reviewRepo  ReviewStore
	listingRepo ListingChecker
	notifier    *Notifier
	users       UserDirectory
	log         *logrus.Entry
}

// NewReviewService constructs a ReviewService with its required collaborators.
func NewReviewService(
	rr ReviewStore,
	lr ListingChecker,
	notifier *Notifier,
	users UserDirectory,
	log *logrus.Entry,
) *ReviewService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ReviewService{
		reviewRepo:  rr,
		listingRepo: lr,
		notifier:    notifier,
		users:       users,
		log:         log,
	}
}

// CreateReview validates and stores a pending review, then tells the
// reviewed user about it. The review is created even if the notification
// fails.
func (s *ReviewService) CreateReview(ctx context.Context, in ReviewInput) (*model.Review, DispatchOutcome, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, DispatchOutcome{}, errs.ErrInvalidRating
	}
	if in.ReviewedUserID == "" || in.ReviewerID == "" {
		return nil, DispatchOutcome{}, fmt.Errorf("ReviewService.CreateReview: reviewer and reviewed user are required: %w", errs.ErrInvalidEvent)
	}

	if in.ListingID != nil {
		exists, err := s.listingRepo.Exists(ctx, *in.ListingID)
		if err != nil {
			return nil, DispatchOutcome{}, fmt.Errorf("ReviewService.CreateReview: checking listing exists: %w", err)
		}
		if !exists {
			return nil, DispatchOutcome{}, fmt.Errorf("ReviewService.CreateReview: listing %s: %w", *in.ListingID, errs.ErrListingNotFound)
		}
	}

	rev := &model.Review{
		ReviewerID:     in.ReviewerID,
		ReviewedUserID: in.ReviewedUserID,
		ListingID:      in.ListingID,
		Rating:         in.Rating,
		Comment:        in.Comment,
	}
	if err := s.reviewRepo.Insert(ctx, rev); err != nil {
		return nil, DispatchOutcome{}, fmt.Errorf("ReviewService.CreateReview: insert: %w", err)
	}

	reviewer := lookupUser(ctx, s.users, s.log, in.ReviewerID)
	reviewed := lookupUser(ctx, s.users, s.log, in.ReviewedUserID)
	name := reviewer.Name
	if name == "" {
		name = "Someone"
	}
	out := s.notifier.NotifyNewReview(ctx, in.ReviewedUserID, name, reviewed.Email)
	if out.Err != nil {
		s.log.WithError(out.Err).WithField("review_id", rev.ID).Warn("review created but notification incomplete")
	}
	return rev, out, nil
}

// Get returns a single review. Unapproved reviews are only shown to their
// author, the reviewed user and admins; everyone else gets ErrReviewNotFound.
func (s *ReviewService) Get(ctx context.Context, id, viewerID string, isAdmin bool) (*model.Review, error) {
	rev, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if visibility.Review(rev) || isAdmin {
		return rev, nil
	}
	if viewerID != "" && (viewerID == rev.ReviewerID || viewerID == rev.ReviewedUserID) {
		return rev, nil
	}
	return nil, errs.ErrReviewNotFound
}

// GetReviews returns the visible reviews of a listing.
func (s *ReviewService) GetReviews(ctx context.Context, listingID string) ([]model.Review, error) {
	exists, err := s.listingRepo.Exists(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.GetReviews: checking listing exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("ReviewService.GetReviews: listing %s: %w", listingID, errs.ErrListingNotFound)
	}

	reviews, err := s.reviewRepo.FindVisibleByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.GetReviews: %w", err)
	}
	return reviews, nil
}

// GetUserReviews returns the visible reviews about a user.
func (s *ReviewService) GetUserReviews(ctx context.Context, userID string) ([]model.Review, error) {
	reviews, err := s.reviewRepo.FindVisibleByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.GetUserReviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) ListPending(ctx context.Context, limit, offset int) ([]model.Review, error) {
	limit, offset = clampPage(limit, offset)
	return s.reviewRepo.FindPending(ctx, limit, offset)
}

// Approve makes a pending review public and refreshes the listing rating.
func (s *ReviewService) Approve(ctx context.Context, id string) (*model.Review, error) {
	rev, err := s.moderate(ctx, id, model.ReviewApproved)
	if err != nil {
		return nil, err
	}
	if rev.ListingID != nil {
		if err := s.reviewRepo.RecalcAverage(ctx, *rev.ListingID); err != nil {
			s.log.WithError(err).WithField("listing_id", *rev.ListingID).Error("recalculating average rating failed")
		}
	}
	return rev, nil
}

// Reject closes a pending review for good.
func (s *ReviewService) Reject(ctx context.Context, id string) (*model.Review, error) {
	return s.moderate(ctx, id, model.ReviewRejected)
}

func (s *ReviewService) moderate(ctx context.Context, id string, to model.ReviewStatus) (*model.Review, error) {
	rev, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := visibility.TransitionReview(rev.Status, to); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.UpdateStatus(ctx, id, rev.Status, to); err != nil {
		return nil, err
	}
	rev.Status = to
	return rev, nil
}
