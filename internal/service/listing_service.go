package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"rental-service/internal/errs"
	"rental-service/internal/model"
	"rental-service/internal/visibility"
)

// ListingStore is the listing persistence used by ListingService.
type ListingStore interface {
	Create(ctx context.Context, l *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	GetVisible(ctx context.Context, f model.ListingFilter) ([]model.Listing, error)
	GetPending(ctx context.Context, limit, offset int) ([]model.Listing, error)
	Verify(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	Update(ctx context.Context, l *model.Listing) error
	Delete(ctx context.Context, id string) error
}

// ListingInput holds the owner-editable fields of a listing.
type ListingInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	City        string
	Region      string
	Type        string
}

// ListingService runs the listing lifecycle: owners create and publish,
// moderators verify.
type ListingService struct {
	repo     ListingStore
	notifier *Notifier
	users    UserDirectory
	log      *logrus.Entry
}

func NewListingService(repo ListingStore, notifier *Notifier, users UserDirectory, log *logrus.Entry) *ListingService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ListingService{repo: repo, notifier: notifier, users: users, log: log}
}

// Create stores a new listing for ownerID. It stays hidden until verified
// and published.
func (s *ListingService) Create(ctx context.Context, ownerID string, in ListingInput) (*model.Listing, error) {
	l := &model.Listing{OwnerID: ownerID}
	applyListingInput(l, in)
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("ListingService.Create: %w", err)
	}
	return l, nil
}

// Get returns a listing to viewerID. Hidden listings are only shown to
// their owner and to admins; everyone else gets ErrListingNotFound.
func (s *ListingService) Get(ctx context.Context, id, viewerID string, isAdmin bool) (*model.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if visibility.Listing(l) || isAdmin || (viewerID != "" && viewerID == l.OwnerID) {
		return l, nil
	}
	return nil, errs.ErrListingNotFound
}

// ListVisible returns public listings. Limit defaults to 10 and is capped at 100.
func (s *ListingService) ListVisible(ctx context.Context, f model.ListingFilter) ([]model.Listing, error) {
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset)
	return s.repo.GetVisible(ctx, f)
}

func (s *ListingService) ListPending(ctx context.Context, limit, offset int) ([]model.Listing, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.GetPending(ctx, limit, offset)
}

// Approve verifies a listing and notifies its owner. A failed notification
// is logged and returned in the outcome; it never undoes the approval.
func (s *ListingService) Approve(ctx context.Context, id string) (*model.Listing, DispatchOutcome, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, DispatchOutcome{}, err
	}
	if err := visibility.TransitionListingVerified(l.Verified, true); err != nil {
		return nil, DispatchOutcome{}, err
	}
	if err := s.repo.Verify(ctx, id); err != nil {
		return nil, DispatchOutcome{}, err
	}
	l.Verified = true

	owner := lookupUser(ctx, s.users, s.log, l.OwnerID)
	out := s.notifier.NotifyListingApproved(ctx, l.OwnerID, l.Title, owner.Email)
	if out.Err != nil {
		s.log.WithError(out.Err).WithField("listing_id", id).Warn("listing approved but notification incomplete")
	}
	return l, out, nil
}

// SetActive publishes or unpublishes a listing on behalf of its owner.
func (s *ListingService) SetActive(ctx context.Context, id, ownerID string, active bool) (*model.Listing, error) {
	l, err := s.ownedListing(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	l.Active = active
	return l, nil
}

func (s *ListingService) Update(ctx context.Context, id, ownerID string, in ListingInput) (*model.Listing, error) {
	l, err := s.ownedListing(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	applyListingInput(l, in)
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes a listing. Only the owner or an admin may do this.
func (s *ListingService) Delete(ctx context.Context, id, userID string, isAdmin bool) error {
	if !isAdmin {
		if _, err := s.ownedListing(ctx, id, userID); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *ListingService) ownedListing(ctx context.Context, id, ownerID string) (*model.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != ownerID {
		return nil, fmt.Errorf("listing %s: %w", id, errs.ErrForbidden)
	}
	return l, nil
}

func applyListingInput(l *model.Listing, in ListingInput) {
	l.Title = in.Title
	l.Description = in.Description
	l.Price = in.Price
	l.Category = in.Category
	l.City = in.City
	l.Region = in.Region
	l.Type = in.Type
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
