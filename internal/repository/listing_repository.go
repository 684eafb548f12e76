package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rental-service/internal/errs"
	"rental-service/internal/model"
	"rental-service/internal/visibility"
)

const listingColumns = `id, owner_id, title, description, price, category, city, region, type,
	verified, active, average_rating, created_at, updated_at`

type ListingRepository struct {
	DB *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{DB: db}
}

// Create inserts a new listing. New listings are always unverified and inactive.
func (r *ListingRepository) Create(ctx context.Context, l *model.Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.Verified = false
	l.Active = false
	l.AverageRating = 0
	l.CreatedAt = now
	l.UpdatedAt = now

	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO listings
			(id, owner_id, title, description, price, category, city, region, type, verified, active, average_rating, created_at, updated_at)
		VALUES
			(:id, :owner_id, :title, :description, :price, :category, :city, :region, :type, :verified, :active, :average_rating, :created_at, :updated_at)
	`, l)
	if err != nil {
		return fmt.Errorf("ListingRepository.Create: %w", err)
	}
	return nil
}

// GetByID loads a listing regardless of its visibility.
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	var l model.Listing
	err := r.DB.GetContext(ctx, &l, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.GetByID: %w", err)
	}
	return &l, nil
}

// GetVisible returns publicly visible listings matching the filter, newest first.
func (r *ListingRepository) GetVisible(ctx context.Context, f model.ListingFilter) ([]model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE ` + visibility.ListingVisibleClause
	args := []interface{}{}
	idx := 1

	if f.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", idx)
		args = append(args, f.Category)
		idx++
	}
	if f.City != "" {
		query += fmt.Sprintf(" AND city = $%d", idx)
		args = append(args, f.City)
		idx++
	}
	if f.MinPrice != nil {
		query += fmt.Sprintf(" AND price >= $%d", idx)
		args = append(args, *f.MinPrice)
		idx++
	}
	if f.MaxPrice != nil {
		query += fmt.Sprintf(" AND price <= $%d", idx)
		args = append(args, *f.MaxPrice)
		idx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, f.Limit, f.Offset)

	listings := make([]model.Listing, 0)
	if err := r.DB.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("ListingRepository.GetVisible: %w", err)
	}
	return listings, nil
}

// GetPending returns listings awaiting moderation.
func (r *ListingRepository) GetPending(ctx context.Context, limit, offset int) ([]model.Listing, error) {
	list := make([]model.Listing, 0)
	err := r.DB.SelectContext(ctx, &list, `
		SELECT `+listingColumns+` FROM listings
		WHERE verified = FALSE
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.GetPending: %w", err)
	}
	return list, nil
}

// Verify flips verified to true. It affects nothing if the listing is
// already verified, which is reported as ErrInvalidTransition.
func (r *ListingRepository) Verify(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE listings SET verified = TRUE, updated_at = now() WHERE id = $1 AND verified = FALSE
	`, id)
	if err != nil {
		return fmt.Errorf("ListingRepository.Verify: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ListingRepository.Verify rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ListingRepository.Verify %s: %w", id, errs.ErrInvalidTransition)
	}
	return nil
}

// SetActive publishes or unpublishes a listing.
func (r *ListingRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE listings SET active = $1, updated_at = now() WHERE id = $2
	`, active, id)
	if err != nil {
		return fmt.Errorf("ListingRepository.SetActive: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ListingRepository.SetActive rows affected: %w", err)
	}
	if n == 0 {
		return errs.ErrListingNotFound
	}
	return nil
}

// Update saves owner-editable fields. Moderation flags are never written here.
func (r *ListingRepository) Update(ctx context.Context, l *model.Listing) error {
	l.UpdatedAt = time.Now().UTC()
	res, err := r.DB.NamedExecContext(ctx, `
		UPDATE listings SET
			title       = :title,
			description = :description,
			price       = :price,
			category    = :category,
			city        = :city,
			region      = :region,
			type        = :type,
			updated_at  = :updated_at
		WHERE id = :id
	`, l)
	if err != nil {
		return fmt.Errorf("ListingRepository.Update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ListingRepository.Update rows affected: %w", err)
	}
	if n == 0 {
		return errs.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ListingRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ListingRepository.Delete rows affected: %w", err)
	}
	if n == 0 {
		return errs.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Exists(ctx context.Context, listingID string) (bool, error) {
	var count int
	const q = `SELECT COUNT(1) FROM listings WHERE id = $1`
	if err := r.DB.GetContext(ctx, &count, q, listingID); err != nil {
		return false, fmt.Errorf("ListingRepository.Exists: %w", err)
	}
	return count > 0, nil
}
