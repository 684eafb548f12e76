package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rental-service/internal/errs"
	"rental-service/internal/model"
	"rental-service/internal/visibility"
)

const reviewColumns = `id, status, reviewer_id, reviewed_user_id, listing_id, rating, comment, created_at`

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Insert saves a new pending review and fills in its generated ID and created_at.
func (r *ReviewRepository) Insert(ctx context.Context, review *model.Review) error {
	const insertQuery = `
		INSERT INTO reviews (status, reviewer_id, reviewed_user_id, listing_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	review.Status = model.ReviewPending

	err := r.db.QueryRowxContext(ctx, insertQuery,
		review.Status,
		review.ReviewerID,
		review.ReviewedUserID,
		review.ListingID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("ReviewRepository.Insert: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	err := r.db.GetContext(ctx, &review, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ReviewRepository.GetByID: %w", err)
	}
	return &review, nil
}

// FindVisibleByListing returns approved reviews of a listing, newest first.
func (r *ReviewRepository) FindVisibleByListing(ctx context.Context, listingID string) ([]model.Review, error) {
	reviews := make([]model.Review, 0)
	query := `SELECT ` + reviewColumns + ` FROM reviews
		WHERE listing_id = $1 AND ` + visibility.ReviewVisibleClause + `
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &reviews, query, listingID); err != nil {
		return nil, fmt.Errorf("ReviewRepository.FindVisibleByListing: %w", err)
	}
	return reviews, nil
}

// FindVisibleByUser returns approved reviews about a user, newest first.
func (r *ReviewRepository) FindVisibleByUser(ctx context.Context, userID string) ([]model.Review, error) {
	reviews := make([]model.Review, 0)
	query := `SELECT ` + reviewColumns + ` FROM reviews
		WHERE reviewed_user_id = $1 AND ` + visibility.ReviewVisibleClause + `
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &reviews, query, userID); err != nil {
		return nil, fmt.Errorf("ReviewRepository.FindVisibleByUser: %w", err)
	}
	return reviews, nil
}

// FindPending returns reviews awaiting moderation, oldest first.
func (r *ReviewRepository) FindPending(ctx context.Context, limit, offset int) ([]model.Review, error) {
	reviews := make([]model.Review, 0)
	query := `SELECT ` + reviewColumns + ` FROM reviews
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &reviews, query, model.ReviewPending, limit, offset); err != nil {
		return nil, fmt.Errorf("ReviewRepository.FindPending: %w", err)
	}
	return reviews, nil
}

// UpdateStatus moves a review from one status to another. The update only
// applies while the review is still in status from, so concurrent moderators
// cannot both win.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, from, to model.ReviewStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reviews SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return fmt.Errorf("ReviewRepository.UpdateStatus: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ReviewRepository.UpdateStatus rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ReviewRepository.UpdateStatus %s: %w", id, errs.ErrInvalidTransition)
	}
	return nil
}

// RecalcAverage recalculates the average rating of a listing over its
// approved reviews and stores it on the listing.
func (r *ReviewRepository) RecalcAverage(ctx context.Context, listingID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReviewRepository.BeginTxx: %w", err)
	}
	defer tx.Rollback()

	var avg float64
	avgQuery := `
		SELECT COALESCE(AVG(rating)::numeric(3,2), 0)
		FROM reviews
		WHERE listing_id = $1 AND ` + visibility.ReviewVisibleClause
	if err := tx.GetContext(ctx, &avg, avgQuery, listingID); err != nil {
		return fmt.Errorf("ReviewRepository get avg: %w", err)
	}

	const updateQuery = `
		UPDATE listings
		SET average_rating = $1
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, updateQuery, avg, listingID); err != nil {
		return fmt.Errorf("ReviewRepository update avg: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ReviewRepository commit: %w", err)
	}
	return nil
}
