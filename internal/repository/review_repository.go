package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/bookly-api/internal/models"
)

const reviewColumns = `uid, review_text, rating, book_uid, user_uid, created_at, updated_at`

// ReviewRepository provides database access for reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// List returns all reviews, newest first.
func (r *ReviewRepository) List(ctx context.Context) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`
	reviews := []models.Review{}
	if err := r.db.SelectContext(ctx, &reviews, query); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// ListByBook returns the reviews written for a book.
func (r *ReviewRepository) ListByBook(ctx context.Context, bookID string) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE book_uid = $1 ORDER BY created_at DESC`
	reviews := []models.Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, bookID); err != nil {
		return nil, fmt.Errorf("list reviews by book: %w", err)
	}
	return reviews, nil
}

// FindByID returns a review by identifier.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE uid = $1 LIMIT 1`
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find review by id: %w", err)
	}
	return &review, nil
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reviews (uid, review_text, rating, book_uid, user_uid, created_at) VALUES (:uid, :review_text, :rating, :book_uid, :user_uid, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// Update persists text and rating and stamps updated_at.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	now := time.Now().UTC()
	review.UpdatedAt = &now
	const query = `UPDATE reviews SET review_text = :review_text, rating = :rating, updated_at = :updated_at WHERE uid = :uid`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE uid = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
