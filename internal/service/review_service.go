package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/bookly-api/internal/dto"
	"github.com/noah-isme/bookly-api/internal/models"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
)

type reviewRepository interface {
	List(ctx context.Context) ([]models.Review, error)
	ListByBook(ctx context.Context, bookID string) ([]models.Review, error)
	FindByID(ctx context.Context, id string) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
}

type bookLookup interface {
	FindByID(ctx context.Context, id string) (*models.Book, error)
}

// ReviewService implements review use cases.
type ReviewService struct {
	repo      reviewRepository
	books     bookLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs a ReviewService.
func NewReviewService(repo reviewRepository, books bookLookup, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReviewService{repo: repo, books: books, validator: validate, logger: logger}
}

// List returns every review.
func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, nil
}

// ListByBook returns the reviews of an existing book.
func (s *ReviewService) ListByBook(ctx context.Context, bookID string) ([]models.Review, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, nil
}

// Create records userID's review of bookID.
func (s *ReviewService) Create(ctx context.Context, userID, bookID string, req dto.CreateReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ReviewText: req.ReviewText,
		Rating:     *req.Rating,
		BookID:     bookID,
		UserID:     userID,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}
	return review, nil
}

// Update patches a review written by userID.
func (s *ReviewService) Update(ctx context.Context, userID, id string, req dto.UpdateReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	review, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.ReviewText != nil {
		review.ReviewText = *req.ReviewText
	}
	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update review")
	}
	return review, nil
}

// Delete removes a review written by userID.
func (s *ReviewService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.loadOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete review")
	}
	return nil
}

func (s *ReviewService) ensureBook(ctx context.Context, bookID string) error {
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	return nil
}

func (s *ReviewService) loadOwned(ctx context.Context, userID, id string) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
	}
	if review.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the review author is allowed to perform this")
	}
	return review, nil
}
