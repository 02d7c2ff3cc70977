package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bookly-api/internal/dto"
	"github.com/noah-isme/bookly-api/internal/models"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
)

type fakeReviewRepo struct {
	reviews map[string]*models.Review
}

func (r *fakeReviewRepo) List(ctx context.Context) ([]models.Review, error) {
	out := []models.Review{}
	for _, rv := range r.reviews {
		out = append(out, *rv)
	}
	return out, nil
}

func (r *fakeReviewRepo) ListByBook(ctx context.Context, bookID string) ([]models.Review, error) {
	out := []models.Review{}
	for _, rv := range r.reviews {
		if rv.BookID == bookID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) FindByID(ctx context.Context, id string) (*models.Review, error) {
	rv, ok := r.reviews[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *rv
	return &clone, nil
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error {
	review.ID = "r-new"
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) Update(ctx context.Context, review *models.Review) error {
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id string) error {
	delete(r.reviews, id)
	return nil
}

func floatPtr(f float64) *float64 { return &f }

func newReviewFixture() (*ReviewService, *fakeReviewRepo) {
	repo := &fakeReviewRepo{reviews: map[string]*models.Review{
		"r1": {ID: "r1", ReviewText: "loved it", Rating: 4, BookID: "b1", UserID: "author"},
	}}
	books := newFakeBookRepo(sampleBook("b1", "owner"))
	return NewReviewService(repo, books, nil, nil), repo
}

func TestReviewServiceCreate(t *testing.T) {
	svc, _ := newReviewFixture()

	review, err := svc.Create(context.Background(), "reader", "b1", dto.CreateReviewRequest{ReviewText: "fine", Rating: floatPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, "reader", review.UserID)
	assert.Equal(t, 0.0, review.Rating)

	_, err = svc.Create(context.Background(), "reader", "missing", dto.CreateReviewRequest{ReviewText: "fine", Rating: floatPtr(3)})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Create(context.Background(), "reader", "b1", dto.CreateReviewRequest{ReviewText: "too good", Rating: floatPtr(6)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReviewServiceAuthorOnly(t *testing.T) {
	svc, repo := newReviewFixture()
	ctx := context.Background()

	_, err := svc.Update(ctx, "someone", "r1", dto.UpdateReviewRequest{Rating: floatPtr(1)})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, "someone", "r1"), appErrors.ErrForbidden)

	updated, err := svc.Update(ctx, "author", "r1", dto.UpdateReviewRequest{Rating: floatPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Rating)
	assert.Equal(t, "loved it", updated.ReviewText)

	require.NoError(t, svc.Delete(ctx, "author", "r1"))
	assert.Empty(t, repo.reviews)
	assert.ErrorIs(t, svc.Delete(ctx, "author", "r1"), appErrors.ErrNotFound)
}

func TestReviewServiceListByBook(t *testing.T) {
	svc, _ := newReviewFixture()

	reviews, err := svc.ListByBook(context.Background(), "b1")
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = svc.ListByBook(context.Background(), "nope")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
