package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bookly-api/internal/models"
)

var reviewColumnNames = []string{"uid", "review_text", "rating", "book_uid", "user_uid", "created_at", "updated_at"}

func TestReviewListByBook(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(reviewColumnNames).
		AddRow("r1", "great", 4.5, "b1", "u1", now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + reviewColumns + " FROM reviews WHERE book_uid = $1 ORDER BY created_at DESC")).
		WithArgs("b1").
		WillReturnRows(rows)

	reviews, err := repo.ListByBook(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4.5, reviews[0].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewUpdateStampsTimestamp(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("UPDATE reviews SET review_text").WillReturnResult(sqlmock.NewResult(0, 1))

	review := &models.Review{ID: "r1", ReviewText: "better", Rating: 5}
	require.NoError(t, repo.Update(context.Background(), review))
	assert.NotNil(t, review.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE uid = $1")).WithArgs("r9").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "r9"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
