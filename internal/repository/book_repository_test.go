package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bookly-api/internal/models"
)

var bookColumnNames = []string{"uid", "title", "author", "publisher", "page_count", "language", "published_date", "user_uid", "created_at", "updated_at"}

func TestBookListByOwner(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	now := time.Now()
	published := time.Date(1999, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(bookColumnNames).
		AddRow("b1", "Dune", "Herbert", "Chilton", 412, "en", published, "u1", now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + bookColumns + " FROM books b WHERE b.user_uid = $1 ORDER BY b.created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("u1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM books b WHERE b.user_uid = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	books, total, err := repo.List(context.Background(), models.BookFilter{OwnerID: "u1"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "1999-05-01", books[0].PublishedDate.String())
	assert.True(t, books[0].OwnedBy("u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookListByTagJoinsLinks(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN book_tags bt ON bt.book_uid = b.uid JOIN tags t ON t.uid = bt.tag_uid WHERE t.name = $1")).
		WithArgs("scifi").
		WillReturnRows(sqlmock.NewRows(bookColumnNames))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM books b JOIN book_tags")).
		WithArgs("scifi").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	books, total, err := repo.List(context.Background(), models.BookFilter{TagName: "scifi"})
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookDeleteRemovesDependents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE book_uid = $1")).WithArgs("b1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM book_tags WHERE book_uid = $1")).WithArgs("b1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM books WHERE uid = $1")).WithArgs("b1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "b1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookDeleteMissingRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reviews").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM book_tags").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM books").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookDeleteFailureRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reviews").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	assert.Error(t, repo.Delete(context.Background(), "b1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	mock.ExpectExec("INSERT INTO books").WillReturnResult(sqlmock.NewResult(1, 1))

	owner := "u1"
	book := &models.Book{Title: "Dune", Author: "Herbert", Publisher: "Chilton", PageCount: 412, Language: "en", PublishedDate: models.NewDate(time.Now()), UserID: &owner}
	require.NoError(t, repo.Create(context.Background(), book))
	assert.NotEmpty(t, book.ID)
	assert.False(t, book.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagsForBooksGroupsByBook(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBookRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"book_uid", "uid", "name", "created_at", "updated_at"}).
		AddRow("b1", "t1", "classic", now, nil).
		AddRow("b1", "t2", "scifi", now, nil).
		AddRow("b2", "t2", "scifi", now, nil)
	mock.ExpectQuery("FROM book_tags bt JOIN tags t ON t.uid = bt.tag_uid WHERE bt.book_uid IN").
		WithArgs("b1", "b2").
		WillReturnRows(rows)

	tags, err := repo.TagsForBooks(context.Background(), []string{"b1", "b2"})
	require.NoError(t, err)
	assert.Len(t, tags["b1"], 2)
	assert.Equal(t, "scifi", tags["b2"][0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
