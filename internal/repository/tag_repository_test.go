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
)

func TestTagCreateMissingIsIdempotent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTagRepository(db)

	mock.ExpectExec("INSERT INTO tags .* ON CONFLICT \\(name\\) DO NOTHING").
		WithArgs(sqlmock.AnyArg(), "classic", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO tags .* ON CONFLICT \\(name\\) DO NOTHING").
		WithArgs(sqlmock.AnyArg(), "scifi", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	now := time.Now()
	mock.ExpectQuery("FROM tags WHERE name IN").
		WithArgs("classic", "scifi").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "name", "created_at", "updated_at"}).
			AddRow("t1", "classic", now, nil).
			AddRow("t2", "scifi", now, nil))

	tags, err := repo.CreateMissing(context.Background(), []string{"classic", "scifi"})
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagLinkInTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTagRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO book_tags (book_uid, tag_uid) VALUES ($1, $2) ON CONFLICT DO NOTHING")).
		WithArgs("b1", "t1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO book_tags")).
		WithArgs("b1", "t2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	inserted, err := repo.Link(context.Background(), "b1", []string{"t1", "t2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagDeleteByNameRemovesLinks(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTagRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT uid FROM tags WHERE name = $1")).
		WithArgs("classic").
		WillReturnRows(sqlmock.NewRows([]string{"uid"}).AddRow("t1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM book_tags WHERE tag_uid = $1")).WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tags WHERE uid = $1")).WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteByName(context.Background(), "classic"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagDeleteByNameMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTagRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT uid FROM tags").WithArgs("nope").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.DeleteByName(context.Background(), "nope"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
