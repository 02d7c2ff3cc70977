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

const tagColumns = `uid, name, created_at, updated_at`

// TagRepository provides database access for tags and book links.
type TagRepository struct {
	db *sqlx.DB
}

// NewTagRepository creates a new instance of TagRepository.
func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags ORDER BY name`
	tags := []models.Tag{}
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// FindByName returns a tag by its unique name.
func (r *TagRepository) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE name = $1 LIMIT 1`
	var tag models.Tag
	if err := r.db.GetContext(ctx, &tag, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return &tag, nil
}

// FindByNames returns the tags whose names are in names.
func (r *TagRepository) FindByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(names) == 0 {
		return tags, nil
	}
	query, args, err := sqlx.In(`SELECT `+tagColumns+` FROM tags WHERE name IN (?) ORDER BY name`, names)
	if err != nil {
		return nil, fmt.Errorf("build tags query: %w", err)
	}
	if err := r.db.SelectContext(ctx, &tags, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find tags by names: %w", err)
	}
	return tags, nil
}

// CreateMissing inserts each name that does not exist yet and returns the
// full set of tags for names.
func (r *TagRepository) CreateMissing(ctx context.Context, names []string) ([]models.Tag, error) {
	now := time.Now().UTC()
	const query = `INSERT INTO tags (uid, name, created_at) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`
	for _, name := range names {
		if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), name, now); err != nil {
			return nil, fmt.Errorf("create tag %q: %w", name, err)
		}
	}
	return r.FindByNames(ctx, names)
}

// Link attaches tags to a book, skipping links that already exist, and
// returns how many new links were written.
func (r *TagRepository) Link(ctx context.Context, bookID string, tagIDs []string) (inserted int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin link tags: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO book_tags (book_uid, tag_uid) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, tagID := range tagIDs {
		res, execErr := tx.ExecContext(ctx, query, bookID, tagID)
		if execErr != nil {
			err = fmt.Errorf("link tag %s: %w", tagID, execErr)
			return 0, err
		}
		if n, rowsErr := res.RowsAffected(); rowsErr == nil {
			inserted += n
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit link tags: %w", err)
	}
	return inserted, nil
}

// DeleteByName removes a tag and its book links.
func (r *TagRepository) DeleteByName(ctx context.Context, name string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tag: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var tagID string
	if err = tx.GetContext(ctx, &tagID, `SELECT uid FROM tags WHERE name = $1`, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("find tag for delete: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM book_tags WHERE tag_uid = $1`, tagID); err != nil {
		return fmt.Errorf("delete tag links: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM tags WHERE uid = $1`, tagID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tag: %w", err)
	}
	return nil
}
