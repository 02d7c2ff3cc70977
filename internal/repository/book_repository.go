package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/bookly-api/internal/models"
)

const bookColumns = `b.uid, b.title, b.author, b.publisher, b.page_count, b.language, b.published_date, b.user_uid, b.created_at, b.updated_at`

// BookRepository provides database access for books.
type BookRepository struct {
	db *sqlx.DB
}

// NewBookRepository creates a new instance of BookRepository.
func NewBookRepository(db *sqlx.DB) *BookRepository {
	return &BookRepository{db: db}
}

// List returns books matching the filter, newest first, with total count.
func (r *BookRepository) List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	baseQuery := `FROM books b`
	var conditions []string
	var args []interface{}

	if filter.TagName != "" {
		baseQuery += ` JOIN book_tags bt ON bt.book_uid = b.uid JOIN tags t ON t.uid = bt.tag_uid`
		conditions = append(conditions, fmt.Sprintf("t.name = $%d", len(args)+1))
		args = append(args, filter.TagName)
	}
	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("b.user_uid = $%d", len(args)+1))
		args = append(args, filter.OwnerID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(b.title) LIKE $%d OR LOWER(b.author) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY b.created_at DESC LIMIT %d OFFSET %d", bookColumns, baseQuery, pageSize, offset)
	books := []models.Book{}
	if err := r.db.SelectContext(ctx, &books, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	return books, total, nil
}

// ListAll returns every book matching the owner filter without paging.
func (r *BookRepository) ListAll(ctx context.Context, ownerID string) ([]models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books b`
	var args []interface{}
	if ownerID != "" {
		query += ` WHERE b.user_uid = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY b.created_at DESC`

	books := []models.Book{}
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("list all books: %w", err)
	}
	return books, nil
}

// FindByID returns a book by identifier.
func (r *BookRepository) FindByID(ctx context.Context, id string) (*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books b WHERE b.uid = $1 LIMIT 1`
	var book models.Book
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find book by id: %w", err)
	}
	return &book, nil
}

// Create inserts a new book.
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO books (uid, title, author, publisher, page_count, language, published_date, user_uid, created_at) VALUES (:uid, :title, :author, :publisher, :page_count, :language, :published_date, :user_uid, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, book); err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// Update persists mutable fields and stamps updated_at.
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	now := time.Now().UTC()
	book.UpdatedAt = &now
	const query = `UPDATE books SET title = :title, author = :author, publisher = :publisher, page_count = :page_count, language = :language, published_date = :published_date, updated_at = :updated_at WHERE uid = :uid`
	if _, err := r.db.NamedExecContext(ctx, query, book); err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// Delete removes a book together with its reviews and tag links.
func (r *BookRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete book: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM reviews WHERE book_uid = $1`, id); err != nil {
		return fmt.Errorf("delete book reviews: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM book_tags WHERE book_uid = $1`, id); err != nil {
		return fmt.Errorf("delete book tags: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM books WHERE uid = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if n, rowsErr := res.RowsAffected(); rowsErr == nil && n == 0 {
		err = sql.ErrNoRows
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete book: %w", err)
	}
	return nil
}

// TagsForBooks loads the tags attached to each of the given books.
func (r *BookRepository) TagsForBooks(ctx context.Context, bookIDs []string) (map[string][]models.Tag, error) {
	result := make(map[string][]models.Tag, len(bookIDs))
	if len(bookIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT bt.book_uid, t.uid, t.name, t.created_at, t.updated_at FROM book_tags bt JOIN tags t ON t.uid = bt.tag_uid WHERE bt.book_uid IN (?) ORDER BY t.name`, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("build book tags query: %w", err)
	}

	var rows []struct {
		BookID string `db:"book_uid"`
		models.Tag
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load book tags: %w", err)
	}
	for _, row := range rows {
		result[row.BookID] = append(result[row.BookID], row.Tag)
	}
	return result, nil
}
