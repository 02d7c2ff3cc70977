package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/bookly-api/internal/dto"
	"github.com/noah-isme/bookly-api/internal/models"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
	"github.com/noah-isme/bookly-api/pkg/export"
)

type bookRepository interface {
	List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error)
	ListAll(ctx context.Context, ownerID string) ([]models.Book, error)
	FindByID(ctx context.Context, id string) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id string) error
	TagsForBooks(ctx context.Context, bookIDs []string) (map[string][]models.Tag, error)
}

// ExportFile is a rendered book export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// BookService implements catalogue use cases.
type BookService struct {
	repo      bookRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookService constructs a BookService.
func NewBookService(repo bookRepository, validate *validator.Validate, logger *zap.Logger) *BookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BookService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns a page of books with their tags.
func (s *BookService) List(ctx context.Context, filter models.BookFilter) ([]models.Book, *models.Pagination, error) {
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize)
	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list books")
	}
	if err := s.attachTags(ctx, books); err != nil {
		return nil, nil, err
	}
	return books, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a single book with its tags.
func (s *BookService) Get(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	books := []models.Book{*book}
	if err := s.attachTags(ctx, books); err != nil {
		return nil, err
	}
	return &books[0], nil
}

// Create adds a book owned by ownerID.
func (s *BookService) Create(ctx context.Context, ownerID string, req dto.CreateBookRequest) (*models.Book, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid book payload")
	}
	published, err := models.ParseDate(req.PublishedDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid published_date")
	}

	book := &models.Book{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PageCount:     req.PageCount,
		Language:      req.Language,
		PublishedDate: published,
		UserID:        &ownerID,
		Tags:          []models.Tag{},
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create book")
	}
	return book, nil
}

// Update patches a book. Only its owner or an admin may change it.
func (s *BookService) Update(ctx context.Context, actor *models.User, id string, req dto.UpdateBookRequest) (*models.Book, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid book payload")
	}
	book, err := s.loadForWrite(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.PageCount != nil {
		book.PageCount = *req.PageCount
	}
	if req.Language != nil {
		book.Language = *req.Language
	}
	if req.PublishedDate != nil {
		published, err := models.ParseDate(*req.PublishedDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid published_date")
		}
		book.PublishedDate = published
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update book")
	}
	return s.Get(ctx, id)
}

// Delete removes a book with its reviews and tag links.
func (s *BookService) Delete(ctx context.Context, actor *models.User, id string) error {
	if _, err := s.loadForWrite(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete book")
	}
	s.logger.Info("book deleted", zap.String("book_id", id), zap.String("actor_id", actor.ID))
	return nil
}

// Export renders books as CSV or PDF. An empty ownerID exports the whole catalogue.
func (s *BookService) Export(ctx context.Context, ownerID string, format export.Format) (*ExportFile, error) {
	books, err := s.repo.ListAll(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load books")
	}

	table := export.Table{
		Title:   "Books",
		Columns: []string{"uid", "title", "author", "publisher", "page_count", "language", "published_date"},
		Rows:    make([][]string, 0, len(books)),
	}
	for _, b := range books {
		table.Rows = append(table.Rows, []string{b.ID, b.Title, b.Author, b.Publisher, strconv.Itoa(b.PageCount), b.Language, b.PublishedDate.String()})
	}

	body, err := export.RendererFor(format).Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("books-%s.%s", s.now().UTC().Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func (s *BookService) load(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	return book, nil
}

func (s *BookService) loadForWrite(ctx context.Context, actor *models.User, id string) (*models.Book, error) {
	book, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && !book.OwnedBy(actor.ID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only book owner is allowed to perform this")
	}
	return book, nil
}

func (s *BookService) attachTags(ctx context.Context, books []models.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]string, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}
	tags, err := s.repo.TagsForBooks(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book tags")
	}
	for i := range books {
		books[i].Tags = tags[books[i].ID]
		if books[i].Tags == nil {
			books[i].Tags = []models.Tag{}
		}
	}
	return nil
}
