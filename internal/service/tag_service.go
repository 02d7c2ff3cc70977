package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/bookly-api/internal/dto"
	"github.com/noah-isme/bookly-api/internal/models"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
)

const tagsCacheKey = "tags:all"

type tagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	FindByName(ctx context.Context, name string) (*models.Tag, error)
	FindByNames(ctx context.Context, names []string) ([]models.Tag, error)
	CreateMissing(ctx context.Context, names []string) ([]models.Tag, error)
	Link(ctx context.Context, bookID string, tagIDs []string) (int64, error)
	DeleteByName(ctx context.Context, name string) error
}

type tagCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}

// TagService implements tag use cases with a cached tag list.
type TagService struct {
	repo      tagRepository
	books     *BookService
	cache     tagCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTagService constructs a TagService. cache may be nil.
func NewTagService(repo tagRepository, books *BookService, cache tagCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *TagService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TagService{repo: repo, books: books, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns all tags and reports whether the result came from cache.
func (s *TagService) List(ctx context.Context) ([]models.Tag, bool, error) {
	var tags []models.Tag
	if s.cache != nil && s.cache.Get(ctx, tagsCacheKey, &tags) {
		return tags, true, nil
	}
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tags")
	}
	if s.cache != nil {
		s.cache.Set(ctx, tagsCacheKey, tags, s.cacheTTL)
	}
	return tags, false, nil
}

// Create adds every name not yet present and returns the tags for all names.
func (s *TagService) Create(ctx context.Context, req dto.TagsRequest) ([]models.Tag, error) {
	names, err := s.names(req)
	if err != nil {
		return nil, err
	}
	tags, err := s.repo.CreateMissing(ctx, names)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tags")
	}
	s.invalidate(ctx)
	return tags, nil
}

// Assign links existing tags to a book owned by userID. Unknown names are skipped.
func (s *TagService) Assign(ctx context.Context, userID, bookID string, req dto.TagsRequest) ([]models.BookTag, error) {
	names, err := s.names(req)
	if err != nil {
		return nil, err
	}
	book, err := s.books.load(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.OwnedBy(userID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only book owner is allowed to tag this book")
	}

	tags, err := s.repo.FindByNames(ctx, names)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tags")
	}
	if len(tags) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "none of the tags exist")
	}

	ids := make([]string, len(tags))
	links := make([]models.BookTag, len(tags))
	for i, tag := range tags {
		ids[i] = tag.ID
		links[i] = models.BookTag{BookID: bookID, TagID: tag.ID}
	}
	inserted, err := s.repo.Link(ctx, bookID, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign tags")
	}
	if inserted == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "book already has these tags")
	}
	return links, nil
}

// BooksByTag lists the books carrying the named tag.
func (s *TagService) BooksByTag(ctx context.Context, name string, filter models.BookFilter) ([]models.Book, *models.Pagination, error) {
	if _, err := s.repo.FindByName(ctx, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "tag not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tag")
	}
	filter.TagName = name
	return s.books.List(ctx, filter)
}

// Delete removes a tag and all of its book links.
func (s *TagService) Delete(ctx context.Context, name string) error {
	if err := s.repo.DeleteByName(ctx, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "tag not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tag")
	}
	s.invalidate(ctx)
	s.logger.Info("tag deleted", zap.String("tag", name))
	return nil
}

func (s *TagService) names(req dto.TagsRequest) ([]string, error) {
	if err := s.validator.Var(req, "min=1,dive"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tags payload")
	}
	names := req.Names()
	if len(names) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one tag name is required")
	}
	return names, nil
}

func (s *TagService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, tagsCacheKey)
	}
}
