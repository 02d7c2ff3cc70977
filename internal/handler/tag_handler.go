package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bookly-api/internal/dto"
	"github.com/noah-isme/bookly-api/internal/middleware"
	"github.com/noah-isme/bookly-api/internal/models"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
	"github.com/noah-isme/bookly-api/pkg/response"
)

type tagService interface {
	List(ctx context.Context) ([]models.Tag, bool, error)
	Create(ctx context.Context, req dto.TagsRequest) ([]models.Tag, error)
	Assign(ctx context.Context, userID, bookID string, req dto.TagsRequest) ([]models.BookTag, error)
	BooksByTag(ctx context.Context, name string, filter models.BookFilter) ([]models.Book, *models.Pagination, error)
	Delete(ctx context.Context, name string) error
}

// TagHandler exposes tag management endpoints.
type TagHandler struct {
	service tagService
}

// NewTagHandler constructs a TagHandler.
func NewTagHandler(svc tagService) *TagHandler {
	return &TagHandler{service: svc}
}

// List godoc
// @Summary List tags
// @Description Served from cache when available
// @Tags Tags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	tags, cached, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, tags, nil, middleware.ExtractMeta(c))
}

// Create godoc
// @Summary Create tags
// @Description Existing names are returned as they are
// @Tags Tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.TagsRequest true "Tag names"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	var req dto.TagsRequest
	if !bindJSON(c, &req, "invalid tag payload") {
		return
	}
	tags, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tags)
}

// Assign godoc
// @Summary Tag a book
// @Tags Tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param book_id path string true "Book ID"
// @Param payload body dto.TagsRequest true "Tag names"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /tags/assign/{book_id} [post]
func (h *TagHandler) Assign(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		return
	}
	bookID, ok := uuidParam(c, "book_id")
	if !ok {
		return
	}
	var req dto.TagsRequest
	if !bindJSON(c, &req, "invalid tag payload") {
		return
	}
	links, err := h.service.Assign(c.Request.Context(), claims.User.ID, bookID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links, nil)
}

// BooksByTag godoc
// @Summary Books carrying a tag
// @Tags Tags
// @Produce json
// @Security BearerAuth
// @Param name path string true "Tag name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tags/{name}/books [get]
func (h *TagHandler) BooksByTag(c *gin.Context) {
	name, ok := tagName(c)
	if !ok {
		return
	}
	var filter models.BookFilter
	filter.Page, filter.PageSize = pageParams(c)
	books, pagination, err := h.service.BooksByTag(c.Request.Context(), name, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, books, pagination)
}

// Delete godoc
// @Summary Delete tag
// @Tags Tags
// @Security BearerAuth
// @Param name path string true "Tag name"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /tags/{name} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	name, ok := tagName(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), name); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func tagName(c *gin.Context) (string, bool) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tag name is required"))
		return "", false
	}
	return name, true
}
