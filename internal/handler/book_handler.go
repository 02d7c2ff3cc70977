package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bookly-api/internal/dto"
	"github.com/noah-isme/bookly-api/internal/models"
	"github.com/noah-isme/bookly-api/internal/service"
	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
	"github.com/noah-isme/bookly-api/pkg/export"
	"github.com/noah-isme/bookly-api/pkg/response"
)

type bookService interface {
	List(ctx context.Context, filter models.BookFilter) ([]models.Book, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Book, error)
	Create(ctx context.Context, ownerID string, req dto.CreateBookRequest) (*models.Book, error)
	Update(ctx context.Context, actor *models.User, id string, req dto.UpdateBookRequest) (*models.Book, error)
	Delete(ctx context.Context, actor *models.User, id string) error
	Export(ctx context.Context, ownerID string, format export.Format) (*service.ExportFile, error)
}

// BookHandler handles book catalogue endpoints.
type BookHandler struct {
	service bookService
}

// NewBookHandler constructs a BookHandler.
func NewBookHandler(svc bookService) *BookHandler {
	return &BookHandler{service: svc}
}

// List godoc
// @Summary List books
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search title or author"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /books [get]
func (h *BookHandler) List(c *gin.Context) {
	h.list(c, "")
}

// MyBooks godoc
// @Summary List own books
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search title or author"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /books/my_books [get]
func (h *BookHandler) MyBooks(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		return
	}
	h.list(c, claims.User.ID)
}

func (h *BookHandler) list(c *gin.Context, ownerID string) {
	var query dto.ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	filter := models.BookFilter{
		OwnerID:  ownerID,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	books, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, books, pagination)
}

// Export godoc
// @Summary Export own books
// @Description Download the caller's books as CSV or PDF
// @Tags Books
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /books/export [get]
func (h *BookHandler) Export(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export format"))
		return
	}
	file, err := h.service.Export(c.Request.Context(), claims.User.ID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Get godoc
// @Summary Get book
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	book, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}

// Create godoc
// @Summary Create book
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateBookRequest true "Book payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateBookRequest
	if !bindJSON(c, &req, "invalid book payload") {
		return
	}
	book, err := h.service.Create(c.Request.Context(), claims.User.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, book)
}

// Update godoc
// @Summary Update book
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param payload body dto.UpdateBookRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /books/{id} [patch]
func (h *BookHandler) Update(c *gin.Context) {
	actor, ok := userFromContext(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req, "invalid book payload") {
		return
	}
	book, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}

// Delete godoc
// @Summary Delete book
// @Description Removes the book together with its reviews and tag links
// @Tags Books
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	actor, ok := userFromContext(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
