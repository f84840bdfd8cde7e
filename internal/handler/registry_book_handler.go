package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cert-registry-api/internal/dto"
	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
	"github.com/noah-isme/cert-registry-api/pkg/response"
)

type registryBookService interface {
	Open(ctx context.Context, req dto.OpenRegistryBookRequest) (*models.RegistryBook, error)
	Get(ctx context.Context, id string) (*models.RegistryBook, error)
	List(ctx context.Context, query dto.RegistryBookQuery) ([]models.RegistryBook, *models.Pagination, error)
	Close(ctx context.Context, id string) (*models.RegistryBook, error)
}

// RegistryBookHandler exposes REST endpoints for registry books.
type RegistryBookHandler struct {
	service registryBookService
}

// NewRegistryBookHandler constructs the handler.
func NewRegistryBookHandler(service registryBookService) *RegistryBookHandler {
	return &RegistryBookHandler{service: service}
}

// Open godoc
// @Summary Open a registry book
// @Tags Registry Books
// @Accept json
// @Produce json
// @Param payload body dto.OpenRegistryBookRequest true "Registry book payload"
// @Success 201 {object} response.Envelope
// @Router /registry-books [post]
func (h *RegistryBookHandler) Open(c *gin.Context) {
	var req dto.OpenRegistryBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid registry book payload"))
		return
	}
	book, err := h.service.Open(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, book, nil)
}

// List godoc
// @Summary List registry books
// @Tags Registry Books
// @Produce json
// @Param year query int false "Filter by year"
// @Param is_closed query bool false "Filter by closed state"
// @Success 200 {object} response.Envelope
// @Router /registry-books [get]
func (h *RegistryBookHandler) List(c *gin.Context) {
	query := dto.RegistryBookQuery{
		Year:     queryInt(c, "year"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	if raw := c.Query("is_closed"); raw != "" {
		closed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "is_closed must be a boolean"))
			return
		}
		query.IsClosed = &closed
	}
	books, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, books, pagination)
}

// Get godoc
// @Summary Get registry book detail
// @Tags Registry Books
// @Produce json
// @Param id path string true "Registry book ID"
// @Success 200 {object} response.Envelope
// @Router /registry-books/{id} [get]
func (h *RegistryBookHandler) Get(c *gin.Context) {
	book, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}

// Close godoc
// @Summary Close a registry book
// @Tags Registry Books
// @Produce json
// @Param id path string true "Registry book ID"
// @Success 200 {object} response.Envelope
// @Router /registry-books/{id}/close [post]
func (h *RegistryBookHandler) Close(c *gin.Context) {
	book, err := h.service.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}

func queryInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
