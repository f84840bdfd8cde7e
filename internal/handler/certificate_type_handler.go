package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cert-registry-api/internal/dto"
	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
	"github.com/noah-isme/cert-registry-api/pkg/response"
)

type certificateTypeService interface {
	Create(ctx context.Context, req dto.CreateCertificateTypeRequest) (*models.CertificateType, error)
	Get(ctx context.Context, id string) (*models.CertificateType, error)
	GetByCode(ctx context.Context, code string) (*models.CertificateType, error)
	List(ctx context.Context, filter models.CertificateTypeFilter) ([]models.CertificateType, *models.Pagination, error)
	Update(ctx context.Context, id string, req dto.UpdateCertificateTypeRequest) (*models.CertificateType, error)
	SetActive(ctx context.Context, id string, active bool) (*models.CertificateType, error)
}

// CertificateTypeHandler exposes REST endpoints for certificate types.
type CertificateTypeHandler struct {
	service certificateTypeService
}

// NewCertificateTypeHandler constructs the handler.
func NewCertificateTypeHandler(service certificateTypeService) *CertificateTypeHandler {
	return &CertificateTypeHandler{service: service}
}

// Create godoc
// @Summary Register a certificate type
// @Tags Certificate Types
// @Accept json
// @Produce json
// @Param payload body dto.CreateCertificateTypeRequest true "Certificate type payload"
// @Success 201 {object} response.Envelope
// @Router /certificate-types [post]
func (h *CertificateTypeHandler) Create(c *gin.Context) {
	var req dto.CreateCertificateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid certificate type payload"))
		return
	}
	ct, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, ct, nil)
}

// List godoc
// @Summary List certificate types
// @Tags Certificate Types
// @Produce json
// @Param is_active query bool false "Filter by activation state"
// @Param search query string false "Match against code or name"
// @Success 200 {object} response.Envelope
// @Router /certificate-types [get]
func (h *CertificateTypeHandler) List(c *gin.Context) {
	filter := models.CertificateTypeFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "is_active must be a boolean"))
			return
		}
		filter.IsActive = &active
	}
	types, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, pagination)
}

// Get godoc
// @Summary Get certificate type detail
// @Tags Certificate Types
// @Produce json
// @Param id path string true "Certificate type ID"
// @Success 200 {object} response.Envelope
// @Router /certificate-types/{id} [get]
func (h *CertificateTypeHandler) Get(c *gin.Context) {
	ct, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ct, nil)
}

// GetByCode godoc
// @Summary Get certificate type by code
// @Tags Certificate Types
// @Produce json
// @Param code path string true "Certificate type code"
// @Success 200 {object} response.Envelope
// @Router /certificate-types/code/{code} [get]
func (h *CertificateTypeHandler) GetByCode(c *gin.Context) {
	ct, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ct, nil)
}

// Update godoc
// @Summary Update a certificate type
// @Tags Certificate Types
// @Accept json
// @Produce json
// @Param id path string true "Certificate type ID"
// @Param payload body dto.UpdateCertificateTypeRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /certificate-types/{id} [patch]
func (h *CertificateTypeHandler) Update(c *gin.Context) {
	var req dto.UpdateCertificateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid certificate type payload"))
		return
	}
	ct, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ct, nil)
}

// Activate godoc
// @Summary Activate a certificate type
// @Tags Certificate Types
// @Produce json
// @Param id path string true "Certificate type ID"
// @Success 200 {object} response.Envelope
// @Router /certificate-types/{id}/activate [post]
func (h *CertificateTypeHandler) Activate(c *gin.Context) {
	ct, err := h.service.SetActive(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ct, nil)
}

// Deactivate godoc
// @Summary Deactivate a certificate type
// @Tags Certificate Types
// @Produce json
// @Param id path string true "Certificate type ID"
// @Success 200 {object} response.Envelope
// @Router /certificate-types/{id}/deactivate [post]
func (h *CertificateTypeHandler) Deactivate(c *gin.Context) {
	ct, err := h.service.SetActive(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ct, nil)
}
