package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cert-registry-api/internal/dto"
	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
	"github.com/noah-isme/cert-registry-api/pkg/response"
)

type blankService interface {
	Receive(ctx context.Context, req dto.ReceiveBlanksRequest, performedBy string) ([]models.CertificateBlank, error)
	Assign(ctx context.Context, serial string, req dto.AssignBlankRequest, performedBy string) (*models.CertificateBlank, error)
	MarkDamaged(ctx context.Context, serial string, req dto.DamageBlankRequest, performedBy string) (*models.CertificateBlank, error)
	Destroy(ctx context.Context, serial string, req dto.DestroyBlankRequest, performedBy string) (*models.CertificateBlank, error)
	Get(ctx context.Context, serial string) (*models.CertificateBlank, error)
	List(ctx context.Context, filter models.BlankFilter) ([]models.CertificateBlank, *models.Pagination, error)
	InventoryLog(ctx context.Context, filter models.InventoryLogFilter) ([]models.BlankInventoryLog, *models.Pagination, error)
}

// BlankHandler exposes REST endpoints for blank stock management.
type BlankHandler struct {
	service blankService
}

// NewBlankHandler constructs the handler.
func NewBlankHandler(service blankService) *BlankHandler {
	return &BlankHandler{service: service}
}

// Receive godoc
// @Summary Receive a serial range of blanks into stock
// @Tags Blanks
// @Accept json
// @Produce json
// @Param payload body dto.ReceiveBlanksRequest true "Serial range payload"
// @Success 201 {object} response.Envelope
// @Router /blanks/receive [post]
func (h *BlankHandler) Receive(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReceiveBlanksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid receive payload"))
		return
	}
	blanks, err := h.service.Receive(c.Request.Context(), req, actor.Identity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, blanks, nil, map[string]interface{}{"quantity": len(blanks)})
}

// List godoc
// @Summary List blanks
// @Tags Blanks
// @Produce json
// @Param certificate_type_id query string false "Filter by certificate type"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /blanks [get]
func (h *BlankHandler) List(c *gin.Context) {
	filter := models.BlankFilter{
		CertificateTypeID: strings.TrimSpace(c.Query("certificate_type_id")),
		Status:            models.BlankStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		Page:              queryInt(c, "page"),
		PageSize:          queryInt(c, "page_size"),
	}
	blanks, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blanks, pagination)
}

// Get godoc
// @Summary Get blank detail by serial number
// @Tags Blanks
// @Produce json
// @Param serial path string true "Blank serial number"
// @Success 200 {object} response.Envelope
// @Router /blanks/{serial} [get]
func (h *BlankHandler) Get(c *gin.Context) {
	blank, err := h.service.Get(c.Request.Context(), c.Param("serial"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blank, nil)
}

// Assign godoc
// @Summary Reserve a blank for a holder
// @Tags Blanks
// @Accept json
// @Produce json
// @Param serial path string true "Blank serial number"
// @Param payload body dto.AssignBlankRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /blanks/{serial}/assign [post]
func (h *BlankHandler) Assign(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.AssignBlankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assign payload"))
		return
	}
	blank, err := h.service.Assign(c.Request.Context(), c.Param("serial"), req, actor.Identity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blank, nil)
}

// Damage godoc
// @Summary Mark a blank as damaged
// @Tags Blanks
// @Accept json
// @Produce json
// @Param serial path string true "Blank serial number"
// @Param payload body dto.DamageBlankRequest true "Damage payload"
// @Success 200 {object} response.Envelope
// @Router /blanks/{serial}/damage [post]
func (h *BlankHandler) Damage(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.DamageBlankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid damage payload"))
		return
	}
	blank, err := h.service.MarkDamaged(c.Request.Context(), c.Param("serial"), req, actor.Identity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blank, nil)
}

// Destroy godoc
// @Summary Destroy a blank permanently
// @Tags Blanks
// @Accept json
// @Produce json
// @Param serial path string true "Blank serial number"
// @Param payload body dto.DestroyBlankRequest true "Destruction payload"
// @Success 200 {object} response.Envelope
// @Router /blanks/{serial}/destroy [post]
func (h *BlankHandler) Destroy(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.DestroyBlankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid destroy payload"))
		return
	}
	blank, err := h.service.Destroy(c.Request.Context(), c.Param("serial"), req, actor.Identity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blank, nil)
}

// InventoryLog godoc
// @Summary List blank stock movements
// @Tags Blanks
// @Produce json
// @Param action query string false "Filter by action"
// @Param performed_by query string false "Filter by actor"
// @Success 200 {object} response.Envelope
// @Router /blanks/inventory-log [get]
func (h *BlankHandler) InventoryLog(c *gin.Context) {
	filter := models.InventoryLogFilter{
		Action:      models.InventoryAction(strings.ToLower(strings.TrimSpace(c.Query("action")))),
		PerformedBy: strings.TrimSpace(c.Query("performed_by")),
		Page:        queryInt(c, "page"),
		PageSize:    queryInt(c, "page_size"),
	}
	logs, pagination, err := h.service.InventoryLog(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, pagination)
}
