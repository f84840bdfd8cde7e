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

type decisionService interface {
	Record(ctx context.Context, req dto.RecordDecisionRequest, createdBy string) (*models.GraduationDecision, error)
	Get(ctx context.Context, id string) (*models.GraduationDecision, error)
	GetByNumber(ctx context.Context, decisionNumber string) (*models.GraduationDecision, error)
	List(ctx context.Context, query dto.DecisionQuery) ([]models.GraduationDecision, *models.Pagination, error)
	Publish(ctx context.Context, id string) (*models.GraduationDecision, error)
}

// DecisionHandler exposes REST endpoints for graduation decisions.
type DecisionHandler struct {
	service decisionService
}

// NewDecisionHandler constructs the handler.
func NewDecisionHandler(service decisionService) *DecisionHandler {
	return &DecisionHandler{service: service}
}

// Record godoc
// @Summary Record a graduation decision
// @Tags Decisions
// @Accept json
// @Produce json
// @Param payload body dto.RecordDecisionRequest true "Decision payload"
// @Success 201 {object} response.Envelope
// @Router /decisions [post]
func (h *DecisionHandler) Record(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RecordDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	decision, err := h.service.Record(c.Request.Context(), req, actor.Identity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, decision, nil)
}

// List godoc
// @Summary List graduation decisions
// @Tags Decisions
// @Produce json
// @Param year query int false "Filter by decision year"
// @Param is_published query bool false "Filter by publication state"
// @Success 200 {object} response.Envelope
// @Router /decisions [get]
func (h *DecisionHandler) List(c *gin.Context) {
	query := dto.DecisionQuery{
		Year:     queryInt(c, "year"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	if raw := c.Query("is_published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "is_published must be a boolean"))
			return
		}
		query.IsPublished = &published
	}
	decisions, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decisions, pagination)
}

// Get godoc
// @Summary Get graduation decision detail
// @Tags Decisions
// @Produce json
// @Param id path string true "Decision ID"
// @Success 200 {object} response.Envelope
// @Router /decisions/{id} [get]
func (h *DecisionHandler) Get(c *gin.Context) {
	decision, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decision, nil)
}

// GetByNumber godoc
// @Summary Look up a decision by its number
// @Tags Decisions
// @Produce json
// @Param number path string true "Decision number"
// @Success 200 {object} response.Envelope
// @Router /decisions/number/{number} [get]
func (h *DecisionHandler) GetByNumber(c *gin.Context) {
	decision, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decision, nil)
}

// Publish godoc
// @Summary Publish a graduation decision
// @Tags Decisions
// @Produce json
// @Param id path string true "Decision ID"
// @Success 200 {object} response.Envelope
// @Router /decisions/{id}/publish [post]
func (h *DecisionHandler) Publish(c *gin.Context) {
	decision, err := h.service.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, decision, nil)
}
