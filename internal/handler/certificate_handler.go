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

type certificateService interface {
	Issue(ctx context.Context, req dto.IssueCertificateRequest, issuedBy string) (*models.Certificate, error)
	Revoke(ctx context.Context, id string, req dto.RevokeCertificateRequest, performedBy string) (*models.Certificate, error)
	Replace(ctx context.Context, oldID string, req dto.ReplaceCertificateRequest, performedBy string) (*models.Certificate, error)
	Get(ctx context.Context, id string) (*models.Certificate, error)
	GetBySerial(ctx context.Context, serial string) (*models.Certificate, error)
	GetByRegistryNumber(ctx context.Context, registryNumber string) (*models.Certificate, error)
	List(ctx context.Context, query dto.CertificateQuery) ([]models.Certificate, *models.Pagination, error)
}

type correctionService interface {
	Correct(ctx context.Context, certificateID string, req dto.CorrectCertificateRequest, performedBy string) (*models.CertificateCorrectionLog, *models.Certificate, error)
	History(ctx context.Context, certificateID string) ([]models.CertificateCorrectionLog, error)
}

// CertificateHandler exposes REST endpoints for the certificate lifecycle.
type CertificateHandler struct {
	service     certificateService
	corrections correctionService
}

// NewCertificateHandler constructs the handler.
func NewCertificateHandler(service certificateService, corrections correctionService) *CertificateHandler {
	return &CertificateHandler{service: service, corrections: corrections}
}

// Issue godoc
// @Summary Issue a certificate
// @Tags Certificates
// @Accept json
// @Produce json
// @Param payload body dto.IssueCertificateRequest true "Issuance payload"
// @Success 201 {object} response.Envelope
// @Router /certificates [post]
func (h *CertificateHandler) Issue(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.IssueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid issuance payload"))
		return
	}
	cert, err := h.service.Issue(c.Request.Context(), req, actor.Identity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, cert, nil)
}

// List godoc
// @Summary List certificates
// @Tags Certificates
// @Produce json
// @Param registry_book_id query string false "Filter by registry book"
// @Param certificate_type_id query string false "Filter by certificate type"
// @Param student_id query string false "Filter by student"
// @Param decision_number query string false "Filter by decision number"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
	query := dto.CertificateQuery{
		RegistryBookID:    strings.TrimSpace(c.Query("registry_book_id")),
		CertificateTypeID: strings.TrimSpace(c.Query("certificate_type_id")),
		StudentID:         strings.TrimSpace(c.Query("student_id")),
		DecisionNumber:    strings.TrimSpace(c.Query("decision_number")),
		Status:            models.CertificateStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		Page:              queryInt(c, "page"),
		PageSize:          queryInt(c, "page_size"),
	}
	certs, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, certs, pagination)
}

// Get godoc
// @Summary Get certificate detail
// @Tags Certificates
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} response.Envelope
// @Router /certificates/{id} [get]
func (h *CertificateHandler) Get(c *gin.Context) {
	cert, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}

// GetBySerial godoc
// @Summary Look up a certificate by serial number
// @Tags Certificates
// @Produce json
// @Param serial path string true "Certificate serial number"
// @Success 200 {object} response.Envelope
// @Router /certificates/serial/{serial} [get]
func (h *CertificateHandler) GetBySerial(c *gin.Context) {
	cert, err := h.service.GetBySerial(c.Request.Context(), c.Param("serial"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}

// GetByRegistryNumber godoc
// @Summary Look up a certificate by registry number
// @Tags Certificates
// @Produce json
// @Param number path string true "Registry number"
// @Success 200 {object} response.Envelope
// @Router /certificates/registry/{number} [get]
func (h *CertificateHandler) GetByRegistryNumber(c *gin.Context) {
	cert, err := h.service.GetByRegistryNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}

// Revoke godoc
// @Summary Revoke a certificate
// @Tags Certificates
// @Accept json
// @Produce json
// @Param id path string true "Certificate ID"
// @Param payload body dto.RevokeCertificateRequest true "Revocation payload"
// @Success 200 {object} response.Envelope
// @Router /certificates/{id}/revoke [post]
func (h *CertificateHandler) Revoke(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RevokeCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid revoke payload"))
		return
	}
	cert, err := h.service.Revoke(c.Request.Context(), c.Param("id"), req, actor.Identity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}

// Replace godoc
// @Summary Replace a certificate with a newly issued one
// @Tags Certificates
// @Accept json
// @Produce json
// @Param id path string true "Certificate ID being replaced"
// @Param payload body dto.ReplaceCertificateRequest true "Replacement payload"
// @Success 201 {object} response.Envelope
// @Router /certificates/{id}/replace [post]
func (h *CertificateHandler) Replace(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReplaceCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid replace payload"))
		return
	}
	cert, err := h.service.Replace(c.Request.Context(), c.Param("id"), req, actor.Identity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, cert, nil)
}

// Correct godoc
// @Summary Record a correction on a certificate
// @Tags Certificates
// @Accept json
// @Produce json
// @Param id path string true "Certificate ID"
// @Param payload body dto.CorrectCertificateRequest true "Correction payload"
// @Success 201 {object} response.Envelope
// @Router /certificates/{id}/corrections [post]
func (h *CertificateHandler) Correct(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CorrectCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid correction payload"))
		return
	}
	logRow, cert, err := h.corrections.Correct(c.Request.Context(), c.Param("id"), req, actor.Identity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"correction": logRow, "certificate": cert}, nil)
}

// Corrections godoc
// @Summary List the correction history of a certificate
// @Tags Certificates
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} response.Envelope
// @Router /certificates/{id}/corrections [get]
func (h *CertificateHandler) Corrections(c *gin.Context) {
	logs, err := h.corrections.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
