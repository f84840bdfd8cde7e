package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
	"github.com/noah-isme/cert-registry-api/pkg/response"
)

type exportService interface {
	Enabled() bool
	BookManifestCSV(ctx context.Context, registryBookID string) ([]byte, string, error)
	BookManifestPDF(ctx context.Context, registryBookID string) ([]byte, string, error)
}

// ExportHandler serves registry book manifest downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// BookManifest godoc
// @Summary Export a registry book manifest
// @Tags Exports
// @Produce octet-stream
// @Param id path string true "Registry book ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /registry-books/{id}/export [get]
func (h *ExportHandler) BookManifest(c *gin.Context) {
	if !h.service.Enabled() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	var (
		payload     []byte
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "csv":
		payload, filename, err = h.service.BookManifestCSV(c.Request.Context(), c.Param("id"))
		contentType = "text/csv"
	case "pdf":
		payload, filename, err = h.service.BookManifestPDF(c.Request.Context(), c.Param("id"))
		contentType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, contentType, payload)
}
