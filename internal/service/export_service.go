package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/cert-registry-api/internal/models"
	"github.com/noah-isme/cert-registry-api/pkg/export"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

type manifestStore interface {
	ListByRegistryBook(ctx context.Context, registryBookID string) ([]models.Certificate, error)
}

// ExportService renders registry book manifests as CSV or PDF.
type ExportService struct {
	books   *RegistryBookService
	certs   manifestStore
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	enabled bool
	logger  *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(books *RegistryBookService, certs manifestStore, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		books:   books,
		certs:   certs,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		enabled: enabled,
		logger:  logger,
	}
}

// Enabled reports whether exports are switched on in configuration.
func (s *ExportService) Enabled() bool {
	return s != nil && s.enabled
}

var manifestHeaders = []string{
	"Registry Number", "Serial Number", "Student ID", "Full Name",
	"Date of Birth", "Classification", "Decision Number", "Issue Date", "Status",
}

// BookManifest builds the tabular manifest of every certificate recorded
// in a registry book, ordered by registry number.
func (s *ExportService) BookManifest(ctx context.Context, registryBookID string) (export.Dataset, *models.RegistryBook, error) {
	book, err := s.books.Get(ctx, registryBookID)
	if err != nil {
		return export.Dataset{}, nil, err
	}
	certs, err := s.certs.ListByRegistryBook(ctx, registryBookID)
	if err != nil {
		return export.Dataset{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book manifest")
	}

	rows := make([]map[string]string, 0, len(certs))
	for _, cert := range certs {
		rows = append(rows, map[string]string{
			"Registry Number": cert.RegistryNumber,
			"Serial Number":   cert.SerialNumber,
			"Student ID":      cert.StudentID,
			"Full Name":       cert.FullNameSnapshot,
			"Date of Birth":   cert.DOBSnapshot.Format(dateLayout),
			"Classification":  cert.Classification,
			"Decision Number": cert.DecisionNumber,
			"Issue Date":      cert.IssueDate.Format(dateLayout),
			"Status":          string(cert.Status),
		})
	}
	return export.Dataset{Headers: manifestHeaders, Rows: rows}, book, nil
}

// BookManifestCSV renders the manifest as CSV bytes.
func (s *ExportService) BookManifestCSV(ctx context.Context, registryBookID string) ([]byte, string, error) {
	data, book, err := s.BookManifest(ctx, registryBookID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render manifest csv")
	}
	s.logger.Info("book manifest exported",
		zap.String("book_number", book.BookNumber), zap.String("format", "csv"), zap.Int("rows", len(data.Rows)))
	return payload, manifestFilename(book, "csv"), nil
}

// BookManifestPDF renders the manifest as a tabular PDF.
func (s *ExportService) BookManifestPDF(ctx context.Context, registryBookID string) ([]byte, string, error) {
	data, book, err := s.BookManifest(ctx, registryBookID)
	if err != nil {
		return nil, "", err
	}
	title := fmt.Sprintf("Registry Book %s / %d", book.BookNumber, book.Year)
	payload, err := s.pdf.Render(data, title)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render manifest pdf")
	}
	s.logger.Info("book manifest exported",
		zap.String("book_number", book.BookNumber), zap.String("format", "pdf"), zap.Int("rows", len(data.Rows)))
	return payload, manifestFilename(book, "pdf"), nil
}

func manifestFilename(book *models.RegistryBook, ext string) string {
	return fmt.Sprintf("registry-book-%s-%d.%s", book.BookNumber, book.Year, ext)
}
