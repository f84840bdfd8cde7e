package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cert-registry-api/internal/dto"
	"github.com/noah-isme/cert-registry-api/internal/models"
	"github.com/noah-isme/cert-registry-api/internal/repository"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

type correctionStore interface {
	Correct(ctx context.Context, params repository.CorrectionParams) (*models.CertificateCorrectionLog, *models.Certificate, error)
	ListByCertificate(ctx context.Context, certificateID string) ([]models.CertificateCorrectionLog, error)
}

// CorrectionService records amendments to issued certificates. Each
// correction appends one immutable log row carrying before and after
// images of the student snapshot.
type CorrectionService struct {
	repo     correctionStore
	certs    *CertificateService
	cache    *CacheService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCorrectionService constructs the service.
func NewCorrectionService(repo correctionStore, certs *CertificateService, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CorrectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CorrectionService{repo: repo, certs: certs, cache: cache, validate: validate, logger: logger}
}

// Correct applies an amendment to a certificate. The previous snapshot is
// captured server-side under row lock, so callers cannot rewrite history.
func (s *CorrectionService) Correct(ctx context.Context, certificateID string, req dto.CorrectCertificateRequest, performedBy string) (*models.CertificateCorrectionLog, *models.Certificate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid correction payload")
	}
	correctionDate, err := time.Parse(dateLayout, req.CorrectionDate)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "correction date must be YYYY-MM-DD")
	}
	if _, err := time.Parse(dateLayout, req.NewContent.DOB); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "new content dob must be YYYY-MM-DD")
	}

	params := repository.CorrectionParams{
		CertificateID:            certificateID,
		CorrectionDecisionNumber: req.CorrectionDecisionNumber,
		CorrectionDate:           correctionDate,
		NewContent:               req.NewContent,
		Reason:                   req.Reason,
		PerformedBy:              performedBy,
	}
	if req.ApprovedBy != "" {
		params.ApprovedBy = &req.ApprovedBy
	}
	logRow, cert, err := s.repo.Correct(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, "certificates:*")
	}
	s.logger.Info("certificate corrected",
		zap.String("serial_number", cert.SerialNumber),
		zap.String("correction_decision_number", req.CorrectionDecisionNumber))
	return logRow, cert, nil
}

// History returns the full correction trail for a certificate, oldest
// first. The certificate must exist.
func (s *CorrectionService) History(ctx context.Context, certificateID string) ([]models.CertificateCorrectionLog, error) {
	if _, err := s.certs.Get(ctx, certificateID); err != nil {
		return nil, err
	}
	logs, err := s.repo.ListByCertificate(ctx, certificateID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list corrections")
	}
	return logs, nil
}
