package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cert-registry-api/internal/dto"
	"github.com/noah-isme/cert-registry-api/internal/models"
	"github.com/noah-isme/cert-registry-api/internal/repository"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type certificateStore interface {
	Issue(ctx context.Context, params repository.IssuanceParams) (*models.Certificate, error)
	GetByID(ctx context.Context, id string) (*models.Certificate, error)
	GetBySerial(ctx context.Context, serial string) (*models.Certificate, error)
	GetByRegistryNumber(ctx context.Context, registryNumber string) (*models.Certificate, error)
	List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error)
	Revoke(ctx context.Context, params repository.RevokeCertificateParams) error
	Replace(ctx context.Context, oldID string, params repository.IssuanceParams) (*models.Certificate, error)
}

// IssuanceOptions tunes issuance behaviour from configuration.
type IssuanceOptions struct {
	// AutoAllocateBlanks permits requests without an explicit blank serial.
	AutoAllocateBlanks bool
}

// CertificateService drives the certificate lifecycle: issuance,
// revocation, and replacement. Corrections live in CorrectionService.
type CertificateService struct {
	repo     certificateStore
	types    blankTypeStore
	cache    *CacheService
	metrics  *MetricsService
	opts     IssuanceOptions
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCertificateService constructs the service.
func NewCertificateService(repo certificateStore, types blankTypeStore, cache *CacheService, metrics *MetricsService, opts IssuanceOptions, validate *validator.Validate, logger *zap.Logger) *CertificateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{repo: repo, types: types, cache: cache, metrics: metrics, opts: opts, validate: validate, logger: logger}
}

// Issue records a new certificate. Blank consumption, uniqueness checks,
// and the insert run as one transaction in the repository; this layer
// validates the payload and freezes the student snapshot.
func (s *CertificateService) Issue(ctx context.Context, req dto.IssueCertificateRequest, issuedBy string) (*models.Certificate, error) {
	cert, err := s.buildCertificate(ctx, req, issuedBy)
	if err != nil {
		return nil, err
	}
	issued, err := s.repo.Issue(ctx, repository.IssuanceParams{
		Certificate: cert,
		BlankSerial: req.BlankSerial,
		PerformedBy: issuedBy,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordIssued()
	s.invalidate(ctx)
	s.logger.Info("certificate issued",
		zap.String("serial_number", issued.SerialNumber),
		zap.String("registry_number", issued.RegistryNumber),
		zap.String("student_id", issued.StudentID))
	return issued, nil
}

// Revoke moves a certificate to revoked with the supporting decision.
func (s *CertificateService) Revoke(ctx context.Context, id string, req dto.RevokeCertificateRequest, performedBy string) (*models.Certificate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid revoke payload")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "revocation date must be YYYY-MM-DD")
	}
	cert, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cert.Status.CanTransitionTo(models.CertificateStatusRevoked) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("certificate in status %s cannot be revoked", cert.Status))
	}
	if err := s.repo.Revoke(ctx, repository.RevokeCertificateParams{
		ID:             id,
		Reason:         req.Reason,
		DecisionNumber: req.DecisionNumber,
		Date:           date,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
				fmt.Sprintf("certificate in status %s cannot be revoked", cert.Status))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke certificate")
	}
	s.metrics.RecordRevoked()
	s.invalidate(ctx)
	s.logger.Info("certificate revoked",
		zap.String("serial_number", cert.SerialNumber), zap.String("decision_number", req.DecisionNumber))
	return s.Get(ctx, id)
}

// Replace retires the old certificate and issues its successor atomically.
// The old row keeps its serial and registry numbers; the replacement must
// bring fresh ones.
func (s *CertificateService) Replace(ctx context.Context, oldID string, req dto.ReplaceCertificateRequest, performedBy string) (*models.Certificate, error) {
	old, err := s.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	if !old.Status.CanTransitionTo(models.CertificateStatusReplaced) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("certificate in status %s cannot be replaced", old.Status))
	}
	cert, err := s.buildCertificate(ctx, req.Issue, performedBy)
	if err != nil {
		return nil, err
	}
	replacement, err := s.repo.Replace(ctx, oldID, repository.IssuanceParams{
		Certificate: cert,
		BlankSerial: req.Issue.BlankSerial,
		PerformedBy: performedBy,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "certificate is no longer replaceable")
		}
		return nil, err
	}
	s.metrics.RecordIssued()
	s.invalidate(ctx)
	s.logger.Info("certificate replaced",
		zap.String("old_serial", old.SerialNumber), zap.String("new_serial", replacement.SerialNumber))
	return replacement, nil
}

// Get returns a certificate by id.
func (s *CertificateService) Get(ctx context.Context, id string) (*models.Certificate, error) {
	return s.lookup(ctx, fmt.Sprintf("certificates:id:%s", id), func() (*models.Certificate, error) {
		return s.repo.GetByID(ctx, id)
	})
}

// GetBySerial returns a certificate by serial number.
func (s *CertificateService) GetBySerial(ctx context.Context, serial string) (*models.Certificate, error) {
	return s.lookup(ctx, fmt.Sprintf("certificates:serial:%s", serial), func() (*models.Certificate, error) {
		return s.repo.GetBySerial(ctx, serial)
	})
}

// GetByRegistryNumber returns a certificate by registry number.
func (s *CertificateService) GetByRegistryNumber(ctx context.Context, registryNumber string) (*models.Certificate, error) {
	return s.lookup(ctx, fmt.Sprintf("certificates:registry:%s", registryNumber), func() (*models.Certificate, error) {
		return s.repo.GetByRegistryNumber(ctx, registryNumber)
	})
}

// List returns certificates matching the query.
func (s *CertificateService) List(ctx context.Context, query dto.CertificateQuery) ([]models.Certificate, *models.Pagination, error) {
	if query.Status != "" && !query.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown certificate status")
	}
	filter := models.CertificateFilter{
		RegistryBookID:    query.RegistryBookID,
		CertificateTypeID: query.CertificateTypeID,
		StudentID:         query.StudentID,
		DecisionNumber:    query.DecisionNumber,
		Status:            query.Status,
		Page:              query.Page,
		PageSize:          query.PageSize,
	}
	certs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list certificates")
	}
	page, pageSize := models.NormalizePage(query.Page, query.PageSize)
	return certs, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

func (s *CertificateService) lookup(ctx context.Context, key string, fetch func() (*models.Certificate, error)) (*models.Certificate, error) {
	if s.cache.Enabled() {
		var cached models.Certificate
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}
	cert, err := fetch()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}
	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, key, cert, 0)
	}
	return cert, nil
}

// buildCertificate validates the issuance payload and assembles the row,
// including the immutable student snapshot and the expiry default derived
// from the certificate type's validity window.
func (s *CertificateService) buildCertificate(ctx context.Context, req dto.IssueCertificateRequest, issuedBy string) (*models.Certificate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issuance payload")
	}
	if req.BlankSerial == "" && !s.opts.AutoAllocateBlanks {
		return nil, appErrors.Clone(appErrors.ErrValidation, "blank_serial is required when automatic allocation is disabled")
	}

	dob, err := time.Parse(dateLayout, req.Student.DOB)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student dob must be YYYY-MM-DD")
	}
	decisionDate, err := time.Parse(dateLayout, req.DecisionDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision date must be YYYY-MM-DD")
	}
	issueDate, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "issue date must be YYYY-MM-DD")
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		parsed, err := time.Parse(dateLayout, req.ExpiryDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "expiry date must be YYYY-MM-DD")
		}
		expiry = &parsed
	} else {
		ctype, err := s.types.GetByID(ctx, req.CertificateTypeID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate type not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate type")
		}
		if ctype.ValidityMonths != nil && *ctype.ValidityMonths > 0 {
			derived := issueDate.AddDate(0, *ctype.ValidityMonths, 0)
			expiry = &derived
		}
	}

	cert := &models.Certificate{
		RegistryBookID:    req.RegistryBookID,
		CertificateTypeID: req.CertificateTypeID,
		StudentID:         req.Student.StudentID,
		FullNameSnapshot:  req.Student.FullName,
		DOBSnapshot:       dob,
		POBSnapshot:       req.Student.POB,
		GenderSnapshot:    req.Student.Gender,
		Classification:    req.Classification,
		DecisionNumber:    req.DecisionNumber,
		DecisionDate:      decisionDate,
		SerialNumber:      req.SerialNumber,
		RegistryNumber:    req.RegistryNumber,
		IssueDate:         issueDate,
		ExpiryDate:        expiry,
		IssuedBy:          issuedBy,
		Metadata:          req.Metadata,
	}
	if req.Student.Ethnicity != "" {
		cert.EthnicitySnapshot = &req.Student.Ethnicity
	}
	if req.Student.Nationality != "" {
		cert.NationalitySnapshot = &req.Student.Nationality
	}
	if req.Student.IDNumber != "" {
		cert.IDNumberSnapshot = &req.Student.IDNumber
	}
	if req.SignerName != "" {
		cert.SignerName = &req.SignerName
	}
	if req.SignerTitle != "" {
		cert.SignerTitle = &req.SignerTitle
	}
	return cert, nil
}

func (s *CertificateService) invalidate(ctx context.Context) {
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, "certificates:*")
	}
}
