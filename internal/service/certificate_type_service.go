package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cert-registry-api/internal/dto"
	"github.com/noah-isme/cert-registry-api/internal/models"
	"github.com/noah-isme/cert-registry-api/internal/repository"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

type certificateTypeStore interface {
	Create(ctx context.Context, ct *models.CertificateType) error
	GetByID(ctx context.Context, id string) (*models.CertificateType, error)
	GetByCode(ctx context.Context, code string) (*models.CertificateType, error)
	List(ctx context.Context, filter models.CertificateTypeFilter) ([]models.CertificateType, int, error)
	Update(ctx context.Context, params repository.UpdateCertificateTypeParams) error
	SetActive(ctx context.Context, id string, active bool) error
}

// CertificateTypeService manages the catalogue of certificate types.
type CertificateTypeService struct {
	repo     certificateTypeStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCertificateTypeService constructs the service.
func NewCertificateTypeService(repo certificateTypeStore, validate *validator.Validate, logger *zap.Logger) *CertificateTypeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateTypeService{repo: repo, validate: validate, logger: logger}
}

// Create registers a new certificate type. The unique code index arbitrates
// concurrent creates.
func (s *CertificateTypeService) Create(ctx context.Context, req dto.CreateCertificateTypeRequest) (*models.CertificateType, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid certificate type payload")
	}
	ct := &models.CertificateType{
		Code:           req.Code,
		Name:           req.Name,
		ValidityMonths: req.ValidityMonths,
		IsActive:       true,
		Metadata:       req.Metadata,
	}
	if req.Description != "" {
		ct.Description = &req.Description
	}
	if req.TemplatePath != "" {
		ct.TemplatePath = &req.TemplatePath
	}
	if err := s.repo.Create(ctx, ct); err != nil {
		return nil, err
	}
	s.logger.Info("certificate type created", zap.String("code", ct.Code))
	return ct, nil
}

// Get returns a certificate type by id.
func (s *CertificateTypeService) Get(ctx context.Context, id string) (*models.CertificateType, error) {
	ct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate type")
	}
	return ct, nil
}

// GetByCode returns a certificate type by its unique code.
func (s *CertificateTypeService) GetByCode(ctx context.Context, code string) (*models.CertificateType, error) {
	ct, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate type")
	}
	return ct, nil
}

// List returns certificate types matching the filter.
func (s *CertificateTypeService) List(ctx context.Context, filter models.CertificateTypeFilter) ([]models.CertificateType, *models.Pagination, error) {
	types, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list certificate types")
	}
	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	return types, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Update changes mutable fields. The code is immutable once created.
func (s *CertificateTypeService) Update(ctx context.Context, id string, req dto.UpdateCertificateTypeRequest) (*models.CertificateType, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid certificate type payload")
	}
	params := repository.UpdateCertificateTypeParams{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		TemplatePath:   req.TemplatePath,
		ValidityMonths: req.ValidityMonths,
		Metadata:       req.Metadata,
	}
	if err := s.repo.Update(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update certificate type")
	}
	return s.Get(ctx, id)
}

// SetActive flips the is_active flag. Deactivation only blocks new
// issuance; existing certificates and blank receipt are unaffected.
func (s *CertificateTypeService) SetActive(ctx context.Context, id string, active bool) (*models.CertificateType, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update certificate type")
	}
	s.logger.Info("certificate type activation changed", zap.String("id", id), zap.Bool("active", active))
	return s.Get(ctx, id)
}
