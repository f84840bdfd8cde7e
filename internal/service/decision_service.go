package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cert-registry-api/internal/dto"
	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

type decisionStore interface {
	Create(ctx context.Context, decision *models.GraduationDecision) error
	GetByID(ctx context.Context, id string) (*models.GraduationDecision, error)
	GetByNumber(ctx context.Context, decisionNumber string) (*models.GraduationDecision, error)
	List(ctx context.Context, filter models.GraduationDecisionFilter) ([]models.GraduationDecision, int, error)
	Publish(ctx context.Context, id string, publishedAt time.Time) (bool, error)
}

// DecisionService manages graduation decisions and their one-way
// publication flag.
type DecisionService struct {
	repo     decisionStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewDecisionService constructs the service.
func NewDecisionService(repo decisionStore, validate *validator.Validate, logger *zap.Logger) *DecisionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DecisionService{repo: repo, validate: validate, logger: logger}
}

// Record registers a new graduation decision. The unique decision number
// index arbitrates concurrent records.
func (s *DecisionService) Record(ctx context.Context, req dto.RecordDecisionRequest, createdBy string) (*models.GraduationDecision, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	decisionDate, err := time.Parse(dateLayout, req.DecisionDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision date must be YYYY-MM-DD")
	}
	decision := &models.GraduationDecision{
		DecisionNumber: req.DecisionNumber,
		DecisionDate:   decisionDate,
		Title:          req.Title,
		SignerName:     req.SignerName,
		SignerTitle:    req.SignerTitle,
		TotalGraduates: req.TotalGraduates,
		CreatedBy:      createdBy,
		Metadata:       req.Metadata,
	}
	if req.Content != "" {
		decision.Content = &req.Content
	}
	if err := s.repo.Create(ctx, decision); err != nil {
		return nil, err
	}
	s.logger.Info("graduation decision recorded", zap.String("decision_number", decision.DecisionNumber))
	return decision, nil
}

// Get returns a decision by id.
func (s *DecisionService) Get(ctx context.Context, id string) (*models.GraduationDecision, error) {
	decision, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "graduation decision not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load graduation decision")
	}
	return decision, nil
}

// GetByNumber returns a decision by its unique number.
func (s *DecisionService) GetByNumber(ctx context.Context, decisionNumber string) (*models.GraduationDecision, error) {
	decision, err := s.repo.GetByNumber(ctx, decisionNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "graduation decision not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load graduation decision")
	}
	return decision, nil
}

// List returns decisions matching the query.
func (s *DecisionService) List(ctx context.Context, query dto.DecisionQuery) ([]models.GraduationDecision, *models.Pagination, error) {
	filter := models.GraduationDecisionFilter{
		Year:        query.Year,
		IsPublished: query.IsPublished,
		Page:        query.Page,
		PageSize:    query.PageSize,
	}
	decisions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list graduation decisions")
	}
	page, pageSize := models.NormalizePage(query.Page, query.PageSize)
	return decisions, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Publish marks the decision published. Publishing an already-published
// decision is a no-op; published_at keeps its first value.
func (s *DecisionService) Publish(ctx context.Context, id string) (*models.GraduationDecision, error) {
	decision, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if decision.IsPublished {
		return decision, nil
	}
	now := time.Now().UTC()
	transitioned, err := s.repo.Publish(ctx, id, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish graduation decision")
	}
	if transitioned {
		decision.IsPublished = true
		decision.PublishedAt = &now
		s.logger.Info("graduation decision published", zap.String("decision_number", decision.DecisionNumber))
		return decision, nil
	}
	return s.Get(ctx, id)
}
