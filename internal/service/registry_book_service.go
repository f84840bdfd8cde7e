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

type registryBookStore interface {
	Create(ctx context.Context, book *models.RegistryBook) error
	GetByID(ctx context.Context, id string) (*models.RegistryBook, error)
	List(ctx context.Context, filter models.RegistryBookFilter) ([]models.RegistryBook, int, error)
	Close(ctx context.Context, id string, closedAt time.Time) (bool, error)
}

// RegistryBookService owns the open/closed lifecycle of registry books.
type RegistryBookService struct {
	repo     registryBookStore
	cache    *CacheService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewRegistryBookService constructs the service.
func NewRegistryBookService(repo registryBookStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RegistryBookService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryBookService{repo: repo, cache: cache, validate: validate, logger: logger}
}

// Open creates a new registry book. The (book_number, year) unique index is
// the arbiter for concurrent opens; its violation surfaces as DuplicateNumber.
func (s *RegistryBookService) Open(ctx context.Context, req dto.OpenRegistryBookRequest) (*models.RegistryBook, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registry book payload")
	}
	book := &models.RegistryBook{
		BookNumber: req.BookNumber,
		Year:       req.Year,
	}
	if req.StorageLocation != "" {
		book.StorageLocation = &req.StorageLocation
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("registry book opened",
		zap.String("book_number", book.BookNumber), zap.Int("year", book.Year))
	return book, nil
}

// Get returns a registry book by id.
func (s *RegistryBookService) Get(ctx context.Context, id string) (*models.RegistryBook, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registry book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registry book")
	}
	return book, nil
}

// List returns registry books matching the query.
func (s *RegistryBookService) List(ctx context.Context, query dto.RegistryBookQuery) ([]models.RegistryBook, *models.Pagination, error) {
	filter := models.RegistryBookFilter{
		Year:     query.Year,
		IsClosed: query.IsClosed,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registry books")
	}
	page, pageSize := models.NormalizePage(query.Page, query.PageSize)
	return books, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Close marks the book closed. Closing an already-closed book is a no-op;
// closed_at keeps its original value.
func (s *RegistryBookService) Close(ctx context.Context, id string) (*models.RegistryBook, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.IsClosed {
		return book, nil
	}
	now := time.Now().UTC()
	transitioned, err := s.repo.Close(ctx, id, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close registry book")
	}
	if transitioned {
		book.IsClosed = true
		book.ClosedAt = &now
		s.invalidate(ctx)
		s.logger.Info("registry book closed",
			zap.String("book_number", book.BookNumber), zap.Int("year", book.Year))
		return book, nil
	}
	// Lost a race against another close; the end state is the same.
	return s.Get(ctx, id)
}

func (s *RegistryBookService) invalidate(ctx context.Context) {
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, "registry-books:*")
	}
}
