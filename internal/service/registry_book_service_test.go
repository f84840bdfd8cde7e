package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cert-registry-api/internal/dto"
	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

type registryBookStoreStub struct {
	books      map[string]*models.RegistryBook
	closeCalls int
}

func newRegistryBookStoreStub() *registryBookStoreStub {
	return &registryBookStoreStub{books: make(map[string]*models.RegistryBook)}
}

func (s *registryBookStoreStub) Create(ctx context.Context, book *models.RegistryBook) error {
	book.ID = "book-new"
	book.OpenedAt = time.Now().UTC()
	s.books[book.ID] = book
	return nil
}

func (s *registryBookStoreStub) GetByID(ctx context.Context, id string) (*models.RegistryBook, error) {
	if book, ok := s.books[id]; ok {
		copy := *book
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *registryBookStoreStub) List(ctx context.Context, filter models.RegistryBookFilter) ([]models.RegistryBook, int, error) {
	result := make([]models.RegistryBook, 0, len(s.books))
	for _, book := range s.books {
		result = append(result, *book)
	}
	return result, len(result), nil
}

func (s *registryBookStoreStub) Close(ctx context.Context, id string, closedAt time.Time) (bool, error) {
	s.closeCalls++
	book, ok := s.books[id]
	if !ok || book.IsClosed {
		return false, nil
	}
	book.IsClosed = true
	book.ClosedAt = &closedAt
	return true, nil
}

func TestRegistryBookServiceOpen(t *testing.T) {
	store := newRegistryBookStoreStub()
	svc := NewRegistryBookService(store, nil, nil, nil)

	book, err := svc.Open(context.Background(), dto.OpenRegistryBookRequest{
		BookNumber: "B-2025-01",
		Year:       2025,
	})
	require.NoError(t, err)
	assert.Equal(t, "B-2025-01", book.BookNumber)
	assert.False(t, book.IsClosed)
}

func TestRegistryBookServiceOpenValidation(t *testing.T) {
	svc := NewRegistryBookService(newRegistryBookStoreStub(), nil, nil, nil)

	_, err := svc.Open(context.Background(), dto.OpenRegistryBookRequest{Year: 2025})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRegistryBookServiceClose(t *testing.T) {
	store := newRegistryBookStoreStub()
	store.books["book-1"] = &models.RegistryBook{ID: "book-1", BookNumber: "B-2025-01", Year: 2025}
	svc := NewRegistryBookService(store, nil, nil, nil)

	book, err := svc.Close(context.Background(), "book-1")
	require.NoError(t, err)
	assert.True(t, book.IsClosed)
	require.NotNil(t, book.ClosedAt)
	assert.Equal(t, 1, store.closeCalls)
}

func TestRegistryBookServiceCloseIdempotent(t *testing.T) {
	store := newRegistryBookStoreStub()
	closedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.books["book-1"] = &models.RegistryBook{
		ID: "book-1", BookNumber: "B-2025-01", Year: 2025,
		IsClosed: true, ClosedAt: &closedAt,
	}
	svc := NewRegistryBookService(store, nil, nil, nil)

	book, err := svc.Close(context.Background(), "book-1")
	require.NoError(t, err)
	assert.True(t, book.IsClosed)
	require.NotNil(t, book.ClosedAt)
	// closed_at keeps its first value; the store is not asked to close again
	assert.True(t, book.ClosedAt.Equal(closedAt))
	assert.Equal(t, 0, store.closeCalls)
}

func TestRegistryBookServiceGetNotFound(t *testing.T) {
	svc := NewRegistryBookService(newRegistryBookStoreStub(), nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
