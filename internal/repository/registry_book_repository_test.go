package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestRegistryBookRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistryBookRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registry_book")).
		WithArgs(sqlmock.AnyArg(), "B-2025-01", 2025, nil, false, sqlmock.AnyArg(), nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	book := &models.RegistryBook{BookNumber: "B-2025-01", Year: 2025}
	err := repo.Create(context.Background(), book)
	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)
	assert.False(t, book.OpenedAt.IsZero())
}

func TestRegistryBookRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistryBookRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registry_book")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "registry_book_number_year_uidx"})

	err := repo.Create(context.Background(), &models.RegistryBook{BookNumber: "B-2025-01", Year: 2025})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateNumber.Code, appErrors.FromError(err).Code)
}

func TestRegistryBookRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistryBookRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "book_number", "year", "storage_location", "is_closed", "opened_at", "closed_at", "created_at", "updated_at"}).
		AddRow("book-1", "B-2025-01", 2025, nil, false, now, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("book-1").
		WillReturnRows(rows)

	book, err := repo.GetByID(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, "B-2025-01", book.BookNumber)
	assert.False(t, book.IsClosed)
}

func TestRegistryBookRepositoryClose(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistryBookRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE registry_book")).
		WithArgs("book-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	transitioned, err := repo.Close(context.Background(), "book-1", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, transitioned)
}

func TestRegistryBookRepositoryCloseAlreadyClosed(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistryBookRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE registry_book")).
		WithArgs("book-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	transitioned, err := repo.Close(context.Background(), "book-1", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, transitioned)
}
