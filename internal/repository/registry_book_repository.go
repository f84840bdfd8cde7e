package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cert-registry-api/internal/models"
)

// RegistryBookRepository persists registry book rows.
type RegistryBookRepository struct {
	db *sqlx.DB
}

// NewRegistryBookRepository constructs the repository.
func NewRegistryBookRepository(db *sqlx.DB) *RegistryBookRepository {
	return &RegistryBookRepository{db: db}
}

const registryBookColumns = `id, book_number, year, storage_location, is_closed, opened_at, closed_at, created_at, updated_at`

// Create inserts a new open registry book.
func (r *RegistryBookRepository) Create(ctx context.Context, book *models.RegistryBook) error {
	now := time.Now().UTC()
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	if book.OpenedAt.IsZero() {
		book.OpenedAt = now
	}
	book.CreatedAt = now
	book.UpdatedAt = now
	const query = `INSERT INTO registry_book
	(id, book_number, year, storage_location, is_closed, opened_at, closed_at, created_at, updated_at)
	VALUES (:id, :book_number, :year, :storage_location, :is_closed, :opened_at, :closed_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, book); err != nil {
		return classifyPGError(fmt.Errorf("create registry book: %w", err))
	}
	return nil
}

// GetByID fetches a registry book by identifier.
func (r *RegistryBookRepository) GetByID(ctx context.Context, id string) (*models.RegistryBook, error) {
	query := `SELECT ` + registryBookColumns + ` FROM registry_book WHERE id = $1`
	var book models.RegistryBook
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns registry books matching the filter, newest first.
func (r *RegistryBookRepository) List(ctx context.Context, filter models.RegistryBookFilter) ([]models.RegistryBook, int, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	conditions := make([]string, 0, 2)

	if filter.Year > 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)))
	}
	if filter.IsClosed != nil {
		args = append(args, *filter.IsClosed)
		conditions = append(conditions, fmt.Sprintf("is_closed = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM registry_book"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count registry books: %w", err)
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	builder.WriteString(`SELECT ` + registryBookColumns + ` FROM registry_book`)
	builder.WriteString(where)
	builder.WriteString(" ORDER BY year DESC, book_number ASC")
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize))

	var books []models.RegistryBook
	if err := r.db.SelectContext(ctx, &books, builder.String(), args...); err != nil {
		return nil, 0, fmt.Errorf("list registry books: %w", err)
	}
	return books, total, nil
}

// Close marks the book closed. It reports whether a row actually
// transitioned, so callers can treat repeat closes as no-ops.
func (r *RegistryBookRepository) Close(ctx context.Context, id string, closedAt time.Time) (bool, error) {
	const query = `UPDATE registry_book
	SET is_closed = true, closed_at = $2, updated_at = $3
	WHERE id = $1 AND is_closed = false`
	result, err := r.db.ExecContext(ctx, query, id, closedAt, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("close registry book: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check close rows: %w", err)
	}
	return rows > 0, nil
}
