package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cert-registry-api/internal/models"
)

// CertificateTypeRepository persists certificate type rows.
type CertificateTypeRepository struct {
	db *sqlx.DB
}

// NewCertificateTypeRepository constructs the repository.
func NewCertificateTypeRepository(db *sqlx.DB) *CertificateTypeRepository {
	return &CertificateTypeRepository{db: db}
}

const certificateTypeColumns = `id, code, name, description, template_path, validity_months, is_active, metadata, created_at, updated_at`

// Create inserts a new certificate type.
func (r *CertificateTypeRepository) Create(ctx context.Context, ct *models.CertificateType) error {
	now := time.Now().UTC()
	if ct.ID == "" {
		ct.ID = uuid.NewString()
	}
	ct.CreatedAt = now
	ct.UpdatedAt = now
	const query = `INSERT INTO certificate_types
	(id, code, name, description, template_path, validity_months, is_active, metadata, created_at, updated_at)
	VALUES (:id, :code, :name, :description, :template_path, :validity_months, :is_active, :metadata, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ct); err != nil {
		return classifyPGError(fmt.Errorf("create certificate type: %w", err))
	}
	return nil
}

// GetByID fetches a certificate type by identifier.
func (r *CertificateTypeRepository) GetByID(ctx context.Context, id string) (*models.CertificateType, error) {
	query := `SELECT ` + certificateTypeColumns + ` FROM certificate_types WHERE id = $1`
	var ct models.CertificateType
	if err := r.db.GetContext(ctx, &ct, query, id); err != nil {
		return nil, err
	}
	return &ct, nil
}

// GetByCode fetches a certificate type by its unique code.
func (r *CertificateTypeRepository) GetByCode(ctx context.Context, code string) (*models.CertificateType, error) {
	query := `SELECT ` + certificateTypeColumns + ` FROM certificate_types WHERE code = $1`
	var ct models.CertificateType
	if err := r.db.GetContext(ctx, &ct, query, code); err != nil {
		return nil, err
	}
	return &ct, nil
}

// List returns certificate types matching the filter.
func (r *CertificateTypeRepository) List(ctx context.Context, filter models.CertificateTypeFilter) ([]models.CertificateType, int, error) {
	args := make([]interface{}, 0, 2)
	conditions := make([]string, 0, 2)

	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM certificate_types"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count certificate types: %w", err)
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	query := `SELECT ` + certificateTypeColumns + ` FROM certificate_types` + where +
		" ORDER BY code ASC" + fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	var types []models.CertificateType
	if err := r.db.SelectContext(ctx, &types, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list certificate types: %w", err)
	}
	return types, total, nil
}

// UpdateCertificateTypeParams groups mutable columns. Nil fields are left
// untouched; code is immutable.
type UpdateCertificateTypeParams struct {
	ID             string
	Name           *string
	Description    *string
	TemplatePath   *string
	ValidityMonths *int
	Metadata       []byte
}

// Update persists mutable type fields.
func (r *CertificateTypeRepository) Update(ctx context.Context, params UpdateCertificateTypeParams) error {
	setParts := []string{"updated_at = :updated_at"}
	if params.Name != nil {
		setParts = append(setParts, "name = :name")
	}
	if params.Description != nil {
		setParts = append(setParts, "description = :description")
	}
	if params.TemplatePath != nil {
		setParts = append(setParts, "template_path = :template_path")
	}
	if params.ValidityMonths != nil {
		setParts = append(setParts, "validity_months = :validity_months")
	}
	if len(params.Metadata) > 0 {
		setParts = append(setParts, "metadata = :metadata")
	}
	query := fmt.Sprintf("UPDATE certificate_types SET %s WHERE id = :id", strings.Join(setParts, ", "))
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":              params.ID,
		"name":            params.Name,
		"description":     params.Description,
		"template_path":   params.TemplatePath,
		"validity_months": params.ValidityMonths,
		"metadata":        params.Metadata,
		"updated_at":      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("update certificate type: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check type update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetActive flips the is_active flag.
func (r *CertificateTypeRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE certificate_types SET is_active = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set certificate type active: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check active update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
