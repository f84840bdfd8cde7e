package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cert-registry-api/internal/models"
)

// InventoryLogRepository reads the append-only blank inventory log. Writes
// happen alongside the stock mutation they describe (see BlankRepository
// and CertificateRepository).
type InventoryLogRepository struct {
	db *sqlx.DB
}

// NewInventoryLogRepository constructs the repository.
func NewInventoryLogRepository(db *sqlx.DB) *InventoryLogRepository {
	return &InventoryLogRepository{db: db}
}

// List returns inventory movements matching the filter, newest first.
func (r *InventoryLogRepository) List(ctx context.Context, filter models.InventoryLogFilter) ([]models.BlankInventoryLog, int, error) {
	args := make([]interface{}, 0, 2)
	conditions := make([]string, 0, 2)

	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.PerformedBy != "" {
		args = append(args, filter.PerformedBy)
		conditions = append(conditions, fmt.Sprintf("performed_by = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM blank_inventory_log"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count inventory log: %w", err)
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	query := `SELECT id, action, serial_number_from, serial_number_to, quantity, performed_by, notes, created_at
	FROM blank_inventory_log` + where + " ORDER BY created_at DESC" +
		fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	var logs []models.BlankInventoryLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list inventory log: %w", err)
	}
	return logs, total, nil
}
