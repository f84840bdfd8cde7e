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

// BlankRepository persists certificate blank stock and its inventory log.
type BlankRepository struct {
	db *sqlx.DB
}

// NewBlankRepository constructs the repository.
func NewBlankRepository(db *sqlx.DB) *BlankRepository {
	return &BlankRepository{db: db}
}

const blankColumns = `id, serial_number, certificate_type_id, status, received_at, received_from,
	assigned_to, assigned_at, used_at, destroyed_at, destroyed_reason, destroyed_by, created_at, updated_at`

const insertBlankQuery = `INSERT INTO certificate_blanks
	(id, serial_number, certificate_type_id, status, received_at, received_from,
	 assigned_to, assigned_at, used_at, destroyed_at, destroyed_reason, destroyed_by, created_at, updated_at)
	VALUES (:id, :serial_number, :certificate_type_id, :status, :received_at, :received_from,
	 :assigned_to, :assigned_at, :used_at, :destroyed_at, :destroyed_reason, :destroyed_by, :created_at, :updated_at)`

// ReceiveBatch inserts a contiguous run of blanks and the matching receive
// log entry in one transaction. Any serial collision rolls back the whole
// batch.
func (r *BlankRepository) ReceiveBatch(ctx context.Context, blanks []models.CertificateBlank, logEntry *models.BlankInventoryLog) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin receive transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range blanks {
		blank := &blanks[i]
		if blank.ID == "" {
			blank.ID = uuid.NewString()
		}
		if blank.Status == "" {
			blank.Status = models.BlankStatusInStock
		}
		if blank.ReceivedAt.IsZero() {
			blank.ReceivedAt = now
		}
		blank.CreatedAt = now
		blank.UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, insertBlankQuery, blank); err != nil {
			return classifyPGError(fmt.Errorf("insert blank %s: %w", blank.SerialNumber, err))
		}
	}

	if err = insertInventoryLog(ctx, tx, logEntry); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit receive transaction: %w", err)
	}
	return nil
}

// GetBySerial fetches a blank by its unique serial number.
func (r *BlankRepository) GetBySerial(ctx context.Context, serial string) (*models.CertificateBlank, error) {
	query := `SELECT ` + blankColumns + ` FROM certificate_blanks WHERE serial_number = $1`
	var blank models.CertificateBlank
	if err := r.db.GetContext(ctx, &blank, query, serial); err != nil {
		return nil, err
	}
	return &blank, nil
}

// List returns blanks matching the filter, oldest received first.
func (r *BlankRepository) List(ctx context.Context, filter models.BlankFilter) ([]models.CertificateBlank, int, error) {
	args := make([]interface{}, 0, 2)
	conditions := make([]string, 0, 2)

	if filter.CertificateTypeID != "" {
		args = append(args, filter.CertificateTypeID)
		conditions = append(conditions, fmt.Sprintf("certificate_type_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM certificate_blanks"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count blanks: %w", err)
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	query := `SELECT ` + blankColumns + ` FROM certificate_blanks` + where +
		" ORDER BY received_at ASC, serial_number ASC" +
		fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	var blanks []models.CertificateBlank
	if err := r.db.SelectContext(ctx, &blanks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list blanks: %w", err)
	}
	return blanks, total, nil
}

// BlankTransitionParams groups the columns touched by a guarded status
// transition. The update only applies while the row still holds From.
type BlankTransitionParams struct {
	SerialNumber    string
	From            models.BlankStatus
	To              models.BlankStatus
	AssignedTo      *string
	AssignedAt      *time.Time
	UsedAt          *time.Time
	DestroyedAt     *time.Time
	DestroyedReason *string
	DestroyedBy     *string
}

// Transition applies a guarded status update plus the matching inventory
// log entry in one transaction. sql.ErrNoRows signals the row was not in
// the expected From state (a concurrent writer won the race).
func (r *BlankRepository) Transition(ctx context.Context, params BlankTransitionParams, logEntry *models.BlankInventoryLog) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = transitionBlank(ctx, tx, params); err != nil {
		return err
	}
	if err = insertInventoryLog(ctx, tx, logEntry); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transition transaction: %w", err)
	}
	return nil
}

// transitionBlank performs the guarded status update against the supplied
// executor so issuance can reuse it inside its own transaction.
func transitionBlank(ctx context.Context, exec sqlx.ExtContext, params BlankTransitionParams) error {
	setParts := []string{"status = :to", "updated_at = :updated_at"}
	if params.AssignedTo != nil {
		setParts = append(setParts, "assigned_to = :assigned_to")
	}
	if params.AssignedAt != nil {
		setParts = append(setParts, "assigned_at = :assigned_at")
	}
	if params.UsedAt != nil {
		setParts = append(setParts, "used_at = :used_at")
	}
	if params.DestroyedAt != nil {
		setParts = append(setParts, "destroyed_at = :destroyed_at", "destroyed_reason = :destroyed_reason", "destroyed_by = :destroyed_by")
	}
	query := fmt.Sprintf(`UPDATE certificate_blanks SET %s WHERE serial_number = :serial_number AND status = :from`,
		strings.Join(setParts, ", "))
	result, err := sqlx.NamedExecContext(ctx, exec, query, map[string]interface{}{
		"serial_number":    params.SerialNumber,
		"from":             params.From,
		"to":               params.To,
		"assigned_to":      params.AssignedTo,
		"assigned_at":      params.AssignedAt,
		"used_at":          params.UsedAt,
		"destroyed_at":     params.DestroyedAt,
		"destroyed_reason": params.DestroyedReason,
		"destroyed_by":     params.DestroyedBy,
		"updated_at":       time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("transition blank %s: %w", params.SerialNumber, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check transition rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// insertInventoryLog appends a stock movement row. The log is insert-only;
// nothing ever updates or deletes it.
func insertInventoryLog(ctx context.Context, exec sqlx.ExtContext, logEntry *models.BlankInventoryLog) error {
	if logEntry == nil {
		return nil
	}
	if logEntry.ID == "" {
		logEntry.ID = uuid.NewString()
	}
	if logEntry.CreatedAt.IsZero() {
		logEntry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO blank_inventory_log
	(id, action, serial_number_from, serial_number_to, quantity, performed_by, notes, created_at)
	VALUES (:id, :action, :serial_number_from, :serial_number_to, :quantity, :performed_by, :notes, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, logEntry); err != nil {
		return fmt.Errorf("insert inventory log: %w", err)
	}
	return nil
}
