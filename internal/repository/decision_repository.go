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

// DecisionRepository persists graduation decision rows.
type DecisionRepository struct {
	db *sqlx.DB
}

// NewDecisionRepository constructs the repository.
func NewDecisionRepository(db *sqlx.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

const decisionColumns = `id, decision_number, decision_date, title, content, signer_name, signer_title,
	total_graduates, is_published, published_at, created_by, metadata, created_at, updated_at`

// Create inserts a new graduation decision.
func (r *DecisionRepository) Create(ctx context.Context, decision *models.GraduationDecision) error {
	now := time.Now().UTC()
	if decision.ID == "" {
		decision.ID = uuid.NewString()
	}
	decision.CreatedAt = now
	decision.UpdatedAt = now
	const query = `INSERT INTO graduation_decisions
	(id, decision_number, decision_date, title, content, signer_name, signer_title,
	 total_graduates, is_published, published_at, created_by, metadata, created_at, updated_at)
	VALUES (:id, :decision_number, :decision_date, :title, :content, :signer_name, :signer_title,
	 :total_graduates, :is_published, :published_at, :created_by, :metadata, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, decision); err != nil {
		return classifyPGError(fmt.Errorf("create graduation decision: %w", err))
	}
	return nil
}

// GetByID fetches a decision by identifier.
func (r *DecisionRepository) GetByID(ctx context.Context, id string) (*models.GraduationDecision, error) {
	query := `SELECT ` + decisionColumns + ` FROM graduation_decisions WHERE id = $1`
	var decision models.GraduationDecision
	if err := r.db.GetContext(ctx, &decision, query, id); err != nil {
		return nil, err
	}
	return &decision, nil
}

// GetByNumber fetches a decision by its unique decision number.
func (r *DecisionRepository) GetByNumber(ctx context.Context, decisionNumber string) (*models.GraduationDecision, error) {
	query := `SELECT ` + decisionColumns + ` FROM graduation_decisions WHERE decision_number = $1`
	var decision models.GraduationDecision
	if err := r.db.GetContext(ctx, &decision, query, decisionNumber); err != nil {
		return nil, err
	}
	return &decision, nil
}

// List returns decisions matching the filter, most recent decision first.
func (r *DecisionRepository) List(ctx context.Context, filter models.GraduationDecisionFilter) ([]models.GraduationDecision, int, error) {
	args := make([]interface{}, 0, 2)
	conditions := make([]string, 0, 2)

	if filter.Year > 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM decision_date) = $%d", len(args)))
	}
	if filter.IsPublished != nil {
		args = append(args, *filter.IsPublished)
		conditions = append(conditions, fmt.Sprintf("is_published = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM graduation_decisions"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count graduation decisions: %w", err)
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	query := `SELECT ` + decisionColumns + ` FROM graduation_decisions` + where +
		" ORDER BY decision_date DESC, decision_number ASC" +
		fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	var decisions []models.GraduationDecision
	if err := r.db.SelectContext(ctx, &decisions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list graduation decisions: %w", err)
	}
	return decisions, total, nil
}

// Publish flips the one-way is_published flag. It reports whether a row
// actually transitioned, so repeat publishes can be treated as no-ops and
// published_at keeps its first value.
func (r *DecisionRepository) Publish(ctx context.Context, id string, publishedAt time.Time) (bool, error) {
	const query = `UPDATE graduation_decisions
	SET is_published = true, published_at = $2, updated_at = $3
	WHERE id = $1 AND is_published = false`
	result, err := r.db.ExecContext(ctx, query, id, publishedAt, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("publish graduation decision: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check publish rows: %w", err)
	}
	return rows > 0, nil
}
