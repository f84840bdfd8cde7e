package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

// CorrectionRepository persists the append-only certificate correction log.
type CorrectionRepository struct {
	db *sqlx.DB
}

// NewCorrectionRepository constructs the repository.
func NewCorrectionRepository(db *sqlx.DB) *CorrectionRepository {
	return &CorrectionRepository{db: db}
}

// CorrectionParams carries the amendment to record.
type CorrectionParams struct {
	CertificateID            string
	CorrectionDecisionNumber string
	CorrectionDate           time.Time
	NewContent               models.CorrectionContent
	Reason                   string
	PerformedBy              string
	ApprovedBy               *string
}

// Correct appends an immutable log row and applies the new content to the
// live certificate in one transaction. The before-image is captured from
// the row itself under lock, so prior log rows can never be rewritten by a
// later correction.
func (r *CorrectionRepository) Correct(ctx context.Context, params CorrectionParams) (logRow *models.CertificateCorrectionLog, cert *models.Certificate, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin correction transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1 FOR UPDATE`
	var current models.Certificate
	if err = tx.GetContext(ctx, &current, query, params.CertificateID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, nil, fmt.Errorf("lock certificate: %w", err)
	}
	if !current.Status.Correctable() {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("certificate in status %s cannot be corrected", current.Status))
	}

	oldContent := models.CorrectionContent{
		FullName:    current.FullNameSnapshot,
		DOB:         current.DOBSnapshot.Format("2006-01-02"),
		POB:         current.POBSnapshot,
		Gender:      current.GenderSnapshot,
		Ethnicity:   current.EthnicitySnapshot,
		Nationality: current.NationalitySnapshot,
		IDNumber:    current.IDNumberSnapshot,
	}
	oldJSON, err := json.Marshal(oldContent)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal old content: %w", err)
	}
	newJSON, err := json.Marshal(params.NewContent)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal new content: %w", err)
	}

	now := time.Now().UTC()
	logRow = &models.CertificateCorrectionLog{
		ID:                       uuid.NewString(),
		CertificateID:            params.CertificateID,
		CorrectionDecisionNumber: params.CorrectionDecisionNumber,
		CorrectionDate:           params.CorrectionDate,
		OldContent:               oldJSON,
		NewContent:               newJSON,
		Reason:                   params.Reason,
		PerformedBy:              params.PerformedBy,
		ApprovedBy:               params.ApprovedBy,
		CreatedAt:                now,
	}
	const insertQuery = `INSERT INTO certificate_correction_log
	(id, certificate_id, correction_decision_number, correction_date, old_content, new_content, reason, performed_by, approved_by, created_at)
	VALUES (:id, :certificate_id, :correction_decision_number, :correction_date, :old_content, :new_content, :reason, :performed_by, :approved_by, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, logRow); err != nil {
		return nil, nil, classifyPGError(fmt.Errorf("insert correction log: %w", err))
	}

	dob, err := time.Parse("2006-01-02", params.NewContent.DOB)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "new content dob must be YYYY-MM-DD")
	}
	const updateQuery = `UPDATE certificates
	SET full_name_snapshot = $2, dob_snapshot = $3, pob_snapshot = $4, gender_snapshot = $5,
	    ethnicity_snapshot = $6, nationality_snapshot = $7, id_number_snapshot = $8,
	    status = $9, updated_at = $10
	WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery,
		params.CertificateID, params.NewContent.FullName, dob, params.NewContent.POB,
		params.NewContent.Gender, params.NewContent.Ethnicity, params.NewContent.Nationality,
		params.NewContent.IDNumber, models.CertificateStatusCorrected, now); err != nil {
		return nil, nil, fmt.Errorf("apply correction: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit correction transaction: %w", err)
	}

	current.FullNameSnapshot = params.NewContent.FullName
	current.DOBSnapshot = dob
	current.POBSnapshot = params.NewContent.POB
	current.GenderSnapshot = params.NewContent.Gender
	current.EthnicitySnapshot = params.NewContent.Ethnicity
	current.NationalitySnapshot = params.NewContent.Nationality
	current.IDNumberSnapshot = params.NewContent.IDNumber
	current.Status = models.CertificateStatusCorrected
	current.UpdatedAt = now
	return logRow, &current, nil
}

// ListByCertificate returns the correction history, oldest first.
func (r *CorrectionRepository) ListByCertificate(ctx context.Context, certificateID string) ([]models.CertificateCorrectionLog, error) {
	const query = `SELECT id, certificate_id, correction_decision_number, correction_date,
	old_content, new_content, reason, performed_by, approved_by, created_at
	FROM certificate_correction_log WHERE certificate_id = $1 ORDER BY created_at ASC`
	var logs []models.CertificateCorrectionLog
	if err := r.db.SelectContext(ctx, &logs, query, certificateID); err != nil {
		return nil, fmt.Errorf("list corrections: %w", err)
	}
	return logs, nil
}
