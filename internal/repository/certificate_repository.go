package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

// CertificateRepository persists certificates and owns the atomic issuance
// unit of work: blank consumption, number minting, and row creation either
// all apply or none do.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs the repository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

const certificateColumns = `id, registry_book_id, certificate_type_id, blank_id, student_id,
	full_name_snapshot, dob_snapshot, pob_snapshot, gender_snapshot, ethnicity_snapshot,
	nationality_snapshot, id_number_snapshot, classification, decision_number, decision_date,
	serial_number, registry_number, issue_date, expiry_date, signer_name, signer_title,
	status, revocation_reason, revocation_date, revocation_decision_number,
	issued_by, metadata, created_at, updated_at`

const insertCertificateQuery = `INSERT INTO certificates
	(id, registry_book_id, certificate_type_id, blank_id, student_id,
	 full_name_snapshot, dob_snapshot, pob_snapshot, gender_snapshot, ethnicity_snapshot,
	 nationality_snapshot, id_number_snapshot, classification, decision_number, decision_date,
	 serial_number, registry_number, issue_date, expiry_date, signer_name, signer_title,
	 status, revocation_reason, revocation_date, revocation_decision_number,
	 issued_by, metadata, created_at, updated_at)
	VALUES (:id, :registry_book_id, :certificate_type_id, :blank_id, :student_id,
	 :full_name_snapshot, :dob_snapshot, :pob_snapshot, :gender_snapshot, :ethnicity_snapshot,
	 :nationality_snapshot, :id_number_snapshot, :classification, :decision_number, :decision_date,
	 :serial_number, :registry_number, :issue_date, :expiry_date, :signer_name, :signer_title,
	 :status, :revocation_reason, :revocation_date, :revocation_decision_number,
	 :issued_by, :metadata, :created_at, :updated_at)`

// IssuanceParams carries a fully populated certificate (except blank_id)
// plus the blank targeting rule. An empty BlankSerial selects the oldest
// in-stock blank of the certificate's type.
type IssuanceParams struct {
	Certificate *models.Certificate
	BlankSerial string
	PerformedBy string
}

// Issue executes the whole issuance as one transaction. Preconditions are
// checked in spec order (book open, type active, blank available, numbers
// free); the first failure wins and rolls everything back.
func (r *CertificateRepository) Issue(ctx context.Context, params IssuanceParams) (cert *models.Certificate, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin issuance transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cert, err = r.issueTx(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit issuance transaction: %w", err)
	}
	return cert, nil
}

func (r *CertificateRepository) issueTx(ctx context.Context, tx *sqlx.Tx, params IssuanceParams) (*models.Certificate, error) {
	cert := params.Certificate

	var book struct {
		IsClosed bool `db:"is_closed"`
	}
	if err := tx.GetContext(ctx, &book, `SELECT is_closed FROM registry_book WHERE id = $1`, cert.RegistryBookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registry book not found")
		}
		return nil, fmt.Errorf("load registry book: %w", err)
	}
	if book.IsClosed {
		return nil, appErrors.ErrRegistryBookClosed
	}

	var ctype struct {
		IsActive bool `db:"is_active"`
	}
	if err := tx.GetContext(ctx, &ctype, `SELECT is_active FROM certificate_types WHERE id = $1`, cert.CertificateTypeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate type not found")
		}
		return nil, fmt.Errorf("load certificate type: %w", err)
	}
	if !ctype.IsActive {
		return nil, appErrors.ErrInactiveCertificateType
	}

	blank, err := r.lockBlank(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	var taken bool
	if err := tx.GetContext(ctx, &taken, `SELECT EXISTS (SELECT 1 FROM certificates WHERE serial_number = $1)`, cert.SerialNumber); err != nil {
		return nil, fmt.Errorf("check serial number: %w", err)
	}
	if taken {
		return nil, appErrors.ErrDuplicateSerial
	}
	if err := tx.GetContext(ctx, &taken, `SELECT EXISTS (SELECT 1 FROM certificates WHERE registry_number = $1)`, cert.RegistryNumber); err != nil {
		return nil, fmt.Errorf("check registry number: %w", err)
	}
	if taken {
		return nil, appErrors.ErrDuplicateNumber
	}

	now := time.Now().UTC()
	if blank.Status == models.BlankStatusInStock {
		assignedTo := cert.IssuedBy
		if err := transitionBlank(ctx, tx, BlankTransitionParams{
			SerialNumber: blank.SerialNumber,
			From:         models.BlankStatusInStock,
			To:           models.BlankStatusAssigned,
			AssignedTo:   &assignedTo,
			AssignedAt:   &now,
		}); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.ErrBlankUnavailable
			}
			return nil, err
		}
	}
	if err := transitionBlank(ctx, tx, BlankTransitionParams{
		SerialNumber: blank.SerialNumber,
		From:         models.BlankStatusAssigned,
		To:           models.BlankStatusUsed,
		UsedAt:       &now,
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrBlankUnavailable
		}
		return nil, err
	}

	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	cert.BlankID = &blank.ID
	cert.Status = models.CertificateStatusActive
	cert.CreatedAt = now
	cert.UpdatedAt = now
	if _, err := tx.NamedExecContext(ctx, insertCertificateQuery, cert); err != nil {
		return nil, classifyPGError(fmt.Errorf("insert certificate: %w", err))
	}

	performedBy := params.PerformedBy
	if performedBy == "" {
		performedBy = cert.IssuedBy
	}
	if err := insertInventoryLog(ctx, tx, &models.BlankInventoryLog{
		Action:           models.InventoryActionUse,
		SerialNumberFrom: blank.SerialNumber,
		SerialNumberTo:   blank.SerialNumber,
		Quantity:         1,
		PerformedBy:      performedBy,
	}); err != nil {
		return nil, err
	}

	return cert, nil
}

// lockBlank resolves and row-locks the target blank. Explicit serials must
// be in_stock or assigned; automatic selection takes the oldest in_stock
// blank of the matching type, skipping rows locked by parallel issuances.
func (r *CertificateRepository) lockBlank(ctx context.Context, tx *sqlx.Tx, params IssuanceParams) (*models.CertificateBlank, error) {
	var blank models.CertificateBlank
	if params.BlankSerial != "" {
		query := `SELECT ` + blankColumns + ` FROM certificate_blanks WHERE serial_number = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &blank, query, params.BlankSerial); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.ErrBlankUnavailable
			}
			return nil, fmt.Errorf("lock blank: %w", err)
		}
		if blank.Status != models.BlankStatusInStock && blank.Status != models.BlankStatusAssigned {
			return nil, appErrors.ErrBlankUnavailable
		}
		if blank.CertificateTypeID != params.Certificate.CertificateTypeID {
			return nil, appErrors.Clone(appErrors.ErrBlankUnavailable, "blank belongs to a different certificate type")
		}
		return &blank, nil
	}

	query := `SELECT ` + blankColumns + ` FROM certificate_blanks
	WHERE certificate_type_id = $1 AND status = $2
	ORDER BY received_at ASC, serial_number ASC
	LIMIT 1 FOR UPDATE SKIP LOCKED`
	if err := tx.GetContext(ctx, &blank, query, params.Certificate.CertificateTypeID, models.BlankStatusInStock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrBlankUnavailable, "no in-stock blank for certificate type")
		}
		return nil, fmt.Errorf("select blank: %w", err)
	}
	return &blank, nil
}

// GetByID fetches a certificate by identifier.
func (r *CertificateRepository) GetByID(ctx context.Context, id string) (*models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, id); err != nil {
		return nil, err
	}
	return &cert, nil
}

// GetBySerial fetches a certificate by its unique serial number.
func (r *CertificateRepository) GetBySerial(ctx context.Context, serial string) (*models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE serial_number = $1`
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, serial); err != nil {
		return nil, err
	}
	return &cert, nil
}

// GetByRegistryNumber fetches a certificate by its unique registry number.
func (r *CertificateRepository) GetByRegistryNumber(ctx context.Context, registryNumber string) (*models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE registry_number = $1`
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, registryNumber); err != nil {
		return nil, err
	}
	return &cert, nil
}

// List returns certificates matching the filter, newest issue first.
func (r *CertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error) {
	args := make([]interface{}, 0, 5)
	conditions := make([]string, 0, 5)

	if filter.RegistryBookID != "" {
		args = append(args, filter.RegistryBookID)
		conditions = append(conditions, fmt.Sprintf("registry_book_id = $%d", len(args)))
	}
	if filter.CertificateTypeID != "" {
		args = append(args, filter.CertificateTypeID)
		conditions = append(conditions, fmt.Sprintf("certificate_type_id = $%d", len(args)))
	}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.DecisionNumber != "" {
		args = append(args, filter.DecisionNumber)
		conditions = append(conditions, fmt.Sprintf("decision_number = $%d", len(args)))
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
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM certificates"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count certificates: %w", err)
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	query := `SELECT ` + certificateColumns + ` FROM certificates` + where +
		" ORDER BY issue_date DESC, registry_number ASC" +
		fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	var certs []models.Certificate
	if err := r.db.SelectContext(ctx, &certs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list certificates: %w", err)
	}
	return certs, total, nil
}

// ListByRegistryBook returns every certificate recorded in a book, ordered
// by registry number, for manifest exports.
func (r *CertificateRepository) ListByRegistryBook(ctx context.Context, registryBookID string) ([]models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE registry_book_id = $1 ORDER BY registry_number ASC`
	var certs []models.Certificate
	if err := r.db.SelectContext(ctx, &certs, query, registryBookID); err != nil {
		return nil, fmt.Errorf("list certificates by book: %w", err)
	}
	return certs, nil
}

// RevokeCertificateParams groups the revocation columns.
type RevokeCertificateParams struct {
	ID             string
	Reason         string
	DecisionNumber string
	Date           time.Time
}

// Revoke applies a guarded active/corrected -> revoked transition.
// sql.ErrNoRows signals the certificate was not in a revocable state.
func (r *CertificateRepository) Revoke(ctx context.Context, params RevokeCertificateParams) error {
	const query = `UPDATE certificates
	SET status = $2, revocation_reason = $3, revocation_date = $4, revocation_decision_number = $5, updated_at = $6
	WHERE id = $1 AND status IN ($7, $8)`
	result, err := r.db.ExecContext(ctx, query,
		params.ID, models.CertificateStatusRevoked, params.Reason, params.Date, params.DecisionNumber,
		time.Now().UTC(), models.CertificateStatusActive, models.CertificateStatusCorrected)
	if err != nil {
		return fmt.Errorf("revoke certificate: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check revoke rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Replace marks the old certificate replaced and issues the new one inside
// the same transaction, so a failed issuance leaves the old row untouched.
func (r *CertificateRepository) Replace(ctx context.Context, oldID string, params IssuanceParams) (cert *models.Certificate, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE certificates SET status = $2, updated_at = $3
	WHERE id = $1 AND status IN ($4, $5, $6)`
	result, err := tx.ExecContext(ctx, query,
		oldID, models.CertificateStatusReplaced, time.Now().UTC(),
		models.CertificateStatusActive, models.CertificateStatusRevoked, models.CertificateStatusCorrected)
	if err != nil {
		return nil, fmt.Errorf("mark certificate replaced: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check replace rows: %w", err)
	}
	if rows == 0 {
		return nil, sql.ErrNoRows
	}

	cert, err = r.issueTx(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace transaction: %w", err)
	}
	return cert, nil
}
