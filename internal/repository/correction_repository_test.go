package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

func certificateRows(status string) *sqlmock.Rows {
	now := time.Now().UTC()
	dob := time.Date(2007, 5, 12, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "registry_book_id", "certificate_type_id", "blank_id", "student_id",
		"full_name_snapshot", "dob_snapshot", "pob_snapshot", "gender_snapshot", "ethnicity_snapshot",
		"nationality_snapshot", "id_number_snapshot", "classification", "decision_number", "decision_date",
		"serial_number", "registry_number", "issue_date", "expiry_date", "signer_name", "signer_title",
		"status", "revocation_reason", "revocation_date", "revocation_decision_number",
		"issued_by", "metadata", "created_at", "updated_at"}).
		AddRow("cert-1", "book-1", "type-1", "blank-1", "student-1",
			"Nguyen Van A", dob, "Hanoi", "male", nil,
			nil, nil, "good", "QD-2025-01", now,
			"CERT-0001", "0001/2025", now, nil, nil, nil,
			status, nil, nil, nil,
			"registrar-1", nil, now, now)
}

func correctionFixture() CorrectionParams {
	return CorrectionParams{
		CertificateID:            "cert-1",
		CorrectionDecisionNumber: "QD-2025-55",
		CorrectionDate:           time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		NewContent: models.CorrectionContent{
			FullName: "Nguyen Van An",
			DOB:      "2007-05-12",
			POB:      "Hanoi",
			Gender:   "male",
		},
		Reason:      "name misspelled on issuance",
		PerformedBy: "registrar-2",
	}
}

func TestCorrectionRepositoryCorrect(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCorrectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM certificates WHERE id = $1 FOR UPDATE")).
		WithArgs("cert-1").
		WillReturnRows(certificateRows("active"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO certificate_correction_log")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificates")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	logRow, cert, err := repo.Correct(context.Background(), correctionFixture())
	require.NoError(t, err)
	assert.Equal(t, models.CertificateStatusCorrected, cert.Status)
	assert.Equal(t, "Nguyen Van An", cert.FullNameSnapshot)

	// The before-image must come from the row, not the request.
	var old models.CorrectionContent
	require.NoError(t, json.Unmarshal(logRow.OldContent, &old))
	assert.Equal(t, "Nguyen Van A", old.FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCorrectionRepositoryCorrectReplacedCertificate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCorrectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM certificates WHERE id = $1 FOR UPDATE")).
		WithArgs("cert-1").
		WillReturnRows(certificateRows("replaced"))
	mock.ExpectRollback()

	_, _, err := repo.Correct(context.Background(), correctionFixture())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCorrectionRepositoryCorrectAgain(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCorrectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM certificates WHERE id = $1 FOR UPDATE")).
		WithArgs("cert-1").
		WillReturnRows(certificateRows("corrected"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO certificate_correction_log")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificates")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, cert, err := repo.Correct(context.Background(), correctionFixture())
	require.NoError(t, err)
	assert.Equal(t, models.CertificateStatusCorrected, cert.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCorrectionRepositoryListByCertificate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCorrectionRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "certificate_id", "correction_decision_number", "correction_date",
		"old_content", "new_content", "reason", "performed_by", "approved_by", "created_at"}).
		AddRow("log-1", "cert-1", "QD-2025-55", now, []byte(`{}`), []byte(`{}`), "typo", "registrar-2", nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM certificate_correction_log WHERE certificate_id = $1 ORDER BY created_at ASC")).
		WithArgs("cert-1").
		WillReturnRows(rows)

	logs, err := repo.ListByCertificate(context.Background(), "cert-1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "QD-2025-55", logs[0].CorrectionDecisionNumber)
}
