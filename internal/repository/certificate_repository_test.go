package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

func issuanceFixture() IssuanceParams {
	return IssuanceParams{
		Certificate: &models.Certificate{
			RegistryBookID:    "book-1",
			CertificateTypeID: "type-1",
			StudentID:         "student-1",
			FullNameSnapshot:  "Nguyen Van A",
			DOBSnapshot:       time.Date(2007, 5, 12, 0, 0, 0, 0, time.UTC),
			POBSnapshot:       "Hanoi",
			GenderSnapshot:    "male",
			Classification:    "good",
			DecisionNumber:    "QD-2025-01",
			DecisionDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			SerialNumber:      "CERT-0001",
			RegistryNumber:    "0001/2025",
			IssueDate:         time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			IssuedBy:          "registrar-1",
		},
		BlankSerial: "BLK-0001",
		PerformedBy: "registrar-1",
	}
}

func blankRows(status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "serial_number", "certificate_type_id", "status", "received_at", "received_from",
		"assigned_to", "assigned_at", "used_at", "destroyed_at", "destroyed_reason", "destroyed_by", "created_at", "updated_at"}).
		AddRow("blank-1", "BLK-0001", "type-1", status, now, nil, nil, nil, nil, nil, nil, nil, now, now)
}

func expectBookOpen(mock sqlmock.Sqlmock, closed bool) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_closed FROM registry_book")).
		WithArgs("book-1").
		WillReturnRows(sqlmock.NewRows([]string{"is_closed"}).AddRow(closed))
}

func expectTypeActive(mock sqlmock.Sqlmock, active bool) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_active FROM certificate_types")).
		WithArgs("type-1").
		WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(active))
}

func TestCertificateRepositoryIssue(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectBegin()
	expectBookOpen(mock, false)
	expectTypeActive(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM certificate_blanks WHERE serial_number = $1 FOR UPDATE")).
		WithArgs("BLK-0001").
		WillReturnRows(blankRows("in_stock"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM certificates WHERE serial_number = $1)")).
		WithArgs("CERT-0001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM certificates WHERE registry_number = $1)")).
		WithArgs("0001/2025").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	// in_stock -> assigned, then assigned -> used
	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificate_blanks")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificate_blanks")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO certificates")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blank_inventory_log")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cert, err := repo.Issue(context.Background(), issuanceFixture())
	require.NoError(t, err)
	assert.NotEmpty(t, cert.ID)
	assert.Equal(t, models.CertificateStatusActive, cert.Status)
	require.NotNil(t, cert.BlankID)
	assert.Equal(t, "blank-1", *cert.BlankID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryIssueClosedBook(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectBegin()
	expectBookOpen(mock, true)
	mock.ExpectRollback()

	_, err := repo.Issue(context.Background(), issuanceFixture())
	require.ErrorIs(t, err, appErrors.ErrRegistryBookClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryIssueInactiveType(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectBegin()
	expectBookOpen(mock, false)
	expectTypeActive(mock, false)
	mock.ExpectRollback()

	_, err := repo.Issue(context.Background(), issuanceFixture())
	require.ErrorIs(t, err, appErrors.ErrInactiveCertificateType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryIssueBlankUsed(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectBegin()
	expectBookOpen(mock, false)
	expectTypeActive(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM certificate_blanks WHERE serial_number = $1 FOR UPDATE")).
		WithArgs("BLK-0001").
		WillReturnRows(blankRows("used"))
	mock.ExpectRollback()

	_, err := repo.Issue(context.Background(), issuanceFixture())
	require.ErrorIs(t, err, appErrors.ErrBlankUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryIssueDuplicateSerial(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectBegin()
	expectBookOpen(mock, false)
	expectTypeActive(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM certificate_blanks WHERE serial_number = $1 FOR UPDATE")).
		WithArgs("BLK-0001").
		WillReturnRows(blankRows("in_stock"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM certificates WHERE serial_number = $1)")).
		WithArgs("CERT-0001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Issue(context.Background(), issuanceFixture())
	require.ErrorIs(t, err, appErrors.ErrDuplicateSerial)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryIssueAutoSelectsOldestBlank(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	params := issuanceFixture()
	params.BlankSerial = ""

	mock.ExpectBegin()
	expectBookOpen(mock, false)
	expectTypeActive(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT 1 FOR UPDATE SKIP LOCKED")).
		WithArgs("type-1", "in_stock").
		WillReturnRows(blankRows("in_stock"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM certificates WHERE serial_number = $1)")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM certificates WHERE registry_number = $1)")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificate_blanks")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificate_blanks")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO certificates")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blank_inventory_log")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cert, err := repo.Issue(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, models.CertificateStatusActive, cert.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryIssueNoBlankInStock(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	params := issuanceFixture()
	params.BlankSerial = ""

	mock.ExpectBegin()
	expectBookOpen(mock, false)
	expectTypeActive(mock, true)
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT 1 FOR UPDATE SKIP LOCKED")).
		WithArgs("type-1", "in_stock").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Issue(context.Background(), params)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBlankUnavailable.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepositoryRevokeStaleState(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificates")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Revoke(context.Background(), RevokeCertificateParams{
		ID:             "cert-1",
		Reason:         "data entry error",
		DecisionNumber: "QD-2025-99",
		Date:           time.Now().UTC(),
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCertificateRepositoryReplaceNotReplaceable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCertificateRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificates")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Replace(context.Background(), "cert-1", issuanceFixture())
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
