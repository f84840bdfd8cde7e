package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

func TestBlankRepositoryReceiveBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBlankRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO certificate_blanks")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO certificate_blanks")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blank_inventory_log")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	blanks := []models.CertificateBlank{
		{SerialNumber: "BLK-0001", CertificateTypeID: "type-1"},
		{SerialNumber: "BLK-0002", CertificateTypeID: "type-1"},
	}
	err := repo.ReceiveBatch(context.Background(), blanks, &models.BlankInventoryLog{
		Action:           models.InventoryActionReceive,
		SerialNumberFrom: "BLK-0001",
		SerialNumberTo:   "BLK-0002",
		Quantity:         2,
		PerformedBy:      "registrar-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, blanks[0].ID)
	assert.Equal(t, models.BlankStatusInStock, blanks[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlankRepositoryReceiveBatchDuplicateSerial(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBlankRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO certificate_blanks")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "certificate_blanks_serial_uidx"})
	mock.ExpectRollback()

	err := repo.ReceiveBatch(context.Background(), []models.CertificateBlank{
		{SerialNumber: "BLK-0001", CertificateTypeID: "type-1"},
	}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateSerial.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlankRepositoryTransition(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBlankRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificate_blanks")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blank_inventory_log")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assignedTo := "registrar-1"
	now := time.Now().UTC()
	err := repo.Transition(context.Background(), BlankTransitionParams{
		SerialNumber: "BLK-0001",
		From:         models.BlankStatusInStock,
		To:           models.BlankStatusAssigned,
		AssignedTo:   &assignedTo,
		AssignedAt:   &now,
	}, &models.BlankInventoryLog{
		Action:           models.InventoryActionAssign,
		SerialNumberFrom: "BLK-0001",
		SerialNumberTo:   "BLK-0001",
		Quantity:         1,
		PerformedBy:      "registrar-1",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlankRepositoryTransitionStaleState(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBlankRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE certificate_blanks")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Transition(context.Background(), BlankTransitionParams{
		SerialNumber: "BLK-0001",
		From:         models.BlankStatusInStock,
		To:           models.BlankStatusDestroyed,
	}, nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBlankRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBlankRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM certificate_blanks")).
		WithArgs("type-1", "in_stock").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	rows := sqlmock.NewRows([]string{"id", "serial_number", "certificate_type_id", "status", "received_at", "received_from",
		"assigned_to", "assigned_at", "used_at", "destroyed_at", "destroyed_reason", "destroyed_by", "created_at", "updated_at"}).
		AddRow("blank-1", "BLK-0001", "type-1", "in_stock", now, nil, nil, nil, nil, nil, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("type-1", "in_stock").
		WillReturnRows(rows)

	blanks, total, err := repo.List(context.Background(), models.BlankFilter{
		CertificateTypeID: "type-1",
		Status:            models.BlankStatusInStock,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, blanks, 1)
	assert.Equal(t, "BLK-0001", blanks[0].SerialNumber)
}
