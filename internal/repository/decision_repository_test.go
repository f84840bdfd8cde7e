package repository

import (
	"context"
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

func TestDecisionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDecisionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO graduation_decisions")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	decision := &models.GraduationDecision{
		DecisionNumber: "QD-2025-01",
		DecisionDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Title:          "Graduation cohort 2025",
		SignerName:     "Tran Thi B",
		SignerTitle:    "Principal",
		TotalGraduates: 120,
		CreatedBy:      "registrar-1",
	}
	err := repo.Create(context.Background(), decision)
	require.NoError(t, err)
	assert.NotEmpty(t, decision.ID)
}

func TestDecisionRepositoryCreateDuplicateNumber(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDecisionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO graduation_decisions")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "graduation_decisions_number_uidx"})

	err := repo.Create(context.Background(), &models.GraduationDecision{DecisionNumber: "QD-2025-01"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateNumber.Code, appErrors.FromError(err).Code)
}

func TestDecisionRepositoryPublish(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDecisionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE graduation_decisions")).
		WithArgs("decision-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	transitioned, err := repo.Publish(context.Background(), "decision-1", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, transitioned)
}

func TestDecisionRepositoryPublishAlreadyPublished(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDecisionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE graduation_decisions")).
		WithArgs("decision-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	transitioned, err := repo.Publish(context.Background(), "decision-1", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, transitioned)
}
