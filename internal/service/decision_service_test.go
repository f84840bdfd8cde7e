package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cert-registry-api/internal/dto"
	"github.com/noah-isme/cert-registry-api/internal/models"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

type decisionStoreStub struct {
	decisions    map[string]*models.GraduationDecision
	publishCalls int
}

func newDecisionStoreStub() *decisionStoreStub {
	return &decisionStoreStub{decisions: make(map[string]*models.GraduationDecision)}
}

func (s *decisionStoreStub) Create(ctx context.Context, decision *models.GraduationDecision) error {
	decision.ID = "decision-new"
	s.decisions[decision.ID] = decision
	return nil
}

func (s *decisionStoreStub) GetByID(ctx context.Context, id string) (*models.GraduationDecision, error) {
	if decision, ok := s.decisions[id]; ok {
		copy := *decision
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *decisionStoreStub) GetByNumber(ctx context.Context, decisionNumber string) (*models.GraduationDecision, error) {
	for _, decision := range s.decisions {
		if decision.DecisionNumber == decisionNumber {
			copy := *decision
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *decisionStoreStub) List(ctx context.Context, filter models.GraduationDecisionFilter) ([]models.GraduationDecision, int, error) {
	result := make([]models.GraduationDecision, 0, len(s.decisions))
	for _, decision := range s.decisions {
		result = append(result, *decision)
	}
	return result, len(result), nil
}

func (s *decisionStoreStub) Publish(ctx context.Context, id string, publishedAt time.Time) (bool, error) {
	s.publishCalls++
	decision, ok := s.decisions[id]
	if !ok || decision.IsPublished {
		return false, nil
	}
	decision.IsPublished = true
	decision.PublishedAt = &publishedAt
	return true, nil
}

func TestDecisionServiceRecord(t *testing.T) {
	store := newDecisionStoreStub()
	svc := NewDecisionService(store, nil, nil)

	decision, err := svc.Record(context.Background(), dto.RecordDecisionRequest{
		DecisionNumber: "QD-2025-01",
		DecisionDate:   "2025-06-01",
		Title:          "Graduation cohort 2025",
		SignerName:     "Tran Thi B",
		SignerTitle:    "Principal",
		TotalGraduates: 120,
	}, "registrar-1")
	require.NoError(t, err)
	assert.Equal(t, "QD-2025-01", decision.DecisionNumber)
	assert.Equal(t, "registrar-1", decision.CreatedBy)
	assert.False(t, decision.IsPublished)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), decision.DecisionDate)
}

func TestDecisionServiceRecordValidation(t *testing.T) {
	svc := NewDecisionService(newDecisionStoreStub(), nil, nil)

	_, err := svc.Record(context.Background(), dto.RecordDecisionRequest{DecisionNumber: "QD-2025-01"}, "registrar-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDecisionServicePublish(t *testing.T) {
	store := newDecisionStoreStub()
	store.decisions["decision-1"] = &models.GraduationDecision{ID: "decision-1", DecisionNumber: "QD-2025-01"}
	svc := NewDecisionService(store, nil, nil)

	decision, err := svc.Publish(context.Background(), "decision-1")
	require.NoError(t, err)
	assert.True(t, decision.IsPublished)
	require.NotNil(t, decision.PublishedAt)
	assert.Equal(t, 1, store.publishCalls)
}

func TestDecisionServicePublishIdempotent(t *testing.T) {
	store := newDecisionStoreStub()
	publishedAt := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	store.decisions["decision-1"] = &models.GraduationDecision{
		ID: "decision-1", DecisionNumber: "QD-2025-01",
		IsPublished: true, PublishedAt: &publishedAt,
	}
	svc := NewDecisionService(store, nil, nil)

	decision, err := svc.Publish(context.Background(), "decision-1")
	require.NoError(t, err)
	assert.True(t, decision.IsPublished)
	require.NotNil(t, decision.PublishedAt)
	assert.True(t, decision.PublishedAt.Equal(publishedAt))
	assert.Equal(t, 0, store.publishCalls)
}
