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
	"github.com/noah-isme/cert-registry-api/internal/repository"
	appErrors "github.com/noah-isme/cert-registry-api/pkg/errors"
)

type certificateStoreStub struct {
	certs        map[string]*models.Certificate
	issuedParams *repository.IssuanceParams
	revoked      *repository.RevokeCertificateParams
	replacedID   string
}

func newCertificateStoreStub() *certificateStoreStub {
	return &certificateStoreStub{certs: make(map[string]*models.Certificate)}
}

func (s *certificateStoreStub) Issue(ctx context.Context, params repository.IssuanceParams) (*models.Certificate, error) {
	s.issuedParams = &params
	cert := *params.Certificate
	cert.ID = "cert-new"
	cert.Status = models.CertificateStatusActive
	return &cert, nil
}

func (s *certificateStoreStub) GetByID(ctx context.Context, id string) (*models.Certificate, error) {
	if cert, ok := s.certs[id]; ok {
		copy := *cert
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *certificateStoreStub) GetBySerial(ctx context.Context, serial string) (*models.Certificate, error) {
	for _, cert := range s.certs {
		if cert.SerialNumber == serial {
			copy := *cert
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *certificateStoreStub) GetByRegistryNumber(ctx context.Context, registryNumber string) (*models.Certificate, error) {
	for _, cert := range s.certs {
		if cert.RegistryNumber == registryNumber {
			copy := *cert
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *certificateStoreStub) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, int, error) {
	result := make([]models.Certificate, 0, len(s.certs))
	for _, cert := range s.certs {
		result = append(result, *cert)
	}
	return result, len(result), nil
}

func (s *certificateStoreStub) Revoke(ctx context.Context, params repository.RevokeCertificateParams) error {
	cert, ok := s.certs[params.ID]
	if !ok || !cert.Status.CanTransitionTo(models.CertificateStatusRevoked) {
		return sql.ErrNoRows
	}
	s.revoked = &params
	cert.Status = models.CertificateStatusRevoked
	cert.RevocationReason = &params.Reason
	cert.RevocationDecisionNumber = &params.DecisionNumber
	return nil
}

func (s *certificateStoreStub) Replace(ctx context.Context, oldID string, params repository.IssuanceParams) (*models.Certificate, error) {
	old, ok := s.certs[oldID]
	if !ok || !old.Status.CanTransitionTo(models.CertificateStatusReplaced) {
		return nil, sql.ErrNoRows
	}
	s.replacedID = oldID
	old.Status = models.CertificateStatusReplaced
	return s.Issue(ctx, params)
}

func issueRequestFixture() dto.IssueCertificateRequest {
	return dto.IssueCertificateRequest{
		RegistryBookID:    "book-1",
		CertificateTypeID: "type-1",
		BlankSerial:       "BLK-0001",
		Student: dto.StudentSnapshot{
			StudentID: "student-1",
			FullName:  "Nguyen Van A",
			DOB:       "2007-05-12",
			POB:       "Hanoi",
			Gender:    "male",
		},
		Classification: "good",
		DecisionNumber: "QD-2025-01",
		DecisionDate:   "2025-06-01",
		SerialNumber:   "CERT-0001",
		RegistryNumber: "0001/2025",
		IssueDate:      "2025-06-15",
	}
}

func newCertificateServiceForTest(store *certificateStoreStub, types *typeStoreStub, opts IssuanceOptions) *CertificateService {
	return NewCertificateService(store, types, nil, nil, opts, nil, nil)
}

func TestCertificateServiceIssue(t *testing.T) {
	store := newCertificateStoreStub()
	types := newTypeStoreStub()
	types.types["type-1"] = &models.CertificateType{ID: "type-1", IsActive: true}
	svc := newCertificateServiceForTest(store, types, IssuanceOptions{})

	cert, err := svc.Issue(context.Background(), issueRequestFixture(), "registrar-1")
	require.NoError(t, err)
	assert.Equal(t, models.CertificateStatusActive, cert.Status)
	assert.Equal(t, "Nguyen Van A", cert.FullNameSnapshot)
	assert.Equal(t, "registrar-1", cert.IssuedBy)

	require.NotNil(t, store.issuedParams)
	assert.Equal(t, "BLK-0001", store.issuedParams.BlankSerial)
}

func TestCertificateServiceIssueRequiresBlankSerial(t *testing.T) {
	svc := newCertificateServiceForTest(newCertificateStoreStub(), newTypeStoreStub(), IssuanceOptions{AutoAllocateBlanks: false})

	req := issueRequestFixture()
	req.BlankSerial = ""
	_, err := svc.Issue(context.Background(), req, "registrar-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCertificateServiceIssueAutoAllocation(t *testing.T) {
	store := newCertificateStoreStub()
	types := newTypeStoreStub()
	types.types["type-1"] = &models.CertificateType{ID: "type-1", IsActive: true}
	svc := newCertificateServiceForTest(store, types, IssuanceOptions{AutoAllocateBlanks: true})

	req := issueRequestFixture()
	req.BlankSerial = ""
	_, err := svc.Issue(context.Background(), req, "registrar-1")
	require.NoError(t, err)
	assert.Empty(t, store.issuedParams.BlankSerial)
}

func TestCertificateServiceIssueDerivesExpiry(t *testing.T) {
	store := newCertificateStoreStub()
	types := newTypeStoreStub()
	months := 24
	types.types["type-1"] = &models.CertificateType{ID: "type-1", IsActive: true, ValidityMonths: &months}
	svc := newCertificateServiceForTest(store, types, IssuanceOptions{})

	cert, err := svc.Issue(context.Background(), issueRequestFixture(), "registrar-1")
	require.NoError(t, err)
	require.NotNil(t, cert.ExpiryDate)
	expected := time.Date(2027, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, cert.ExpiryDate.Equal(expected))
}

func TestCertificateServiceIssueExplicitExpiryWins(t *testing.T) {
	store := newCertificateStoreStub()
	svc := newCertificateServiceForTest(store, newTypeStoreStub(), IssuanceOptions{})

	req := issueRequestFixture()
	req.ExpiryDate = "2030-01-01"
	cert, err := svc.Issue(context.Background(), req, "registrar-1")
	require.NoError(t, err)
	require.NotNil(t, cert.ExpiryDate)
	assert.Equal(t, 2030, cert.ExpiryDate.Year())
}

func TestCertificateServiceRevoke(t *testing.T) {
	store := newCertificateStoreStub()
	store.certs["cert-1"] = &models.Certificate{ID: "cert-1", SerialNumber: "CERT-0001", Status: models.CertificateStatusActive}
	svc := newCertificateServiceForTest(store, newTypeStoreStub(), IssuanceOptions{})

	cert, err := svc.Revoke(context.Background(), "cert-1", dto.RevokeCertificateRequest{
		Reason:         "issued against wrong decision",
		DecisionNumber: "QD-2025-99",
		Date:           "2025-08-01",
	}, "registrar-1")
	require.NoError(t, err)
	assert.Equal(t, models.CertificateStatusRevoked, cert.Status)
	require.NotNil(t, store.revoked)
	assert.Equal(t, "QD-2025-99", store.revoked.DecisionNumber)
}

func TestCertificateServiceRevokeReplacedCertificate(t *testing.T) {
	store := newCertificateStoreStub()
	store.certs["cert-1"] = &models.Certificate{ID: "cert-1", Status: models.CertificateStatusReplaced}
	svc := newCertificateServiceForTest(store, newTypeStoreStub(), IssuanceOptions{})

	_, err := svc.Revoke(context.Background(), "cert-1", dto.RevokeCertificateRequest{
		Reason:         "mistake",
		DecisionNumber: "QD-2025-99",
		Date:           "2025-08-01",
	}, "registrar-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestCertificateServiceReplaceRevokedCertificate(t *testing.T) {
	store := newCertificateStoreStub()
	store.certs["cert-1"] = &models.Certificate{ID: "cert-1", SerialNumber: "CERT-0001", Status: models.CertificateStatusRevoked}
	svc := newCertificateServiceForTest(store, newTypeStoreStub(), IssuanceOptions{})

	req := issueRequestFixture()
	req.SerialNumber = "CERT-0002"
	req.RegistryNumber = "0002/2025"
	replacement, err := svc.Replace(context.Background(), "cert-1", dto.ReplaceCertificateRequest{Issue: req}, "registrar-1")
	require.NoError(t, err)
	assert.Equal(t, "CERT-0002", replacement.SerialNumber)
	assert.Equal(t, "cert-1", store.replacedID)
	assert.Equal(t, models.CertificateStatusReplaced, store.certs["cert-1"].Status)
}

func TestCertificateServiceListRejectsUnknownStatus(t *testing.T) {
	svc := newCertificateServiceForTest(newCertificateStoreStub(), newTypeStoreStub(), IssuanceOptions{})

	_, _, err := svc.List(context.Background(), dto.CertificateQuery{Status: "pending"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
