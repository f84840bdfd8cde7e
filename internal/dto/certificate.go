package dto

import (
	"encoding/json"

	"github.com/noah-isme/cert-registry-api/internal/models"
)

// StudentSnapshot carries the student data frozen onto the certificate at
// issuance time.
type StudentSnapshot struct {
	StudentID   string `json:"student_id" validate:"required"`
	FullName    string `json:"full_name" validate:"required"`
	DOB         string `json:"dob" validate:"required,datetime=2006-01-02"`
	POB         string `json:"pob" validate:"required"`
	Gender      string `json:"gender" validate:"required"`
	Ethnicity   string `json:"ethnicity"`
	Nationality string `json:"nationality"`
	IDNumber    string `json:"id_number"`
}

// IssueCertificateRequest payload for issuing a certificate. BlankSerial is
// optional; when empty the engine selects the oldest in-stock blank of the
// requested type.
type IssueCertificateRequest struct {
	RegistryBookID    string          `json:"registry_book_id" validate:"required"`
	CertificateTypeID string          `json:"certificate_type_id" validate:"required"`
	BlankSerial       string          `json:"blank_serial"`
	Student           StudentSnapshot `json:"student" validate:"required"`
	Classification    string          `json:"classification" validate:"required"`
	DecisionNumber    string          `json:"decision_number" validate:"required"`
	DecisionDate      string          `json:"decision_date" validate:"required,datetime=2006-01-02"`
	SerialNumber      string          `json:"serial_number" validate:"required"`
	RegistryNumber    string          `json:"registry_number" validate:"required"`
	IssueDate         string          `json:"issue_date" validate:"required,datetime=2006-01-02"`
	ExpiryDate        string          `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	SignerName        string          `json:"signer_name"`
	SignerTitle       string          `json:"signer_title"`
	Metadata          json.RawMessage `json:"metadata"`
}

// RevokeCertificateRequest payload for revoking an active certificate.
type RevokeCertificateRequest struct {
	Reason         string `json:"reason" validate:"required"`
	DecisionNumber string `json:"decision_number" validate:"required"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ReplaceCertificateRequest payload for replacing a certificate with a
// freshly issued one.
type ReplaceCertificateRequest struct {
	Issue IssueCertificateRequest `json:"issue" validate:"required"`
}

// CorrectCertificateRequest payload for recording a correction.
type CorrectCertificateRequest struct {
	CorrectionDecisionNumber string                   `json:"correction_decision_number" validate:"required"`
	CorrectionDate           string                   `json:"correction_date" validate:"required,datetime=2006-01-02"`
	NewContent               models.CorrectionContent `json:"new_content" validate:"required"`
	Reason                   string                   `json:"reason" validate:"required"`
	ApprovedBy               string                   `json:"approved_by"`
}

// CertificateQuery mirrors supported listing filters.
type CertificateQuery struct {
	RegistryBookID    string
	CertificateTypeID string
	StudentID         string
	DecisionNumber    string
	Status            models.CertificateStatus
	Page              int
	PageSize          int
}
