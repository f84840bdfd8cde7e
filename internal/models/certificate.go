package models

import "time"

// CertificateStatus enumerates lifecycle states of an issued certificate.
type CertificateStatus string

const (
	CertificateStatusActive    CertificateStatus = "active"
	CertificateStatusRevoked   CertificateStatus = "revoked"
	CertificateStatusCorrected CertificateStatus = "corrected"
	CertificateStatusReplaced  CertificateStatus = "replaced"
)

// Valid reports whether the value belongs to the closed certificate_status set.
func (s CertificateStatus) Valid() bool {
	switch s {
	case CertificateStatusActive, CertificateStatusRevoked, CertificateStatusCorrected, CertificateStatusReplaced:
		return true
	}
	return false
}

// CanTransitionTo reports whether the edge s -> next exists in the
// certificate lifecycle graph. replaced is terminal; revoked may only move
// to replaced; corrected accumulates further corrections.
func (s CertificateStatus) CanTransitionTo(next CertificateStatus) bool {
	switch s {
	case CertificateStatusActive:
		return next == CertificateStatusRevoked || next == CertificateStatusCorrected || next == CertificateStatusReplaced
	case CertificateStatusCorrected:
		return next == CertificateStatusRevoked || next == CertificateStatusCorrected || next == CertificateStatusReplaced
	case CertificateStatusRevoked:
		return next == CertificateStatusReplaced
	}
	return false
}

// Correctable reports whether a correction may still be recorded.
func (s CertificateStatus) Correctable() bool {
	return s == CertificateStatusActive || s == CertificateStatusCorrected
}

// Certificate binds an issued document to its registry book, type, consumed
// blank, and the student data snapshot frozen at issuance time. Snapshot
// columns are copied verbatim from the issuance request and are never
// re-derived from the student master record.
type Certificate struct {
	ID                string `db:"id" json:"id"`
	RegistryBookID    string `db:"registry_book_id" json:"registry_book_id"`
	CertificateTypeID string `db:"certificate_type_id" json:"certificate_type_id"`
	BlankID           *string `db:"blank_id" json:"blank_id,omitempty"`
	StudentID         string `db:"student_id" json:"student_id"`

	FullNameSnapshot    string    `db:"full_name_snapshot" json:"full_name_snapshot"`
	DOBSnapshot         time.Time `db:"dob_snapshot" json:"dob_snapshot"`
	POBSnapshot         string    `db:"pob_snapshot" json:"pob_snapshot"`
	GenderSnapshot      string    `db:"gender_snapshot" json:"gender_snapshot"`
	EthnicitySnapshot   *string   `db:"ethnicity_snapshot" json:"ethnicity_snapshot,omitempty"`
	NationalitySnapshot *string   `db:"nationality_snapshot" json:"nationality_snapshot,omitempty"`
	IDNumberSnapshot    *string   `db:"id_number_snapshot" json:"id_number_snapshot,omitempty"`

	Classification string    `db:"classification" json:"classification"`
	DecisionNumber string    `db:"decision_number" json:"decision_number"`
	DecisionDate   time.Time `db:"decision_date" json:"decision_date"`
	SerialNumber   string    `db:"serial_number" json:"serial_number"`
	RegistryNumber string    `db:"registry_number" json:"registry_number"`

	IssueDate   time.Time  `db:"issue_date" json:"issue_date"`
	ExpiryDate  *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	SignerName  *string    `db:"signer_name" json:"signer_name,omitempty"`
	SignerTitle *string    `db:"signer_title" json:"signer_title,omitempty"`

	Status                   CertificateStatus `db:"status" json:"status"`
	RevocationReason         *string           `db:"revocation_reason" json:"revocation_reason,omitempty"`
	RevocationDate           *time.Time        `db:"revocation_date" json:"revocation_date,omitempty"`
	RevocationDecisionNumber *string           `db:"revocation_decision_number" json:"revocation_decision_number,omitempty"`

	IssuedBy  string    `db:"issued_by" json:"issued_by"`
	Metadata  []byte    `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CertificateFilter constrains certificate listing queries.
type CertificateFilter struct {
	RegistryBookID    string
	CertificateTypeID string
	StudentID         string
	DecisionNumber    string
	Status            CertificateStatus
	Page              int
	PageSize          int
}
