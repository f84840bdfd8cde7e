package models

import "time"

// CertificateType governs which blanks and certificates may be issued under
// a given code. Deactivating a type blocks new issuance but leaves existing
// certificates untouched.
type CertificateType struct {
	ID             string    `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	Description    *string   `db:"description" json:"description,omitempty"`
	TemplatePath   *string   `db:"template_path" json:"template_path,omitempty"`
	ValidityMonths *int      `db:"validity_months" json:"validity_months,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	Metadata       []byte    `db:"metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// CertificateTypeFilter constrains listing queries.
type CertificateTypeFilter struct {
	IsActive *bool
	Search   string
	Page     int
	PageSize int
}
