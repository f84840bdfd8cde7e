package dto

import "encoding/json"

// CreateCertificateTypeRequest payload for registering a certificate type.
type CreateCertificateTypeRequest struct {
	Code           string          `json:"code" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description"`
	TemplatePath   string          `json:"template_path"`
	ValidityMonths *int            `json:"validity_months" validate:"omitempty,gt=0"`
	Metadata       json.RawMessage `json:"metadata"`
}

// UpdateCertificateTypeRequest payload for mutable type fields. Code is
// immutable once created.
type UpdateCertificateTypeRequest struct {
	Name           *string         `json:"name"`
	Description    *string         `json:"description"`
	TemplatePath   *string         `json:"template_path"`
	ValidityMonths *int            `json:"validity_months" validate:"omitempty,gt=0"`
	Metadata       json.RawMessage `json:"metadata"`
}
