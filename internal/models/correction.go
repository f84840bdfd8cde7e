package models

import "time"

// CertificateCorrectionLog is the append-only audit record of an amendment
// to an issued certificate. Rows capture the full before/after field set and
// are never updated or deleted once written.
type CertificateCorrectionLog struct {
	ID                       string    `db:"id" json:"id"`
	CertificateID            string    `db:"certificate_id" json:"certificate_id"`
	CorrectionDecisionNumber string    `db:"correction_decision_number" json:"correction_decision_number"`
	CorrectionDate           time.Time `db:"correction_date" json:"correction_date"`
	OldContent               []byte    `db:"old_content" json:"old_content"`
	NewContent               []byte    `db:"new_content" json:"new_content"`
	Reason                   string    `db:"reason" json:"reason"`
	PerformedBy              string    `db:"performed_by" json:"performed_by"`
	ApprovedBy               *string   `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
}

// CorrectionContent is the structured field set recorded on both sides of a
// correction. It mirrors the certificate's mutable snapshot surface.
type CorrectionContent struct {
	FullName    string  `json:"full_name"`
	DOB         string  `json:"dob"`
	POB         string  `json:"pob"`
	Gender      string  `json:"gender"`
	Ethnicity   *string `json:"ethnicity,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	IDNumber    *string `json:"id_number,omitempty"`
}
