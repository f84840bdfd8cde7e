package models

import "time"

// BlankStatus enumerates lifecycle states of a physical certificate blank.
type BlankStatus string

const (
	BlankStatusInStock   BlankStatus = "in_stock"
	BlankStatusAssigned  BlankStatus = "assigned"
	BlankStatusUsed      BlankStatus = "used"
	BlankStatusDamaged   BlankStatus = "damaged"
	BlankStatusDestroyed BlankStatus = "destroyed"
)

// Valid reports whether the value belongs to the closed blank_status set.
func (s BlankStatus) Valid() bool {
	switch s {
	case BlankStatusInStock, BlankStatusAssigned, BlankStatusUsed, BlankStatusDamaged, BlankStatusDestroyed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the edge s -> next exists in the blank
// lifecycle graph. used and destroyed are terminal.
func (s BlankStatus) CanTransitionTo(next BlankStatus) bool {
	switch s {
	case BlankStatusInStock:
		return next == BlankStatusAssigned || next == BlankStatusDamaged || next == BlankStatusDestroyed
	case BlankStatusAssigned:
		return next == BlankStatusUsed || next == BlankStatusDamaged || next == BlankStatusDestroyed
	case BlankStatusDamaged:
		return next == BlankStatusDestroyed
	}
	return false
}

// CertificateBlank is a pre-printed, uniquely serialized physical form. A
// blank is consumed by at most one certificate.
type CertificateBlank struct {
	ID                string      `db:"id" json:"id"`
	SerialNumber      string      `db:"serial_number" json:"serial_number"`
	CertificateTypeID string      `db:"certificate_type_id" json:"certificate_type_id"`
	Status            BlankStatus `db:"status" json:"status"`
	ReceivedAt        time.Time   `db:"received_at" json:"received_at"`
	ReceivedFrom      *string     `db:"received_from" json:"received_from,omitempty"`
	AssignedTo        *string     `db:"assigned_to" json:"assigned_to,omitempty"`
	AssignedAt        *time.Time  `db:"assigned_at" json:"assigned_at,omitempty"`
	UsedAt            *time.Time  `db:"used_at" json:"used_at,omitempty"`
	DestroyedAt       *time.Time  `db:"destroyed_at" json:"destroyed_at,omitempty"`
	DestroyedReason   *string     `db:"destroyed_reason" json:"destroyed_reason,omitempty"`
	DestroyedBy       *string     `db:"destroyed_by" json:"destroyed_by,omitempty"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at" json:"updated_at"`
}

// BlankFilter constrains blank listing queries.
type BlankFilter struct {
	CertificateTypeID string
	Status            BlankStatus
	Page              int
	PageSize          int
}
