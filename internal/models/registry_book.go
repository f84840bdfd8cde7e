package models

import "time"

// RegistryBook is the legal ledger a run of issued certificates is recorded
// against. Books are created open and may only ever transition to closed;
// they are never deleted.
type RegistryBook struct {
	ID              string     `db:"id" json:"id"`
	BookNumber      string     `db:"book_number" json:"book_number"`
	Year            int        `db:"year" json:"year"`
	StorageLocation *string    `db:"storage_location" json:"storage_location,omitempty"`
	IsClosed        bool       `db:"is_closed" json:"is_closed"`
	OpenedAt        time.Time  `db:"opened_at" json:"opened_at"`
	ClosedAt        *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// RegistryBookFilter encapsulates allowed search parameters for listing books.
type RegistryBookFilter struct {
	Year     int
	IsClosed *bool
	Page     int
	PageSize int
}
