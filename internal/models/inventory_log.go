package models

import "time"

// InventoryAction enumerates supported blank stock movements.
type InventoryAction string

const (
	InventoryActionReceive  InventoryAction = "receive"
	InventoryActionAssign   InventoryAction = "assign"
	InventoryActionUse      InventoryAction = "use"
	InventoryActionDamage   InventoryAction = "damage"
	InventoryActionDestroy  InventoryAction = "destroy"
	InventoryActionTransfer InventoryAction = "transfer"
)

// BlankInventoryLog is the append-only event history of blank stock. The
// blank row's status column is current state; this log is what happened.
type BlankInventoryLog struct {
	ID               string          `db:"id" json:"id"`
	Action           InventoryAction `db:"action" json:"action"`
	SerialNumberFrom string          `db:"serial_number_from" json:"serial_number_from"`
	SerialNumberTo   string          `db:"serial_number_to" json:"serial_number_to"`
	Quantity         int             `db:"quantity" json:"quantity"`
	PerformedBy      string          `db:"performed_by" json:"performed_by"`
	Notes            *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// InventoryLogFilter constrains inventory log listing queries.
type InventoryLogFilter struct {
	Action      InventoryAction
	PerformedBy string
	Page        int
	PageSize    int
}
