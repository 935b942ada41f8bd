package model

import (
	"time"

	"github.com/google/uuid"
)

type LedgerAction string

const (
	ActionAdd      LedgerAction = "Add"
	ActionWithdraw LedgerAction = "Withdraw"
	ActionRefill   LedgerAction = "Refill"
	ActionUpdate   LedgerAction = "Update"
	ActionDelete   LedgerAction = "Delete"
)

// ValidAction reports whether a is one of the five ledger actions.
func ValidAction(a LedgerAction) bool {
	switch a {
	case ActionAdd, ActionWithdraw, ActionRefill, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// LedgerEntry is one immutable audit record of a stock-affecting action.
// Entries are append-only: nothing updates them, and they outlive the item
// they reference. The integer primary key doubles as the tie-breaker when
// two entries share a timestamp.
type LedgerEntry struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	ItemID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"item_id"`
	ItemName  string       `gorm:"type:varchar(255);not null" json:"item_name"` // Snapshot, survives item deletion
	Action    LedgerAction `gorm:"type:varchar(10);not null" json:"action"`
	Quantity  int          `gorm:"not null" json:"quantity"`
	Staff     string       `gorm:"type:varchar(255);not null" json:"staff"`
	Purpose   string       `gorm:"type:text" json:"purpose,omitempty"`
	CreatedAt time.Time    `gorm:"index" json:"created_at"`
}
