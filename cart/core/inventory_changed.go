package core

import (
	"time"
)

// InventoryChangedEventType is the event type identifier.
const InventoryChangedEventType = "InventoryChanged"

// InventoryChanged represents when the available inventory of a product
// changes. It carries the absolute new count, so the latest event per product
// wins when projecting.
type InventoryChanged struct {
	ProductID  ProductIDString `json:"productId"`
	Inventory  int             `json:"inventory"`
	OccurredAt OccurredAtTS    `json:"occurredAt"`
}

// BuildInventoryChanged creates a new InventoryChanged event. The product ID
// may come from a command or from projected state, so it is a plain string.
func BuildInventoryChanged(productID ProductIDString, inventory int, occurredAt time.Time) InventoryChanged {
	return InventoryChanged{
		ProductID:  productID,
		Inventory:  inventory,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e InventoryChanged) IsEventType() string {
	return InventoryChangedEventType
}

// HasOccurredAt returns when this event occurred.
func (e InventoryChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e InventoryChanged) IsFailureEvent() bool {
	return false
}
