package core

import (
	"time"

	"github.com/google/uuid"
)

// ItemQuantityChangedEventType is the event type identifier.
const ItemQuantityChangedEventType = "ItemQuantityChanged"

// ItemQuantityChanged represents when the quantity of a cart item changes.
type ItemQuantityChanged struct {
	CartID     CartIDString `json:"cartId"`
	ItemID     ItemIDString `json:"itemId"`
	Quantity   int          `json:"quantity"`
	OccurredAt OccurredAtTS `json:"occurredAt"`
}

// BuildItemQuantityChanged creates a new ItemQuantityChanged event.
func BuildItemQuantityChanged(cartID uuid.UUID, itemID uuid.UUID, quantity int, occurredAt time.Time) ItemQuantityChanged {
	return ItemQuantityChanged{
		CartID:     cartID.String(),
		ItemID:     itemID.String(),
		Quantity:   quantity,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemQuantityChanged) IsEventType() string {
	return ItemQuantityChangedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemQuantityChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e ItemQuantityChanged) IsFailureEvent() bool {
	return false
}
