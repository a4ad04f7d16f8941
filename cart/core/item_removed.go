package core

import (
	"time"

	"github.com/google/uuid"
)

// ItemRemovedEventType is the event type identifier.
const ItemRemovedEventType = "ItemRemoved"

// ItemRemoved represents when an item is removed from a shopping cart.
type ItemRemoved struct {
	CartID     CartIDString `json:"cartId"`
	ItemID     ItemIDString `json:"itemId"`
	OccurredAt OccurredAtTS `json:"occurredAt"`
}

// BuildItemRemoved creates a new ItemRemoved event.
func BuildItemRemoved(cartID uuid.UUID, itemID uuid.UUID, occurredAt time.Time) ItemRemoved {
	return ItemRemoved{
		CartID:     cartID.String(),
		ItemID:     itemID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemRemoved) IsEventType() string {
	return ItemRemovedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemRemoved) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e ItemRemoved) IsFailureEvent() bool {
	return false
}
