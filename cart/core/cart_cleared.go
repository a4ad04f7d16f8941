package core

import (
	"time"

	"github.com/google/uuid"
)

// CartClearedEventType is the event type identifier.
const CartClearedEventType = "CartCleared"

// CartCleared represents when all items are removed from a shopping cart at once.
type CartCleared struct {
	CartID     CartIDString `json:"cartId"`
	OccurredAt OccurredAtTS `json:"occurredAt"`
}

// BuildCartCleared creates a new CartCleared event.
func BuildCartCleared(cartID uuid.UUID, occurredAt time.Time) CartCleared {
	return CartCleared{
		CartID:     cartID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CartCleared) IsEventType() string {
	return CartClearedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CartCleared) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e CartCleared) IsFailureEvent() bool {
	return false
}
