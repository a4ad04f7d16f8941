package core

import (
	"time"

	"github.com/google/uuid"
)

// CartCreatedEventType is the event type identifier.
const CartCreatedEventType = "CartCreated"

// CartCreated represents when a shopping cart comes into existence.
type CartCreated struct {
	CartID     CartIDString `json:"cartId"`
	OccurredAt OccurredAtTS `json:"occurredAt"`
}

// BuildCartCreated creates a new CartCreated event.
func BuildCartCreated(cartID uuid.UUID, occurredAt time.Time) CartCreated {
	return CartCreated{
		CartID:     cartID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CartCreated) IsEventType() string {
	return CartCreatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CartCreated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e CartCreated) IsFailureEvent() bool {
	return false
}
