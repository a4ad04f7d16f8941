package core

import (
	"time"

	"github.com/google/uuid"
)

// CartPublishedEventType is the event type identifier.
const CartPublishedEventType = "CartPublished"

// CartPublished represents when a submitted cart has been handed over to the
// downstream ordering system.
type CartPublished struct {
	CartID     CartIDString `json:"cartId"`
	OccurredAt OccurredAtTS `json:"occurredAt"`
}

// BuildCartPublished creates a new CartPublished event.
func BuildCartPublished(cartID uuid.UUID, occurredAt time.Time) CartPublished {
	return CartPublished{
		CartID:     cartID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CartPublished) IsEventType() string {
	return CartPublishedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CartPublished) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e CartPublished) IsFailureEvent() bool {
	return false
}
