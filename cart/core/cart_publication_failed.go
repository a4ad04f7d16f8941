package core

import (
	"time"

	"github.com/google/uuid"
)

// CartPublicationFailedEventType is the event type identifier.
const CartPublicationFailedEventType = "CartPublicationFailed"

// CartPublicationFailed represents when publishing a cart to the downstream
// ordering system did not succeed. It is a terminal event for the cart.
type CartPublicationFailed struct {
	CartID     CartIDString `json:"cartId"`
	Reason     string       `json:"reason"`
	OccurredAt OccurredAtTS `json:"occurredAt"`
}

// BuildCartPublicationFailed creates a new CartPublicationFailed event.
func BuildCartPublicationFailed(cartID uuid.UUID, reason string, occurredAt time.Time) CartPublicationFailed {
	return CartPublicationFailed{
		CartID:     cartID.String(),
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CartPublicationFailed) IsEventType() string {
	return CartPublicationFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CartPublicationFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns true since this event represents a failure condition.
func (e CartPublicationFailed) IsFailureEvent() bool {
	return true
}
