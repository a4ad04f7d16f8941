package core

import (
	"time"

	"github.com/google/uuid"
)

// CartSubmittedEventType is the event type identifier.
const CartSubmittedEventType = "CartSubmitted"

// CartSubmitted represents when a shopping cart is submitted as an order.
type CartSubmitted struct {
	CartID          CartIDString     `json:"cartId"`
	OrderedProducts []OrderedProduct `json:"orderedProducts"`
	TotalPrice      PriceFloat       `json:"totalPrice"`
	OccurredAt      OccurredAtTS     `json:"occurredAt"`
}

// BuildCartSubmitted creates a new CartSubmitted event.
func BuildCartSubmitted(
	cartID uuid.UUID,
	orderedProducts []OrderedProduct,
	totalPrice PriceFloat,
	occurredAt time.Time,
) CartSubmitted {

	return CartSubmitted{
		CartID:          cartID.String(),
		OrderedProducts: orderedProducts,
		TotalPrice:      totalPrice,
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CartSubmitted) IsEventType() string {
	return CartSubmittedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CartSubmitted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e CartSubmitted) IsFailureEvent() bool {
	return false
}
