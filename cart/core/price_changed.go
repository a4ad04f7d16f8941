package core

import (
	"time"

	"github.com/google/uuid"
)

// PriceChangedEventType is the event type identifier.
const PriceChangedEventType = "PriceChanged"

// PriceChanged represents when the price of a product changes.
type PriceChanged struct {
	ProductID  ProductIDString `json:"productId"`
	OldPrice   PriceFloat      `json:"oldPrice"`
	NewPrice   PriceFloat      `json:"newPrice"`
	OccurredAt OccurredAtTS    `json:"occurredAt"`
}

// BuildPriceChanged creates a new PriceChanged event.
func BuildPriceChanged(productID uuid.UUID, oldPrice PriceFloat, newPrice PriceFloat, occurredAt time.Time) PriceChanged {
	return PriceChanged{
		ProductID:  productID.String(),
		OldPrice:   oldPrice,
		NewPrice:   newPrice,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e PriceChanged) IsEventType() string {
	return PriceChangedEventType
}

// HasOccurredAt returns when this event occurred.
func (e PriceChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e PriceChanged) IsFailureEvent() bool {
	return false
}
