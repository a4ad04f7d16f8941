package core

import (
	"time"

	"github.com/google/uuid"
)

// ItemAddedEventType is the event type identifier.
const ItemAddedEventType = "ItemAdded"

// ItemAdded represents when an item is added to a shopping cart.
// It carries both the cart and the product identity, so it participates in two
// consistency boundaries at once.
type ItemAdded struct {
	CartID      CartIDString    `json:"cartId"`
	ItemID      ItemIDString    `json:"itemId"`
	ProductID   ProductIDString `json:"productId"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       PriceFloat      `json:"price"`
	OccurredAt  OccurredAtTS    `json:"occurredAt"`
}

// BuildItemAdded creates a new ItemAdded event.
func BuildItemAdded(
	cartID uuid.UUID,
	itemID uuid.UUID,
	productID uuid.UUID,
	description string,
	image string,
	price PriceFloat,
	occurredAt time.Time,
) ItemAdded {

	return ItemAdded{
		CartID:      cartID.String(),
		ItemID:      itemID.String(),
		ProductID:   productID.String(),
		Description: description,
		Image:       image,
		Price:       price,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemAdded) IsEventType() string {
	return ItemAddedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e ItemAdded) IsFailureEvent() bool {
	return false
}
