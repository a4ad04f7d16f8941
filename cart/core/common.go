package core

import (
	"time"
)

// Instead of implementing full value objects, we use alias types and helper methods here ...

// CartIDString represents a cart identifier.
type CartIDString = string

// ItemIDString represents a cart item identifier.
type ItemIDString = string

// ProductIDString represents a product identifier.
type ProductIDString = string

// PriceFloat represents a price in the shop's currency.
type PriceFloat = float64

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// OrderedProduct is one product line of a submitted cart.
type OrderedProduct struct {
	ProductID ProductIDString `json:"productId"`
	Price     PriceFloat      `json:"price"`
	Quantity  int             `json:"quantity"`
}
