package cartitems

import (
	"github.com/google/uuid"
)

const (
	queryType = "CartItems"
)

// Query represents the intent to query the active items of a shopping cart.
type Query struct {
	CartID uuid.UUID
}

// BuildQuery creates a new Query with the provided cart ID.
func BuildQuery(cartID uuid.UUID) Query {
	return Query{
		CartID: cartID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
