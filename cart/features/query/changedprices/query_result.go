package changedprices

import (
	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

// PriceChange holds the old and the latest price of one product.
type PriceChange struct {
	OldPrice core.PriceFloat
	NewPrice core.PriceFloat
}

// ChangedPrices represents the query result containing all products whose
// price has changed, keyed by product id.
type ChangedPrices struct {
	Prices map[core.ProductIDString]PriceChange
	Count  int
}
