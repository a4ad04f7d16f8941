package inventories

import (
	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

// Inventories represents the query result containing the current stock per
// product.
type Inventories struct {
	Stock map[core.ProductIDString]int
	Count int
}
