package orders

import (
	"time"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

// Order represents one submitted cart as an order.
type Order struct {
	CartID          core.CartIDString
	OrderedProducts []core.OrderedProduct
	TotalPrice      core.PriceFloat
	SubmittedAt     time.Time
}

// Orders represents the query result: the full order history, oldest first.
type Orders struct {
	Orders []Order
	Count  int
}
