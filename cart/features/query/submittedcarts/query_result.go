package submittedcarts

import (
	"time"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

// SubmittedCart represents one cart waiting to be published.
type SubmittedCart struct {
	CartID          core.CartIDString
	OrderedProducts []core.OrderedProduct
	TotalPrice      core.PriceFloat
	SubmittedAt     time.Time
}

// SubmittedCarts represents the query result: all submitted-but-unpublished
// carts, oldest submission first.
type SubmittedCarts struct {
	Carts []SubmittedCart
	Count int
}
