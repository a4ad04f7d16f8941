package cartitems

import (
	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

// CartItem represents one active item line of a cart.
type CartItem struct {
	ItemID      core.ItemIDString
	ProductID   core.ProductIDString
	Description string
	Image       string
	Price       core.PriceFloat
	Quantity    int
}

// CartItems represents the query result containing the active items of a cart
// and the total price over all lines (price times quantity).
type CartItems struct {
	CartID     core.CartIDString
	Items      []CartItem
	TotalPrice core.PriceFloat
	Count      int
}
