package cartswithproducts

import (
	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

// CartProduct is one distinct (cart, product) pair with at least one active
// cart line.
type CartProduct struct {
	CartID    core.CartIDString
	ProductID core.ProductIDString
}

// CartsWithProducts represents the query result: all distinct (cart, product)
// pairs, sorted by cart id then product id.
type CartsWithProducts struct {
	Pairs []CartProduct
	Count int
}
