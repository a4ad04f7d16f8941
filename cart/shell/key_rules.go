package shell

import (
	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// Boundary key names of the cart domain.
const (
	CartKey    = "cart"
	ProductKey = "product"
)

// CartKeyRules returns the boundary key rules of the cart domain.
// The store derives keys from event payloads at append time using this table;
// adding a consistency boundary is adding a row here, not a new code path.
//
// ItemAdded carries both the cart and the product key, so a single ItemAdded
// event satisfies two independent boundaries at once.
func CartKeyRules() eventstore.KeyRules {
	return eventstore.KeyRules{
		core.CartCreatedEventType: {
			{Name: CartKey, Path: "cartId"},
		},
		core.ItemAddedEventType: {
			{Name: CartKey, Path: "cartId"},
			{Name: ProductKey, Path: "productId"},
		},
		core.ItemRemovedEventType: {
			{Name: CartKey, Path: "cartId"},
		},
		core.ItemArchivedEventType: {
			{Name: CartKey, Path: "cartId"},
		},
		core.ItemQuantityChangedEventType: {
			{Name: CartKey, Path: "cartId"},
		},
		core.CartSubmittedEventType: {
			{Name: CartKey, Path: "cartId"},
		},
		core.CartClearedEventType: {
			{Name: CartKey, Path: "cartId"},
		},
		core.CartPublishedEventType: {
			{Name: CartKey, Path: "cartId"},
		},
		core.CartPublicationFailedEventType: {
			{Name: CartKey, Path: "cartId"},
		},
		core.InventoryChangedEventType: {
			{Name: ProductKey, Path: "productId"},
		},
		core.PriceChangedEventType: {
			{Name: ProductKey, Path: "productId"},
		},
	}
}
