package cartitems

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// ProjectCartItems implements the query logic to determine the active items
// of a cart. This is a pure function with no side effects - it takes the
// current domain events and a query and returns the projected state.
//
// Query Logic:
//
//	GIVEN: A cart with CartID
//	WHEN: CartItems query is executed
//	THEN: CartItems struct is returned with the active item lines and total
//	INCLUDES: item lines added and not removed, archived, or cleared away
//	EXCLUDES: removed and archived lines; everything before the last CartCleared
func ProjectCartItems(history core.DomainEvents, query Query) CartItems {
	state := core.FoldCart(history)

	items := make([]CartItem, 0, len(state.Items))

	var totalPrice core.PriceFloat

	for itemID, line := range state.Items {
		items = append(items, CartItem{
			ItemID:      itemID,
			ProductID:   line.ProductID,
			Description: line.Description,
			Image:       line.Image,
			Price:       line.Price,
			Quantity:    line.Quantity,
		})
		totalPrice += line.Price * core.PriceFloat(line.Quantity)
	}

	slices.SortFunc(items, func(a, b CartItem) int {
		return strings.Compare(a.ItemID, b.ItemID)
	})

	return CartItems{
		CartID:     query.CartID.String(),
		Items:      items,
		TotalPrice: totalPrice,
		Count:      len(items),
	}
}

// BuildEventFilter creates the filter for querying the events that affect the
// item lines of the specified cart.
func BuildEventFilter(cartID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CartCreatedEventType,
			core.ItemAddedEventType,
			core.ItemRemovedEventType,
			core.ItemArchivedEventType,
			core.ItemQuantityChangedEventType,
			core.CartClearedEventType,
		).
		AndAnyKeyOf(
			eventstore.K(shell.CartKey, cartID.String()),
		).
		Finalize()
}
