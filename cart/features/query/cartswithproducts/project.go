package cartswithproducts

import (
	"slices"
	"strings"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

const (
	queryType = "CartsWithProducts"
)

type indexEntry struct {
	cartID    core.CartIDString
	productID core.ProductIDString
}

// ProjectCartsWithProducts implements the query logic for the distinct
// (cart, product) pairs currently active across all carts. Pure function.
//
// The projection keeps an item-id index so that ItemRemoved and ItemArchived,
// which carry no product id, can retract the right pair.
func ProjectCartsWithProducts(history core.DomainEvents) CartsWithProducts {
	index := map[core.ItemIDString]indexEntry{}

	for _, event := range history {
		switch e := event.(type) {
		case core.ItemAdded:
			index[e.ItemID] = indexEntry{cartID: e.CartID, productID: e.ProductID}

		case core.ItemRemoved:
			delete(index, e.ItemID)

		case core.ItemArchived:
			delete(index, e.ItemID)

		case core.CartCleared:
			for itemID, entry := range index {
				if entry.cartID == e.CartID {
					delete(index, itemID)
				}
			}
		}
	}

	seen := map[indexEntry]struct{}{}

	pairs := make([]CartProduct, 0, len(index))
	for _, entry := range index {
		if _, ok := seen[entry]; ok {
			continue
		}

		seen[entry] = struct{}{}

		pairs = append(pairs, CartProduct{CartID: entry.cartID, ProductID: entry.productID})
	}

	slices.SortFunc(pairs, func(a, b CartProduct) int {
		if a.CartID != b.CartID {
			return strings.Compare(a.CartID, b.CartID)
		}

		return strings.Compare(a.ProductID, b.ProductID)
	})

	return CartsWithProducts{
		Pairs: pairs,
		Count: len(pairs),
	}
}

// BuildEventFilter creates the filter for querying the events that affect
// active item lines across all carts.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.ItemAddedEventType,
			core.ItemRemovedEventType,
			core.ItemArchivedEventType,
			core.CartClearedEventType,
		).
		Finalize()
}
