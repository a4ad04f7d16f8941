package changedprices

import (
	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

const (
	queryType = "ChangedPrices"
)

// ProjectChangedPrices implements the query logic for products whose price
// has changed. Pure function, last write wins per product.
func ProjectChangedPrices(history core.DomainEvents) ChangedPrices {
	prices := map[core.ProductIDString]PriceChange{}

	for _, event := range history {
		if changed, ok := event.(core.PriceChanged); ok {
			prices[changed.ProductID] = PriceChange{
				OldPrice: changed.OldPrice,
				NewPrice: changed.NewPrice,
			}
		}
	}

	return ChangedPrices{
		Prices: prices,
		Count:  len(prices),
	}
}

// BuildEventFilter creates the filter for querying all price changes.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.PriceChangedEventType).
		Finalize()
}
