package inventories

import (
	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

const (
	queryType = "Inventories"
)

// ProjectInventories implements the query logic for the current stock per
// product. Pure function, last write wins: each InventoryChanged event
// carries the absolute new count, so the latest event per product is the
// current stock.
func ProjectInventories(history core.DomainEvents) Inventories {
	stock := map[core.ProductIDString]int{}

	for _, event := range history {
		if changed, ok := event.(core.InventoryChanged); ok {
			stock[changed.ProductID] = changed.Inventory
		}
	}

	return Inventories{
		Stock: stock,
		Count: len(stock),
	}
}

// BuildEventFilter creates the filter for querying all inventory changes.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.InventoryChangedEventType).
		Finalize()
}
