package orders

import (
	"slices"
	"strings"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

const (
	queryType = "Orders"
)

// ProjectOrders implements the query logic for the order history: every cart
// submission is an order, regardless of its later publication outcome.
// Pure function.
func ProjectOrders(history core.DomainEvents) Orders {
	all := make([]Order, 0, len(history))

	for _, event := range history {
		if submitted, ok := event.(core.CartSubmitted); ok {
			all = append(all, Order{
				CartID:          submitted.CartID,
				OrderedProducts: submitted.OrderedProducts,
				TotalPrice:      submitted.TotalPrice,
				SubmittedAt:     submitted.OccurredAt,
			})
		}
	}

	slices.SortFunc(all, func(a, b Order) int {
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Compare(b.SubmittedAt)
		}

		return strings.Compare(a.CartID, b.CartID)
	})

	return Orders{
		Orders: all,
		Count:  len(all),
	}
}

// BuildEventFilter creates the filter for querying all cart submissions.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.CartSubmittedEventType).
		Finalize()
}
