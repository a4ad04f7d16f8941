package submittedcarts

import (
	"slices"
	"strings"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

const (
	queryType = "SubmittedCarts"
)

// ProjectSubmittedCarts implements the query logic for the carts that are
// submitted but not yet published. Pure function. This is the work queue of
// the cart publisher: CartSubmitted puts a cart on it, CartPublished and
// CartPublicationFailed take it off.
func ProjectSubmittedCarts(history core.DomainEvents) SubmittedCarts {
	pending := map[core.CartIDString]SubmittedCart{}

	for _, event := range history {
		switch e := event.(type) {
		case core.CartSubmitted:
			pending[e.CartID] = SubmittedCart{
				CartID:          e.CartID,
				OrderedProducts: e.OrderedProducts,
				TotalPrice:      e.TotalPrice,
				SubmittedAt:     e.OccurredAt,
			}

		case core.CartPublished:
			delete(pending, e.CartID)

		case core.CartPublicationFailed:
			delete(pending, e.CartID)
		}
	}

	carts := make([]SubmittedCart, 0, len(pending))
	for _, cart := range pending {
		carts = append(carts, cart)
	}

	slices.SortFunc(carts, func(a, b SubmittedCart) int {
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Compare(b.SubmittedAt)
		}

		return strings.Compare(a.CartID, b.CartID)
	})

	return SubmittedCarts{
		Carts: carts,
		Count: len(carts),
	}
}

// BuildEventFilter creates the filter for querying the submission and
// publication events of all carts.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CartSubmittedEventType,
			core.CartPublishedEventType,
			core.CartPublicationFailedEventType,
		).
		Finalize()
}
