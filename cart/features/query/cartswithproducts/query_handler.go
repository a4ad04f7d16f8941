package cartswithproducts

import (
	"context"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// QueryHandler orchestrates the query processing workflow: Read -> Project.
type QueryHandler struct {
	eventStore shell.ReadsEvents
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.ReadsEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle queries all item-line events and projects the distinct
// (cart, product) pairs.
func (h QueryHandler) Handle(ctx context.Context) (CartsWithProducts, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	sequencedEvents, _, err := h.eventStore.Read(ctx, BuildEventFilter())
	if err != nil {
		return CartsWithProducts{}, err
	}

	history, err := shell.DomainEventsFrom(sequencedEvents)
	if err != nil {
		return CartsWithProducts{}, err
	}

	return ProjectCartsWithProducts(history), nil
}
