package changedprices

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

// Handle queries all price changes and projects the latest change per product.
func (h QueryHandler) Handle(ctx context.Context) (ChangedPrices, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	sequencedEvents, _, err := h.eventStore.Read(ctx, BuildEventFilter())
	if err != nil {
		return ChangedPrices{}, err
	}

	history, err := shell.DomainEventsFrom(sequencedEvents)
	if err != nil {
		return ChangedPrices{}, err
	}

	return ProjectChangedPrices(history), nil
}
