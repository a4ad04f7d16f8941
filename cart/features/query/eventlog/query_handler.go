// Package eventlog exposes the raw, position-ordered event log for debugging
// and introspection. Unlike the other queries it performs no domain mapping:
// the result carries the stored events as they are, including their derived
// boundary keys.
package eventlog

import (
	"context"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// EventLog represents the query result: the raw ordered log and the position
// of its last event, usable as AfterPosition of a follow-up query.
type EventLog struct {
	Events       eventstore.SequencedEvents
	Count        int
	LastPosition eventstore.Position
}

// QueryHandler reads the raw event log.
type QueryHandler struct {
	eventStore shell.ReadsEvents
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.ReadsEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle reads every stored event after the query's position, in position
// order.
func (h QueryHandler) Handle(ctx context.Context, query Query) (EventLog, error) {
	ctx = eventstore.WithEventualConsistency(ctx)

	sequencedEvents, condition, err := h.eventStore.Read(ctx, BuildEventFilter(query))
	if err != nil {
		return EventLog{}, err
	}

	return EventLog{
		Events:       sequencedEvents,
		Count:        len(sequencedEvents),
		LastPosition: condition.LastSeenPosition(),
	}, nil
}

// BuildEventFilter creates the filter for reading the raw log, constrained to
// positions after the query's AfterPosition when one is set.
func BuildEventFilter(query Query) eventstore.Filter {
	if query.AfterPosition == 0 {
		return eventstore.BuildEventFilter().MatchingAnyEvent()
	}

	return eventstore.BuildEventFilter().
		WithPositionHigherThan(query.AfterPosition).
		Finalize()
}
