// Package eventstore provides the core abstractions for an append-only,
// position-ordered event store with dynamic consistency boundaries.
//
// Instead of fixed event streams, consistency boundaries are defined by
// queries over boundary keys. Keys are derived from event payloads at append
// time via a declarative KeyRules table, so a single event can participate in
// several boundaries at once (e.g. an item-added event carries both a "cart"
// key and a "product" key).
//
// Key types:
//   - StorableEvent: an event to be appended, built on scalars to stay
//     agnostic of the domain event implementation in client code
//   - SequencedEvent: a stored event with its log position and derived keys
//   - Filter: criteria for reading events and for defining the consistency
//     boundary of a conditional append
//   - AppendCondition: a (filter, lastSeenPosition) pair captured by Read and
//     re-validated by Append to detect concurrent interference
//   - KeyRules: the declarative eventType -> key extraction table
//
// Common usage pattern:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(core.ItemAddedEventType, core.ItemRemovedEventType).
//		AndAnyKeyOf(eventstore.K("cart", cartID.String())).
//		Finalize()
//
//	events, condition, err := store.Read(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	// fold events, decide, then append with the captured condition
//	newEvent, _ := eventstore.BuildStorableEvent(eventType, time.Now(), payload, metadata)
//	_, err = store.Append(ctx, &condition, newEvent)
//
// A nil condition makes Append unconditional (a "blind append"), used only
// for events that protect no invariant, such as translations of external
// facts.
package eventstore
