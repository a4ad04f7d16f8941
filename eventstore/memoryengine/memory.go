// Package memoryengine provides an in-memory implementation of the dynamic
// consistency boundary event store. It is suitable for testing and
// development and mirrors the SQL engines' semantics exactly: position
// ordering, key derivation at append time, and atomic conditional appends.
package memoryengine

import (
	"context"
	"errors"
	"sync"

	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// EventStore is a thread-safe in-memory event store. Stored events are
// immutable; Read returns copies of the internal slice headers only.
type EventStore struct {
	mu       sync.RWMutex
	events   eventstore.SequencedEvents // ordered by position, position == index+1
	keyRules eventstore.KeyRules
	logger   eventstore.Logger
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithKeyRules sets the boundary key derivation rules for the EventStore.
func WithKeyRules(rules eventstore.KeyRules) Option {
	return func(es *EventStore) error {
		es.keyRules = rules
		return nil
	}
}

// WithLogger sets the logger for the EventStore.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// NewEventStore creates a new in-memory EventStore with optional configuration.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{
		keyRules: eventstore.KeyRules{},
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Read retrieves all events matching the filter, ordered by position, and
// captures the append condition for the boundary the filter defines.
func (es *EventStore) Read(ctx context.Context, filter eventstore.Filter) (
	eventstore.SequencedEvents,
	eventstore.AppendCondition,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, eventstore.AppendCondition{}, err
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	matched := make(eventstore.SequencedEvents, 0)
	lastSeenPosition := eventstore.Position(0)

	for _, event := range es.events {
		if !eventMatchesFilter(event, filter) {
			continue
		}

		matched = append(matched, event)
		lastSeenPosition = event.Position
	}

	if es.logger != nil {
		es.logger.Debug("memory eventstore read", "event_count", len(matched), "last_seen_position", lastSeenPosition)
	}

	return matched, eventstore.CaptureAppendCondition(filter, lastSeenPosition), nil
}

// Append appends one or multiple events, deriving their boundary keys from
// the configured key rules. With a non-nil condition the append is validated
// against the boundary under the write lock: if any stored event matches the
// condition's filter above its last seen position, nothing is appended and
// eventstore.ErrConcurrencyConflict is returned. A nil condition appends
// unconditionally.
func (es *EventStore) Append(
	ctx context.Context,
	condition *eventstore.AppendCondition,
	events ...eventstore.StorableEvent,
) (eventstore.PositionRange, error) {

	var empty eventstore.PositionRange

	if len(events) == 0 {
		return empty, eventstore.ErrNoEventsToAppend
	}

	if err := ctx.Err(); err != nil {
		return empty, err
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	// Validate everything before appending anything (all-or-nothing).
	if condition != nil {
		for _, stored := range es.events {
			if stored.Position > condition.LastSeenPosition() && eventMatchesFilter(stored, condition.Filter()) {
				if es.logger != nil {
					es.logger.Info("memory eventstore concurrency conflict",
						"last_seen_position", condition.LastSeenPosition(),
						"conflicting_position", stored.Position)
				}

				return empty, eventstore.ErrConcurrencyConflict
			}
		}
	}

	sequenced := make(eventstore.SequencedEvents, 0, len(events))
	nextPosition := eventstore.Position(len(es.events)) + 1

	for i, event := range events {
		keys, keysErr := es.keyRules.ExtractKeys(event.EventType, event.PayloadJSON)
		if keysErr != nil {
			return empty, errors.Join(eventstore.ErrExtractingKeysFailed, keysErr)
		}

		sequencedEvent, buildErr := eventstore.BuildSequencedEvent(
			nextPosition+eventstore.Position(i),
			event.EventType,
			event.OccurredAt,
			event.PayloadJSON,
			event.MetadataJSON,
			keys,
		)
		if buildErr != nil {
			return empty, errors.Join(eventstore.ErrBuildingSequencedEventFailed, buildErr)
		}

		sequenced = append(sequenced, sequencedEvent)
	}

	es.events = append(es.events, sequenced...)

	positionRange := eventstore.PositionRange{
		From: sequenced[0].Position,
		To:   sequenced[len(sequenced)-1].Position,
	}

	if es.logger != nil {
		es.logger.Info("memory eventstore events appended",
			"event_count", len(sequenced),
			"position_from", positionRange.From,
			"position_to", positionRange.To)
	}

	return positionRange, nil
}

// eventMatchesFilter mirrors the SQL engines' where-clause semantics: the
// filter items are OR'd, within an item event types are OR'd and key
// predicates are OR'd or AND'd, and the global constraints narrow every item.
func eventMatchesFilter(event eventstore.SequencedEvent, filter eventstore.Filter) bool {
	if !filter.OccurredFrom().IsZero() && event.OccurredAt.Before(filter.OccurredFrom()) {
		return false
	}

	if !filter.OccurredUntil().IsZero() && event.OccurredAt.After(filter.OccurredUntil()) {
		return false
	}

	if filter.PositionHigherThan() > 0 && event.Position <= filter.PositionHigherThan() {
		return false
	}

	if len(filter.Items()) == 0 {
		return true
	}

	for _, item := range filter.Items() {
		if eventMatchesFilterItem(event, item) {
			return true
		}
	}

	return false
}

func eventMatchesFilterItem(event eventstore.SequencedEvent, item eventstore.FilterItem) bool {
	if len(item.EventTypes()) > 0 {
		typeMatched := false

		for _, eventType := range item.EventTypes() {
			if event.EventType == eventType {
				typeMatched = true
				break
			}
		}

		if !typeMatched {
			return false
		}
	}

	if len(item.Predicates()) == 0 {
		return true
	}

	if item.AllKeysMustMatch() {
		for _, predicate := range item.Predicates() {
			if !eventCarriesKey(event, predicate) {
				return false
			}
		}

		return true
	}

	for _, predicate := range item.Predicates() {
		if eventCarriesKey(event, predicate) {
			return true
		}
	}

	return false
}

func eventCarriesKey(event eventstore.SequencedEvent, predicate eventstore.KeyPredicate) bool {
	for _, key := range event.Keys {
		if key.Name == predicate.Name() && key.Value == predicate.Val() {
			return true
		}
	}

	return false
}
