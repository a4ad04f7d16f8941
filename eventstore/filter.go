package eventstore

import (
	"slices"
	"time"
)

// EventTypeString is a type alias for an event type name used in filters.
type EventTypeString = string

/***** Filter *****/

// Filter defines the criteria for reading events. Its items are OR'd
// together: an event matches the filter if it matches at least one item.
// All items of one filter, evaluated together, define one consistency
// boundary.
//
// Optional global constraints (occurred-at window, position floor) narrow
// every item. They exist for log inspection and catch-up reads; filters used
// as consistency boundaries should not carry them.
type Filter struct {
	items              []FilterItem
	occurredFrom       time.Time
	occurredUntil      time.Time
	positionHigherThan Position
}

func (f Filter) Items() []FilterItem {
	return f.items
}

func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

func (f Filter) PositionHigherThan() Position {
	return f.positionHigherThan
}

// IsEmpty reports whether the filter matches every event (no items with
// criteria and no global constraints).
func (f Filter) IsEmpty() bool {
	for _, item := range f.items {
		if len(item.eventTypes) > 0 || len(item.predicates) > 0 {
			return false
		}
	}

	return f.occurredFrom.IsZero() && f.occurredUntil.IsZero() && f.positionHigherThan == 0
}

/***** FilterItem *****/

// FilterItem is one OR'd clause of a Filter: a set of event types combined
// with a set of boundary key predicates.
type FilterItem struct {
	eventTypes       []EventTypeString
	predicates       []KeyPredicate
	allKeysMustMatch bool
}

func (fi FilterItem) EventTypes() []EventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []KeyPredicate {
	return fi.predicates
}

func (fi FilterItem) AllKeysMustMatch() bool {
	return fi.allKeysMustMatch
}

/***** KeyPredicate *****/

// KeyPredicate matches events that carry the boundary key name with the given
// value. Predicates match against the keys derived at append time, never
// against the raw payload.
type KeyPredicate struct {
	name KeyNameString
	val  KeyValueString
}

// K builds a KeyPredicate for the given boundary key name and value.
func K(name KeyNameString, val KeyValueString) KeyPredicate {
	return KeyPredicate{name: name, val: val}
}

func (kp KeyPredicate) Name() KeyNameString {
	return kp.name
}

func (kp KeyPredicate) Val() KeyValueString {
	return kp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic event filter to be used by the engine
// implementations to build queries for the specific query language, e.g.
// Postgres, SQLite, or in-memory matching.
// It is designed with the idea to only allow "useful" filter combinations for
// event-sourced workflows:
//
//   - empty filter
//   - (eventType)
//   - (eventType OR eventType...)
//   - (key)
//   - (key OR key...)
//   - (key AND key...)
//   - (eventType AND key)
//   - (eventType AND (key OR key...))
//   - (eventType AND (key AND key...))
//   - ((eventType OR eventType...) AND (key OR key...))
//   - ((eventType OR eventType...) AND (key AND key...))
//   - ((eventType AND key) OR (eventType AND key)...) -> multiple FilterItem(s)
//
// Each combination can additionally be narrowed by an occurred-at window
// and/or a position floor.
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEvent directly creates an empty Filter.
	MatchingAnyEvent() Filter

	// OccurredFrom constrains the filter to events that occurred at or after
	// the given time.
	OccurredFrom(from time.Time) FilterConstraintBuilder

	// OccurredUntil constrains the filter to events that occurred at or before
	// the given time.
	OccurredUntil(until time.Time) FilterConstraintBuilder

	// WithPositionHigherThan constrains the filter to events stored after the
	// given global position, typically for catch-up reads.
	WithPositionHigherThan(position Position) FilterConstraintBuilder
}

type EmptyFilterItemBuilder interface {
	// AnyEventTypeOf adds one or multiple EventTypes to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty EventTypes ("")
	//	- sorting the EventTypes
	//	- removing duplicate EventTypes
	AnyEventTypeOf(eventType EventTypeString, eventTypes ...EventTypeString) FilterItemBuilderLackingKeys

	// AnyKeyOf adds one or multiple KeyPredicate(s) to the current FilterItem,
	// expecting ANY of them to match.
	//
	// It sanitizes the input:
	//	- removing empty/partial KeyPredicate(s) (name or val is "")
	//	- sorting the KeyPredicate(s)
	//	- removing duplicate KeyPredicate(s)
	AnyKeyOf(predicate KeyPredicate, predicates ...KeyPredicate) FilterItemBuilderLackingEventTypes

	// AllKeysOf adds one or multiple KeyPredicate(s) to the current FilterItem,
	// expecting ALL of them to match.
	AllKeysOf(predicate KeyPredicate, predicates ...KeyPredicate) FilterItemBuilderLackingEventTypes
}

type FilterItemBuilderLackingKeys interface {
	// AndAnyKeyOf adds one or multiple KeyPredicate(s) to the current FilterItem,
	// expecting ANY of them to match.
	AndAnyKeyOf(predicate KeyPredicate, predicates ...KeyPredicate) CompletedFilterItemBuilder

	// AndAllKeysOf adds one or multiple KeyPredicate(s) to the current FilterItem,
	// expecting ALL of them to match.
	AndAllKeysOf(predicate KeyPredicate, predicates ...KeyPredicate) CompletedFilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// OccurredFrom constrains the filter to events that occurred at or after
	// the given time.
	OccurredFrom(from time.Time) FilterConstraintBuilder

	// OccurredUntil constrains the filter to events that occurred at or before
	// the given time.
	OccurredUntil(until time.Time) FilterConstraintBuilder

	// WithPositionHigherThan constrains the filter to events stored after the
	// given global position.
	WithPositionHigherThan(position Position) FilterConstraintBuilder

	// Finalize returns the Filter once it has at least one FilterItem with at
	// least one EventType OR one KeyPredicate.
	Finalize() Filter
}

type FilterItemBuilderLackingEventTypes interface {
	// AndAnyEventTypeOf adds one or multiple EventTypes to the current FilterItem.
	AndAnyEventTypeOf(eventType EventTypeString, eventTypes ...EventTypeString) CompletedFilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// OccurredFrom constrains the filter to events that occurred at or after
	// the given time.
	OccurredFrom(from time.Time) FilterConstraintBuilder

	// OccurredUntil constrains the filter to events that occurred at or before
	// the given time.
	OccurredUntil(until time.Time) FilterConstraintBuilder

	// WithPositionHigherThan constrains the filter to events stored after the
	// given global position.
	WithPositionHigherThan(position Position) FilterConstraintBuilder

	// Finalize returns the Filter once it has at least one FilterItem with at
	// least one EventType OR one KeyPredicate.
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// OccurredFrom constrains the filter to events that occurred at or after
	// the given time.
	OccurredFrom(from time.Time) FilterConstraintBuilder

	// OccurredUntil constrains the filter to events that occurred at or before
	// the given time.
	OccurredUntil(until time.Time) FilterConstraintBuilder

	// WithPositionHigherThan constrains the filter to events stored after the
	// given global position.
	WithPositionHigherThan(position Position) FilterConstraintBuilder

	// Finalize returns the Filter once it has at least one FilterItem with at
	// least one EventType OR one KeyPredicate.
	Finalize() Filter
}

type FilterConstraintBuilder interface {
	// AndOccurredUntil constrains the filter to events that occurred at or
	// before the given time.
	AndOccurredUntil(until time.Time) FilterConstraintBuilder

	// WithPositionHigherThan constrains the filter to events stored after the
	// given global position.
	WithPositionHigherThan(position Position) FilterConstraintBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder.
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildEventFilter creates a FilterBuilder which must eventually be finalized
// with Finalize() or MatchingAnyEvent().
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

// Matching starts a new FilterItem.
func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

// AnyEventTypeOf adds one or multiple EventTypes to the current FilterItem expecting ANY EventType to match.
func (fb filterBuilder) AnyEventTypeOf(
	eventType EventTypeString,
	eventTypes ...EventTypeString,
) FilterItemBuilderLackingKeys {

	fb.currentFilterItem.eventTypes = append(
		fb.currentFilterItem.eventTypes,
		fb.sanitizeEventTypes(eventType, eventTypes...)...,
	)

	return fb
}

// AndAnyEventTypeOf adds one or multiple EventTypes to the current FilterItem expecting ANY EventType to match.
func (fb filterBuilder) AndAnyEventTypeOf(
	eventType EventTypeString,
	eventTypes ...EventTypeString,
) CompletedFilterItemBuilder {

	fb.currentFilterItem.eventTypes = append(
		fb.currentFilterItem.eventTypes,
		fb.sanitizeEventTypes(eventType, eventTypes...)...,
	)

	return fb
}

func (fb filterBuilder) sanitizeEventTypes(
	eventType EventTypeString,
	eventTypes ...EventTypeString,
) []EventTypeString {

	allEventTypes := append([]EventTypeString{eventType}, eventTypes...)
	allEventTypes = slices.DeleteFunc(
		allEventTypes,
		func(e EventTypeString) bool {
			return e == ""
		})
	slices.Sort(allEventTypes)
	allEventTypes = slices.Compact(allEventTypes)
	allEventTypes = slices.Clip(allEventTypes)

	return allEventTypes
}

// AnyKeyOf adds one or multiple KeyPredicate(s) to the current FilterItem expecting ANY of them to match.
func (fb filterBuilder) AnyKeyOf(
	predicate KeyPredicate,
	predicates ...KeyPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// AndAnyKeyOf adds one or multiple KeyPredicate(s) to the current FilterItem expecting ANY of them to match.
func (fb filterBuilder) AndAnyKeyOf(
	predicate KeyPredicate,
	predicates ...KeyPredicate,
) CompletedFilterItemBuilder {

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// AllKeysOf adds one or multiple KeyPredicate(s) to the current FilterItem expecting ALL of them to match.
func (fb filterBuilder) AllKeysOf(
	predicate KeyPredicate,
	predicates ...KeyPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.allKeysMustMatch = true

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// AndAllKeysOf adds one or multiple KeyPredicate(s) to the current FilterItem expecting ALL of them to match.
func (fb filterBuilder) AndAllKeysOf(
	predicate KeyPredicate,
	predicates ...KeyPredicate,
) CompletedFilterItemBuilder {

	fb.currentFilterItem.allKeysMustMatch = true

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

func (fb filterBuilder) sanitizePredicates(
	predicate KeyPredicate,
	predicates ...KeyPredicate,
) []KeyPredicate {

	allPredicates := append([]KeyPredicate{predicate}, predicates...)
	allPredicates = slices.DeleteFunc(
		allPredicates,
		func(e KeyPredicate) bool {
			return len(e.name) == 0 || len(e.val) == 0
		})
	slices.SortFunc(
		allPredicates,
		func(a, b KeyPredicate) int {
			if a.name > b.name {
				return 1
			}

			if a.name < b.name {
				return -1
			}

			return 0
		})

	allPredicates = slices.Compact(allPredicates)
	allPredicates = slices.Clip(allPredicates)

	return allPredicates
}

// OrMatching finalizes the current FilterItem and starts a new one.
func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(fb.filter.items, fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

// OccurredFrom constrains the filter to events that occurred at or after the given time.
func (fb filterBuilder) OccurredFrom(from time.Time) FilterConstraintBuilder {
	fb.filter.occurredFrom = from

	return fb
}

// OccurredUntil constrains the filter to events that occurred at or before the given time.
func (fb filterBuilder) OccurredUntil(until time.Time) FilterConstraintBuilder {
	fb.filter.occurredUntil = until

	return fb
}

// AndOccurredUntil constrains the filter to events that occurred at or before the given time.
func (fb filterBuilder) AndOccurredUntil(until time.Time) FilterConstraintBuilder {
	fb.filter.occurredUntil = until

	return fb
}

// WithPositionHigherThan constrains the filter to events stored after the given global position.
func (fb filterBuilder) WithPositionHigherThan(position Position) FilterConstraintBuilder {
	fb.filter.positionHigherThan = position

	return fb
}

// MatchingAnyEvent directly creates an empty filter.
func (fb filterBuilder) MatchingAnyEvent() Filter {
	return fb.filter
}

// Finalize returns the Filter once it has at least one FilterItem with at
// least one EventType OR one KeyPredicate.
func (fb filterBuilder) Finalize() Filter {
	fb.filter.items = append(fb.filter.items, fb.currentFilterItem)

	return fb.filter
}
