package sqliteengine_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore/sqliteengine"
)

const (
	cartCreatedEventType      = "CartCreated"
	itemAddedEventType        = "ItemAdded"
	inventoryChangedEventType = "InventoryChanged"
)

func testKeyRules() eventstore.KeyRules {
	return eventstore.KeyRules{
		cartCreatedEventType: {
			{Name: "cart", Path: "cartId"},
		},
		itemAddedEventType: {
			{Name: "cart", Path: "cartId"},
			{Name: "product", Path: "productId"},
		},
		inventoryChangedEventType: {
			{Name: "product", Path: "productId"},
		},
	}
}

func newTestEventStore(t *testing.T) *sqliteengine.EventStore {
	t.Helper()

	es, err := sqliteengine.Open(
		filepath.Join(t.TempDir(), "events.db"),
		sqliteengine.WithKeyRules(testKeyRules()),
	)
	require.NoError(t, err, "creating the event store failed")

	t.Cleanup(func() {
		_ = es.Close()
	})

	return es
}

func toStorable(t *testing.T, eventType string, occurredAt time.Time, payloadJSON string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, occurredAt, []byte(payloadJSON))
	require.NoError(t, err, "building the storable event failed")

	return event
}

func fixtureCartCreated(t *testing.T, cartID string, occurredAt time.Time) eventstore.StorableEvent {
	t.Helper()

	return toStorable(t, cartCreatedEventType, occurredAt, fmt.Sprintf(`{"cartId": %q}`, cartID))
}

func fixtureItemAdded(t *testing.T, cartID string, productID string, occurredAt time.Time) eventstore.StorableEvent {
	t.Helper()

	return toStorable(t, itemAddedEventType, occurredAt,
		fmt.Sprintf(`{"cartId": %q, "productId": %q, "price": 100}`, cartID, productID))
}

func filterAllEventTypesForOneCart(cartID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyKeyOf(eventstore.K("cart", cartID)).
		Finalize()
}

func Test_Read_OnEmptyStore_CapturesZeroLastSeenPosition(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	cartID := uuid.NewString()

	// act
	events, condition, err := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))

	// assert
	assert.NoError(t, err, "error reading from an empty store")
	assert.Empty(t, events)
	assert.Equal(t, eventstore.Position(0), condition.LastSeenPosition())
}

func Test_Append_AssignsContiguousAscendingPositions(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	cartID := uuid.NewString()

	// act
	positionRange, err := es.Append(
		context.Background(),
		nil,
		fixtureCartCreated(t, cartID, fakeClock),
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(time.Second)),
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(2*time.Second)),
	)

	// assert
	assert.NoError(t, err, "error in appending the events")
	assert.Equal(t, eventstore.Position(1), positionRange.From)
	assert.Equal(t, eventstore.Position(3), positionRange.To)
	assert.Equal(t, 3, positionRange.Count())

	events, condition, readErr := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))
	assert.NoError(t, readErr)
	require.Len(t, events, 3)
	for i, event := range events {
		assert.Equal(t, eventstore.Position(i+1), event.Position)
	}
	assert.Equal(t, eventstore.Position(3), condition.LastSeenPosition())
}

func Test_Append_DerivesBoundaryKeysFromPayload(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	cartID := uuid.NewString()
	productID := uuid.NewString()

	// act
	_, err := es.Append(context.Background(), nil, fixtureItemAdded(t, cartID, productID, fakeClock))

	// assert
	assert.NoError(t, err, "error in appending the event")

	events, _, readErr := es.Read(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	assert.NoError(t, readErr)
	require.Len(t, events, 1)
	assert.ElementsMatch(t,
		eventstore.Keys{
			{Name: "cart", Value: cartID},
			{Name: "product", Value: productID},
		},
		events[0].Keys,
	)
}

func Test_Read_RoundTripsEventFields(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	occurredAt := time.Date(2026, 8, 28, 11, 22, 33, 456789012, time.UTC)
	cartID := uuid.NewString()

	_, err := es.Append(context.Background(), nil, fixtureCartCreated(t, cartID, occurredAt))
	require.NoError(t, err)

	// act
	events, _, readErr := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))

	// assert
	assert.NoError(t, readErr)
	require.Len(t, events, 1)
	assert.Equal(t, cartCreatedEventType, events[0].EventType)
	assert.True(t, events[0].OccurredAt.Equal(occurredAt), "occurred-at must survive the storage round trip")
	assert.JSONEq(t, fmt.Sprintf(`{"cartId": %q}`, cartID), string(events[0].PayloadJSON))
}

func Test_Read_OneEventSatisfiesMultipleBoundaries(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	cartID := uuid.NewString()
	productID := uuid.NewString()

	_, err := es.Append(context.Background(), nil, fixtureItemAdded(t, cartID, productID, fakeClock))
	require.NoError(t, err)

	// act
	cartEvents, _, cartErr := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))
	productEvents, _, productErr := es.Read(context.Background(), eventstore.BuildEventFilter().
		Matching().
		AnyKeyOf(eventstore.K("product", productID)).
		Finalize())

	// assert
	assert.NoError(t, cartErr)
	assert.NoError(t, productErr)
	assert.Len(t, cartEvents, 1, "the event should be visible under the cart boundary")
	assert.Len(t, productEvents, 1, "the same event should be visible under the product boundary")
}

func Test_Read_MatchesKeyValuesContainingQuotes(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	cartID := `cart-o'brien "special"`

	_, err := es.Append(context.Background(), nil, fixtureCartCreated(t, cartID, fakeClock))
	require.NoError(t, err)

	// act
	events, condition, readErr := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))

	// assert
	assert.NoError(t, readErr)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Keys, eventstore.Key{Name: "cart", Value: cartID})

	// the captured condition must stay usable for a conditional append
	_, appendErr := es.Append(
		context.Background(),
		&condition,
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(time.Second)),
	)
	assert.NoError(t, appendErr)
}

func Test_Append_WithCondition_Succeeds_WhenBoundaryIsUntouched(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	cartID := uuid.NewString()

	_, err := es.Append(context.Background(), nil, fixtureCartCreated(t, cartID, fakeClock))
	require.NoError(t, err)

	_, condition, readErr := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))
	require.NoError(t, readErr)

	// an event in an unrelated boundary does not violate the condition
	_, err = es.Append(context.Background(), nil, fixtureCartCreated(t, uuid.NewString(), fakeClock.Add(time.Second)))
	require.NoError(t, err)

	// act
	_, appendErr := es.Append(
		context.Background(),
		&condition,
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(2*time.Second)),
	)

	// assert
	assert.NoError(t, appendErr, "error in appending the event")
}

func Test_Append_WithCondition_Conflicts_WhenBoundaryAdvanced(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	cartID := uuid.NewString()

	_, err := es.Append(context.Background(), nil, fixtureCartCreated(t, cartID, fakeClock))
	require.NoError(t, err)

	_, condition, readErr := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))
	require.NoError(t, readErr)

	// concurrent append into the same boundary
	_, err = es.Append(context.Background(), nil, fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(time.Second)))
	require.NoError(t, err)

	// act
	_, appendErr := es.Append(
		context.Background(),
		&condition,
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(2*time.Second)),
	)

	// assert
	assert.ErrorIs(t, appendErr, eventstore.ErrConcurrencyConflict)
}

func Test_Append_WithCondition_Conflicts_WhenFirstEventAppearsAfterEmptyRead(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	cartID := uuid.NewString()

	// the boundary is empty at read time
	events, condition, readErr := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))
	require.NoError(t, readErr)
	require.Empty(t, events)

	// a concurrent writer creates the cart first
	_, err := es.Append(context.Background(), nil, fixtureCartCreated(t, cartID, fakeClock))
	require.NoError(t, err)

	// act
	_, appendErr := es.Append(
		context.Background(),
		&condition,
		fixtureCartCreated(t, cartID, fakeClock.Add(time.Second)),
	)

	// assert
	assert.ErrorIs(t, appendErr, eventstore.ErrConcurrencyConflict)
}

func Test_Append_OnConflict_AppendsNothing(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	cartID := uuid.NewString()

	_, condition, readErr := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))
	require.NoError(t, readErr)

	_, err := es.Append(context.Background(), nil, fixtureCartCreated(t, cartID, fakeClock))
	require.NoError(t, err)

	// act: a multi-event conditional append that must fail atomically
	_, appendErr := es.Append(
		context.Background(),
		&condition,
		fixtureCartCreated(t, cartID, fakeClock.Add(time.Second)),
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(2*time.Second)),
	)

	// assert
	assert.ErrorIs(t, appendErr, eventstore.ErrConcurrencyConflict)

	allEvents, _, allErr := es.Read(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	assert.NoError(t, allErr)
	assert.Len(t, allEvents, 1, "the conflicting append must not have stored anything")
}

func Test_Append_WithoutEvents_Errors(t *testing.T) {
	// setup
	es := newTestEventStore(t)

	// act
	_, err := es.Append(context.Background(), nil)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrNoEventsToAppend)
}

func Test_Append_BlindAppend_IgnoresConcurrentWrites(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	productID := uuid.NewString()

	for i := 0; i < 5; i++ {
		payload := fmt.Sprintf(`{"productId": %q, "inventory": %d}`, productID, i)
		_, err := es.Append(context.Background(), nil, toStorable(t, inventoryChangedEventType, fakeClock.Add(time.Duration(i)*time.Second), payload))

		// assert
		assert.NoError(t, err, "a blind append must never conflict")
	}
}

func Test_Append_WhenKeyRulePathIsMissing_Errors(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()

	// act: CartCreated payload without the cartId field the rule addresses
	_, err := es.Append(context.Background(), nil, toStorable(t, cartCreatedEventType, fakeClock, `{"other": "value"}`))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrExtractingKeysFailed)
}

func Test_Read_WithPositionHigherThan_SkipsOldEvents(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	cartID := uuid.NewString()

	_, err := es.Append(
		context.Background(),
		nil,
		fixtureCartCreated(t, cartID, fakeClock),
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(time.Second)),
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(2*time.Second)),
	)
	require.NoError(t, err)

	// act
	events, _, readErr := es.Read(context.Background(), eventstore.BuildEventFilter().
		Matching().
		AnyKeyOf(eventstore.K("cart", cartID)).
		WithPositionHigherThan(2).
		Finalize())

	// assert
	assert.NoError(t, readErr)
	require.Len(t, events, 1)
	assert.Equal(t, eventstore.Position(3), events[0].Position)
}

func Test_Read_WithOccurredAtRange_SelectsTheWindow(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	cartID := uuid.NewString()

	_, err := es.Append(
		context.Background(),
		nil,
		fixtureCartCreated(t, cartID, fakeClock),
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(time.Minute)),
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(2*time.Minute)),
	)
	require.NoError(t, err)

	// act
	events, _, readErr := es.Read(context.Background(), eventstore.BuildEventFilter().
		Matching().
		AnyKeyOf(eventstore.K("cart", cartID)).
		OccurredFrom(fakeClock.Add(30*time.Second)).
		AndOccurredUntil(fakeClock.Add(90*time.Second)).
		Finalize())

	// assert
	assert.NoError(t, readErr)
	require.Len(t, events, 1)
	assert.Equal(t, eventstore.Position(2), events[0].Position)
}

func Test_Open_ReopensAnExistingStore(t *testing.T) {
	// setup
	path := filepath.Join(t.TempDir(), "events.db")
	fakeClock := time.Unix(0, 0).UTC()
	cartID := uuid.NewString()

	first, err := sqliteengine.Open(path, sqliteengine.WithKeyRules(testKeyRules()))
	require.NoError(t, err)

	_, err = first.Append(context.Background(), nil, fixtureCartCreated(t, cartID, fakeClock))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// act
	second, err := sqliteengine.Open(path, sqliteengine.WithKeyRules(testKeyRules()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = second.Close()
	})

	events, condition, readErr := second.Read(context.Background(), filterAllEventTypesForOneCart(cartID))

	// assert
	assert.NoError(t, readErr)
	require.Len(t, events, 1)
	assert.Equal(t, eventstore.Position(1), condition.LastSeenPosition())

	positionRange, appendErr := second.Append(
		context.Background(),
		nil,
		fixtureItemAdded(t, cartID, uuid.NewString(), fakeClock.Add(time.Second)),
	)
	assert.NoError(t, appendErr)
	assert.Equal(t, eventstore.Position(2), positionRange.From, "positions must continue across reopens")
}
