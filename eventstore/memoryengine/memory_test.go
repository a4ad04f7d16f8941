package memoryengine_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore/memoryengine"
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

func newTestEventStore(t *testing.T) *memoryengine.EventStore {
	t.Helper()

	es, err := memoryengine.NewEventStore(memoryengine.WithKeyRules(testKeyRules()))
	require.NoError(t, err, "creating the event store failed")

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

func Test_ConcurrentConditionalAppends_ExactlyOneWins(t *testing.T) {
	// setup
	es := newTestEventStore(t)
	fakeClock := time.Unix(0, 0).UTC()
	cartID := uuid.NewString()

	_, condition, readErr := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))
	require.NoError(t, readErr)

	const writers = 16
	var successCount atomic.Int32
	var conflictCount atomic.Int32
	var wg sync.WaitGroup

	// act
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conditionCopy := condition
			_, err := es.Append(context.Background(), &conditionCopy, fixtureCartCreated(t, cartID, fakeClock))

			switch {
			case err == nil:
				successCount.Add(1)
			case assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(1), successCount.Load(), "exactly one writer must win the boundary")
	assert.Equal(t, int32(writers-1), conflictCount.Load(), "every other writer must see a conflict")

	events, _, err := es.Read(context.Background(), filterAllEventTypesForOneCart(cartID))
	assert.NoError(t, err)
	assert.Len(t, events, 1)
}
