package additem_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/command/additem"
)

func Test_Decide_CreatesCartAndAddsItem_WhenCartDoesNotExistYet(t *testing.T) {
	// arrange
	cartID := uuid.New()
	itemID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	command := additem.BuildCommand(cartID, itemID, productID, "Espresso Beans", "beans.jpg", 12.90, now)

	// act
	result := additem.Decide(nil, command)

	// assert
	assert.Equal(t, "success", result.Outcome)
	require.Len(t, result.Events, 2)

	created, ok := result.Events[0].(core.CartCreated)
	require.True(t, ok, "first event should be CartCreated")
	assert.Equal(t, cartID.String(), created.CartID)

	added, ok := result.Events[1].(core.ItemAdded)
	require.True(t, ok, "second event should be ItemAdded")
	assert.Equal(t, cartID.String(), added.CartID)
	assert.Equal(t, itemID.String(), added.ItemID)
	assert.Equal(t, productID.String(), added.ProductID)
	assert.InDelta(t, 12.90, added.Price, 0.001)
}

func Test_Decide_AddsItemWithoutCartCreated_WhenCartAlreadyExists(t *testing.T) {
	// arrange
	cartID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenCartCreated(t, cartID, now.Add(-2*time.Hour)),
		givenItemAdded(t, cartID, uuid.New(), uuid.New(), now.Add(-1*time.Hour)),
	}

	command := additem.BuildCommand(cartID, itemID, uuid.New(), "Filter Paper", "paper.jpg", 3.50, now)

	// act
	result := additem.Decide(events, command)

	// assert
	assert.Equal(t, "success", result.Outcome)
	require.Len(t, result.Events, 1)

	added, ok := result.Events[0].(core.ItemAdded)
	require.True(t, ok)
	assert.Equal(t, itemID.String(), added.ItemID)
}

func Test_Decide_Rejected_WhenCartAlreadyHoldsThreeItems(t *testing.T) {
	// arrange
	cartID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenCartCreated(t, cartID, now.Add(-4*time.Hour)),
		givenItemAdded(t, cartID, uuid.New(), uuid.New(), now.Add(-3*time.Hour)),
		givenItemAdded(t, cartID, uuid.New(), uuid.New(), now.Add(-2*time.Hour)),
		givenItemAdded(t, cartID, uuid.New(), uuid.New(), now.Add(-1*time.Hour)),
	}

	command := additem.BuildCommand(cartID, uuid.New(), uuid.New(), "One Too Many", "img.jpg", 1.00, now)

	// act
	result := additem.Decide(events, command)

	// assert
	rejection := result.HasRejection()
	require.Error(t, rejection)

	typed, ok := core.IsRejection(rejection)
	require.True(t, ok)
	assert.Equal(t, core.TooManyItems, typed.Kind)
	assert.Equal(t, cartID.String(), typed.CartID)
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Success_WhenAnItemWasRemovedBeforeAddingTheFourth(t *testing.T) {
	// arrange
	cartID := uuid.New()
	removedItemID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenCartCreated(t, cartID, now.Add(-5*time.Hour)),
		givenItemAdded(t, cartID, removedItemID, uuid.New(), now.Add(-4*time.Hour)),
		givenItemAdded(t, cartID, uuid.New(), uuid.New(), now.Add(-3*time.Hour)),
		givenItemAdded(t, cartID, uuid.New(), uuid.New(), now.Add(-2*time.Hour)),
		core.BuildItemRemoved(cartID, removedItemID, now.Add(-1*time.Hour)),
	}

	command := additem.BuildCommand(cartID, uuid.New(), uuid.New(), "Pour-Over Kettle", "img.jpg", 2.00, now)

	// act
	result := additem.Decide(events, command)

	// assert
	assert.Equal(t, "success", result.Outcome)
	require.Len(t, result.Events, 1)
}

func Test_Decide_Idempotent_WhenItemIDAlreadyInCart(t *testing.T) {
	// arrange
	cartID := uuid.New()
	itemID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenCartCreated(t, cartID, now.Add(-2*time.Hour)),
		givenItemAdded(t, cartID, itemID, productID, now.Add(-1*time.Hour)),
	}

	command := additem.BuildCommand(cartID, itemID, productID, "Espresso Beans", "beans.jpg", 12.90, now)

	// act
	result := additem.Decide(events, command)

	// assert
	assert.Equal(t, "idempotent", result.Outcome)
	assert.False(t, result.HasEventsToAppend())
	assert.NoError(t, result.HasRejection())
}

func Test_Decide_SameProductTwiceUnderDifferentItemIDs_IsAllowed(t *testing.T) {
	// arrange
	cartID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenCartCreated(t, cartID, now.Add(-2*time.Hour)),
		givenItemAdded(t, cartID, uuid.New(), productID, now.Add(-1*time.Hour)),
	}

	command := additem.BuildCommand(cartID, uuid.New(), productID, "Espresso Beans", "beans.jpg", 12.90, now)

	// act
	result := additem.Decide(events, command)

	// assert
	assert.Equal(t, "success", result.Outcome)
}

// Test helper functions with t.Helper() for better error reporting

func givenCartCreated(t *testing.T, cartID uuid.UUID, at time.Time) core.DomainEvent {
	t.Helper()

	return core.BuildCartCreated(cartID, at)
}

func givenItemAdded(t *testing.T, cartID, itemID, productID uuid.UUID, at time.Time) core.DomainEvent {
	t.Helper()

	return core.BuildItemAdded(cartID, itemID, productID, "Test Product", "test.jpg", 9.99, at)
}
