package removeitem_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/command/removeitem"
)

func Test_Decide_RemovesItem_WhenItemIsInCart(t *testing.T) {
	// arrange
	cartID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartCreated(cartID, now.Add(-2*time.Hour)),
		givenItemAdded(t, cartID, itemID, now.Add(-1*time.Hour)),
	}

	command := removeitem.BuildCommand(cartID, itemID, now)

	// act
	result := removeitem.Decide(events, command)

	// assert
	assert.Equal(t, "success", result.Outcome)
	require.Len(t, result.Events, 1)

	removed, ok := result.Events[0].(core.ItemRemoved)
	require.True(t, ok)
	assert.Equal(t, cartID.String(), removed.CartID)
	assert.Equal(t, itemID.String(), removed.ItemID)
}

func Test_Decide_Rejected_WhenItemWasNeverAdded(t *testing.T) {
	// arrange
	cartID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartCreated(cartID, now.Add(-1*time.Hour)),
	}

	command := removeitem.BuildCommand(cartID, uuid.New(), now)

	// act
	result := removeitem.Decide(events, command)

	// assert
	rejection := result.HasRejection()
	require.Error(t, rejection)

	typed, ok := core.IsRejection(rejection)
	require.True(t, ok)
	assert.Equal(t, core.ItemNotFound, typed.Kind)
}

func Test_Decide_Rejected_WhenItemWasAlreadyRemoved(t *testing.T) {
	// arrange
	cartID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartCreated(cartID, now.Add(-3*time.Hour)),
		givenItemAdded(t, cartID, itemID, now.Add(-2*time.Hour)),
		core.BuildItemRemoved(cartID, itemID, now.Add(-1*time.Hour)),
	}

	command := removeitem.BuildCommand(cartID, itemID, now)

	// act
	result := removeitem.Decide(events, command)

	// assert
	typed, ok := core.IsRejection(result.HasRejection())
	require.True(t, ok)
	assert.Equal(t, core.ItemNotFound, typed.Kind)
	assert.Equal(t, itemID.String(), typed.ItemID)
}

func Test_Decide_Rejected_WhenCartWasCleared(t *testing.T) {
	// arrange
	cartID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartCreated(cartID, now.Add(-3*time.Hour)),
		givenItemAdded(t, cartID, itemID, now.Add(-2*time.Hour)),
		core.BuildCartCleared(cartID, now.Add(-1*time.Hour)),
	}

	command := removeitem.BuildCommand(cartID, itemID, now)

	// act
	result := removeitem.Decide(events, command)

	// assert
	typed, ok := core.IsRejection(result.HasRejection())
	require.True(t, ok)
	assert.Equal(t, core.ItemNotFound, typed.Kind)
}

func givenItemAdded(t *testing.T, cartID, itemID uuid.UUID, at time.Time) core.DomainEvent {
	t.Helper()

	return core.BuildItemAdded(cartID, itemID, uuid.New(), "Test Product", "test.jpg", 9.99, at)
}
