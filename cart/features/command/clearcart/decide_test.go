package clearcart_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/command/clearcart"
)

func Test_Decide_ClearsCart_WhenCartExists(t *testing.T) {
	// arrange
	cartID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartCreated(cartID, now.Add(-1*time.Hour)),
	}

	command := clearcart.BuildCommand(cartID, now)

	// act
	result := clearcart.Decide(events, command)

	// assert
	assert.Equal(t, "success", result.Outcome)
	require.Len(t, result.Events, 1)

	cleared, ok := result.Events[0].(core.CartCleared)
	require.True(t, ok)
	assert.Equal(t, cartID.String(), cleared.CartID)
}

func Test_Decide_ClearsCartAgain_WhenCartWasAlreadyCleared(t *testing.T) {
	// arrange - clearing is unconditional once the cart exists
	cartID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartCreated(cartID, now.Add(-2*time.Hour)),
		core.BuildCartCleared(cartID, now.Add(-1*time.Hour)),
	}

	command := clearcart.BuildCommand(cartID, now)

	// act
	result := clearcart.Decide(events, command)

	// assert
	assert.Equal(t, "success", result.Outcome)
	require.Len(t, result.Events, 1)
}

func Test_Decide_Idempotent_WhenCartDoesNotExist(t *testing.T) {
	// arrange
	command := clearcart.BuildCommand(uuid.New(), time.Now())

	// act
	result := clearcart.Decide(nil, command)

	// assert
	assert.Equal(t, "idempotent", result.Outcome)
	assert.False(t, result.HasEventsToAppend())
	assert.NoError(t, result.HasRejection())
}
