package archiveitem_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/command/archiveitem"
)

func Test_Decide_ArchivesSingleLine_WhenProductIsInCart(t *testing.T) {
	// arrange
	cartID := uuid.New()
	itemID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartCreated(cartID, now.Add(-2*time.Hour)),
		givenItemAdded(t, cartID, itemID, productID, now.Add(-1*time.Hour)),
	}

	command := archiveitem.BuildCommand(cartID, productID, now)

	// act
	result := archiveitem.Decide(events, command)

	// assert
	assert.Equal(t, "success", result.Outcome)
	require.Len(t, result.Events, 1)

	archived, ok := result.Events[0].(core.ItemArchived)
	require.True(t, ok)
	assert.Equal(t, cartID.String(), archived.CartID)
	assert.Equal(t, itemID.String(), archived.ItemID)
}

func Test_Decide_ArchivesAllLines_WhenProductAddedTwice(t *testing.T) {
	// arrange
	cartID := uuid.New()
	productID := uuid.New()
	firstItemID := uuid.New()
	secondItemID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartCreated(cartID, now.Add(-3*time.Hour)),
		givenItemAdded(t, cartID, firstItemID, productID, now.Add(-2*time.Hour)),
		givenItemAdded(t, cartID, secondItemID, productID, now.Add(-1*time.Hour)),
	}

	command := archiveitem.BuildCommand(cartID, productID, now)

	// act
	result := archiveitem.Decide(events, command)

	// assert
	require.Len(t, result.Events, 2)

	archivedItemIDs := make([]string, 0, 2)
	for _, event := range result.Events {
		archived, ok := event.(core.ItemArchived)
		require.True(t, ok)
		archivedItemIDs = append(archivedItemIDs, archived.ItemID)
	}

	assert.ElementsMatch(t, []string{firstItemID.String(), secondItemID.String()}, archivedItemIDs)
}

func Test_Decide_Idempotent_WhenProductIsNotInCart(t *testing.T) {
	// arrange
	cartID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartCreated(cartID, now.Add(-2*time.Hour)),
		givenItemAdded(t, cartID, uuid.New(), uuid.New(), now.Add(-1*time.Hour)),
	}

	command := archiveitem.BuildCommand(cartID, uuid.New(), now)

	// act
	result := archiveitem.Decide(events, command)

	// assert
	assert.Equal(t, "idempotent", result.Outcome)
	assert.False(t, result.HasEventsToAppend())
	assert.NoError(t, result.HasRejection())
}

func Test_Decide_Idempotent_WhenLineWasAlreadyArchived(t *testing.T) {
	// arrange
	cartID := uuid.New()
	itemID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartCreated(cartID, now.Add(-3*time.Hour)),
		givenItemAdded(t, cartID, itemID, productID, now.Add(-2*time.Hour)),
		core.BuildItemArchived(cartID, itemID.String(), now.Add(-1*time.Hour)),
	}

	command := archiveitem.BuildCommand(cartID, productID, now)

	// act
	result := archiveitem.Decide(events, command)

	// assert
	assert.Equal(t, "idempotent", result.Outcome)
}

func givenItemAdded(t *testing.T, cartID, itemID, productID uuid.UUID, at time.Time) core.DomainEvent {
	t.Helper()

	return core.BuildItemAdded(cartID, itemID, productID, "Test Product", "test.jpg", 9.99, at)
}
