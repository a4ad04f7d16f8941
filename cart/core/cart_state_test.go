package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

func Test_Evolve_FoldsACartLifecycle(t *testing.T) {
	// arrange
	cartID := uuid.New()
	itemID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	history := core.DomainEvents{
		core.BuildCartCreated(cartID, now),
		core.BuildItemAdded(cartID, itemID, productID, "Allround Carving Skis", "skis.jpg", 299.90, now.Add(time.Minute)),
		core.BuildItemQuantityChanged(cartID, itemID, 2, now.Add(2*time.Minute)),
	}

	// act
	state := core.FoldCart(history)

	// assert
	assert.Equal(t, cartID.String(), state.CartID, "cart id should be set by CartCreated")
	assert.Len(t, state.Items, 1, "cart should hold one item")
	assert.Equal(t, productID.String(), state.Items[itemID.String()].ProductID)
	assert.Equal(t, 2, state.Items[itemID.String()].Quantity, "quantity should follow ItemQuantityChanged")
	assert.False(t, state.Submitted)
}

func Test_Evolve_ItemRemovedAndArchivedDeleteTheItem(t *testing.T) {
	cartID := uuid.New()
	itemID1 := uuid.New()
	itemID2 := uuid.New()
	productID := uuid.New()
	now := time.Now()

	history := core.DomainEvents{
		core.BuildCartCreated(cartID, now),
		core.BuildItemAdded(cartID, itemID1, productID, "desc", "img", 10, now),
		core.BuildItemAdded(cartID, itemID2, productID, "desc", "img", 10, now),
		core.BuildItemRemoved(cartID, itemID1, now),
		core.BuildItemArchived(cartID, itemID2.String(), now),
	}

	state := core.FoldCart(history)

	assert.Empty(t, state.Items, "both items should be gone")
}

func Test_Evolve_CartClearedEmptiesTheCart(t *testing.T) {
	cartID := uuid.New()
	now := time.Now()

	history := core.DomainEvents{
		core.BuildCartCreated(cartID, now),
		core.BuildItemAdded(cartID, uuid.New(), uuid.New(), "desc", "img", 10, now),
		core.BuildItemAdded(cartID, uuid.New(), uuid.New(), "desc", "img", 20, now),
		core.BuildCartCleared(cartID, now),
	}

	state := core.FoldCart(history)

	assert.Empty(t, state.Items)
	assert.Equal(t, cartID.String(), state.CartID, "clearing does not delete the cart itself")
}

func Test_Evolve_CartSubmittedCapturesOrderAndFlags(t *testing.T) {
	cartID := uuid.New()
	productID := uuid.New()
	now := time.Now()
	ordered := []core.OrderedProduct{{ProductID: productID.String(), Price: 15, Quantity: 2}}

	history := core.DomainEvents{
		core.BuildCartCreated(cartID, now),
		core.BuildCartSubmitted(cartID, ordered, 30, now),
	}

	state := core.FoldCart(history)

	assert.True(t, state.Submitted)
	assert.Equal(t, ordered, state.OrderedProducts)
	assert.InDelta(t, 30.0, state.TotalPrice, 0.001)
}

func Test_Evolve_TerminalPublicationEvents(t *testing.T) {
	cartID := uuid.New()
	now := time.Now()

	published := core.FoldCart(core.DomainEvents{
		core.BuildCartCreated(cartID, now),
		core.BuildCartPublished(cartID, now),
	})
	assert.True(t, published.Published)

	failed := core.FoldCart(core.DomainEvents{
		core.BuildCartCreated(cartID, now),
		core.BuildCartPublicationFailed(cartID, "downstream unavailable", now),
	})
	assert.True(t, failed.PublicationFailed)
}

func Test_Evolve_IgnoresEventsOfOtherConcerns(t *testing.T) {
	cartID := uuid.New()
	now := time.Now()

	history := core.DomainEvents{
		core.BuildCartCreated(cartID, now),
		core.BuildInventoryChanged(uuid.New().String(), 5, now),
		core.BuildPriceChanged(uuid.New(), 10, 12, now),
	}

	state := core.FoldCart(history)

	assert.Equal(t, cartID.String(), state.CartID)
	assert.Empty(t, state.Items)
}

func Test_Evolve_DoesNotMutateItsInput(t *testing.T) {
	cartID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	before := core.FoldCart(core.DomainEvents{
		core.BuildCartCreated(cartID, now),
		core.BuildItemAdded(cartID, itemID, uuid.New(), "desc", "img", 10, now),
	})

	_ = core.Evolve(before, core.BuildItemRemoved(cartID, itemID, now))

	assert.Len(t, before.Items, 1, "evolving must not mutate the previous state")
}
