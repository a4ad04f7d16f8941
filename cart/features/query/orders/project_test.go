package orders_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/query/orders"
)

func Test_Project_KeepsOrders_EvenAfterPublication(t *testing.T) {
	// arrange - publication outcome does not remove an order from history
	cartID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenCartSubmitted(t, cartID, 25.00, now.Add(-2*time.Hour)),
		core.BuildCartPublished(cartID, now.Add(-1*time.Hour)),
	}

	// act
	result := orders.ProjectOrders(events)

	// assert
	require.Equal(t, 1, result.Count)
	assert.Equal(t, cartID.String(), result.Orders[0].CartID)
	assert.InDelta(t, 25.00, result.Orders[0].TotalPrice, 0.001)
}

func Test_Project_SortsOrdersBySubmissionTime(t *testing.T) {
	// arrange
	firstCartID := uuid.New()
	secondCartID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenCartSubmitted(t, secondCartID, 10.00, now.Add(-1*time.Hour)),
		givenCartSubmitted(t, firstCartID, 20.00, now.Add(-3*time.Hour)),
	}

	// act
	result := orders.ProjectOrders(events)

	// assert
	require.Equal(t, 2, result.Count)
	assert.Equal(t, firstCartID.String(), result.Orders[0].CartID)
	assert.Equal(t, secondCartID.String(), result.Orders[1].CartID)
}

func Test_Project_ReturnsEmptyResult_WhenNothingWasSubmitted(t *testing.T) {
	// act
	result := orders.ProjectOrders(nil)

	// assert
	assert.Empty(t, result.Orders)
	assert.Equal(t, 0, result.Count)
}

func givenCartSubmitted(t *testing.T, cartID uuid.UUID, total core.PriceFloat, at time.Time) core.DomainEvent {
	t.Helper()

	return core.BuildCartSubmitted(
		cartID,
		[]core.OrderedProduct{{ProductID: uuid.New().String(), Price: total, Quantity: 1}},
		total,
		at,
	)
}
