package submittedcarts_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/query/submittedcarts"
)

func Test_Project_ListsSubmittedCart_WithOrderContent(t *testing.T) {
	// arrange
	cartID := uuid.New()
	productID := uuid.New().String()
	now := time.Now()

	events := []core.DomainEvent{
		core.BuildCartSubmitted(
			cartID,
			[]core.OrderedProduct{{ProductID: productID, Price: 12.50, Quantity: 2}},
			25.00,
			now.Add(-1*time.Hour),
		),
	}

	// act
	result := submittedcarts.ProjectSubmittedCarts(events)

	// assert
	require.Equal(t, 1, result.Count)
	assert.Equal(t, cartID.String(), result.Carts[0].CartID)
	require.Len(t, result.Carts[0].OrderedProducts, 1)
	assert.Equal(t, productID, result.Carts[0].OrderedProducts[0].ProductID)
	assert.InDelta(t, 25.00, result.Carts[0].TotalPrice, 0.001)
}

func Test_Project_RemovesCart_WhenPublished(t *testing.T) {
	// arrange
	cartID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenCartSubmitted(t, cartID, now.Add(-2*time.Hour)),
		core.BuildCartPublished(cartID, now.Add(-1*time.Hour)),
	}

	// act
	result := submittedcarts.ProjectSubmittedCarts(events)

	// assert
	assert.Empty(t, result.Carts)
}

func Test_Project_RemovesCart_WhenPublicationFailed(t *testing.T) {
	// arrange - failed publications are terminal, not retried by the queue
	cartID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenCartSubmitted(t, cartID, now.Add(-2*time.Hour)),
		core.BuildCartPublicationFailed(cartID, "broker unreachable", now.Add(-1*time.Hour)),
	}

	// act
	result := submittedcarts.ProjectSubmittedCarts(events)

	// assert
	assert.Empty(t, result.Carts)
}

func Test_Project_SortsBySubmissionTime_OldestFirst(t *testing.T) {
	// arrange
	firstCartID := uuid.New()
	secondCartID := uuid.New()
	now := time.Now()

	events := []core.DomainEvent{
		givenCartSubmitted(t, secondCartID, now.Add(-1*time.Hour)),
		givenCartSubmitted(t, firstCartID, now.Add(-2*time.Hour)),
	}

	// act
	result := submittedcarts.ProjectSubmittedCarts(events)

	// assert
	require.Equal(t, 2, result.Count)
	assert.Equal(t, firstCartID.String(), result.Carts[0].CartID)
	assert.Equal(t, secondCartID.String(), result.Carts[1].CartID)
}

func givenCartSubmitted(t *testing.T, cartID uuid.UUID, at time.Time) core.DomainEvent {
	t.Helper()

	return core.BuildCartSubmitted(
		cartID,
		[]core.OrderedProduct{{ProductID: uuid.New().String(), Price: 9.99, Quantity: 1}},
		9.99,
		at,
	)
}
