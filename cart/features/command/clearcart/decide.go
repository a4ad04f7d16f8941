package clearcart

import (
	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// Decide implements the business logic for clearing a cart. Pure function,
// no side effects.
//
// Business Rules:
//
//	GIVEN: A cart with CartID
//	WHEN: ClearCart command is received
//	THEN: CartCleared event is generated, regardless of how many items the
//	      cart currently holds
//	IDEMPOTENCY: If the cart does not exist, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	state := core.FoldCart(history)

	if state.CartID == "" {
		return core.IdempotentDecision() // nothing to clear without a cart
	}

	return core.SuccessDecision(
		core.BuildCartCleared(command.CartID, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying the events that establish
// whether the cart exists.
func BuildEventFilter(cartID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CartCreatedEventType,
			core.CartClearedEventType,
		).
		AndAnyKeyOf(
			eventstore.K(shell.CartKey, cartID.String()),
		).
		Finalize()
}
