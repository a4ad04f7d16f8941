package removeitem

import (
	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// Decide implements the business logic to determine whether an item should be
// removed from a cart. Pure function, no side effects.
//
// Business Rules:
//
//	GIVEN: A cart with CartID
//	WHEN: RemoveItemFromCart command is received
//	THEN: ItemRemoved event is generated
//	REJECTION: ItemNotFound if the item is not an active item of the cart
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	state := core.FoldCart(history)

	if _, ok := state.Items[command.ItemID.String()]; !ok {
		return core.RejectedDecision(core.Rejection{
			Kind:   core.ItemNotFound,
			CartID: command.CartID.String(),
			ItemID: command.ItemID.String(),
		})
	}

	return core.SuccessDecision(
		core.BuildItemRemoved(command.CartID, command.ItemID, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying all events that determine
// item membership within the cart's consistency boundary.
func BuildEventFilter(cartID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CartCreatedEventType,
			core.ItemAddedEventType,
			core.ItemRemovedEventType,
			core.ItemArchivedEventType,
			core.CartClearedEventType,
		).
		AndAnyKeyOf(
			eventstore.K(shell.CartKey, cartID.String()),
		).
		Finalize()
}
