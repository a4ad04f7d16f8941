package changequantity

import (
	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// Decide implements the business logic for changing an item's quantity.
// Pure function, no side effects.
//
// Business Rules:
//
//	GIVEN: A cart with CartID holding the item
//	WHEN: ChangeItemQuantity command is received
//	THEN: ItemQuantityChanged event is generated
//	REJECTION: ItemNotFound if the item is not an active item of the cart
//	IDEMPOTENCY: If the item already has the requested quantity, no event is
//	             generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	state := core.FoldCart(history)

	line, ok := state.Items[command.ItemID.String()]
	if !ok {
		return core.RejectedDecision(core.Rejection{
			Kind:   core.ItemNotFound,
			CartID: command.CartID.String(),
			ItemID: command.ItemID.String(),
		})
	}

	if line.Quantity == command.Quantity {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildItemQuantityChanged(command.CartID, command.ItemID, command.Quantity, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying the events that determine
// item membership and current quantities within the cart's boundary.
func BuildEventFilter(cartID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CartCreatedEventType,
			core.ItemAddedEventType,
			core.ItemRemovedEventType,
			core.ItemArchivedEventType,
			core.ItemQuantityChangedEventType,
			core.CartClearedEventType,
		).
		AndAnyKeyOf(
			eventstore.K(shell.CartKey, cartID.String()),
		).
		Finalize()
}
