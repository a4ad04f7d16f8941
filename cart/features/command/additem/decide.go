package additem

import (
	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

const maxDistinctItemsPerCart = 3

// Decide implements the business logic to determine whether an item should be
// added to a cart. This is a pure function with no side effects - it takes the
// current domain events and a command and returns the events that should be
// appended based on the business rules.
//
// Business Rules:
//
//	GIVEN: A cart with CartID (which may not exist yet)
//	WHEN: AddItemToCart command is received
//	THEN: ItemAdded event is generated, preceded by CartCreated when this is
//	      the first event of the cart
//	REJECTION: TooManyItems if the cart already holds 3 distinct items
//	IDEMPOTENCY: If the item id is already in the cart, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	state := core.FoldCart(history)

	if _, ok := state.Items[command.ItemID.String()]; ok {
		return core.IdempotentDecision() // this exact item was already added
	}

	if len(state.Items) >= maxDistinctItemsPerCart {
		return core.RejectedDecision(core.Rejection{
			Kind:      core.TooManyItems,
			CartID:    command.CartID.String(),
			ProductID: command.ProductID.String(),
		})
	}

	itemAdded := core.BuildItemAdded(
		command.CartID,
		command.ItemID,
		command.ProductID,
		command.Description,
		command.Image,
		command.Price,
		command.OccurredAt,
	)

	if state.CartID == "" {
		return core.SuccessDecision(
			core.BuildCartCreated(command.CartID, command.OccurredAt),
			itemAdded,
		)
	}

	return core.SuccessDecision(itemAdded)
}

// BuildEventFilter creates the filter for querying all events within the
// cart's consistency boundary which are relevant for this feature/use-case.
func BuildEventFilter(cartID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CartCreatedEventType,
			core.ItemAddedEventType,
			core.ItemRemovedEventType,
			core.ItemArchivedEventType,
			core.ItemQuantityChangedEventType,
			core.CartSubmittedEventType,
			core.CartClearedEventType,
		).
		AndAnyKeyOf(
			eventstore.K(shell.CartKey, cartID.String()),
		).
		Finalize()
}
