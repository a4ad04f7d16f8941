package archiveitem

import (
	"slices"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// Decide implements the business logic for archiving a product's cart lines.
// Pure function, no side effects. There is no rejection path: archiving is an
// administrative correction, not a user decision.
//
// Business Rules:
//
//	GIVEN: A cart with CartID
//	WHEN: ArchiveItem command is received
//	THEN: One ItemArchived event is generated per active cart line holding the
//	      product
//	IDEMPOTENCY: If no active line holds the product, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	state := core.FoldCart(history)

	itemIDs := make([]core.ItemIDString, 0, len(state.Items))
	for itemID, line := range state.Items {
		if line.ProductID == command.ProductID.String() {
			itemIDs = append(itemIDs, itemID)
		}
	}

	if len(itemIDs) == 0 {
		return core.IdempotentDecision()
	}

	slices.Sort(itemIDs)

	events := make(core.DomainEvents, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		events = append(events, core.BuildItemArchived(command.CartID, itemID, command.OccurredAt))
	}

	return core.SuccessDecision(events...)
}

// BuildEventFilter creates the filter for querying the events that determine
// which active cart lines hold the product.
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
