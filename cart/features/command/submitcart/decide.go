package submitcart

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// Decide implements the business logic for submitting a cart as an order.
// Pure function, no side effects. The inventories map carries the current
// stock count per product id, projected from InventoryChanged events.
//
// Business Rules (checked in this order):
//
//	GIVEN: A cart with CartID and the current inventory per product
//	WHEN: SubmitCart command is received
//	THEN: CartSubmitted event is generated with the ordered products and the
//	      total price, followed by one InventoryChanged decrement per unit
//	      consumed
//	REJECTION: OutOfStock if any product's stock is below the units in the cart
//	REJECTION: EmptyCart if the cart holds no items
//	REJECTION: AlreadySubmitted if the cart was submitted before
func Decide(
	history core.DomainEvents,
	inventories map[core.ProductIDString]int,
	command Command,
) core.DecisionResult {
	state := core.FoldCart(history)

	unitsPerProduct := requiredUnitsPerProduct(state)

	for _, productID := range sortedProductIDs(unitsPerProduct) {
		if inventories[productID] < unitsPerProduct[productID] {
			return core.RejectedDecision(core.Rejection{
				Kind:      core.OutOfStock,
				CartID:    command.CartID.String(),
				ProductID: productID,
			})
		}
	}

	if len(state.Items) == 0 {
		return core.RejectedDecision(core.Rejection{
			Kind:   core.EmptyCart,
			CartID: command.CartID.String(),
		})
	}

	if state.Submitted {
		return core.RejectedDecision(core.Rejection{
			Kind:   core.AlreadySubmitted,
			CartID: command.CartID.String(),
		})
	}

	orderedProducts, totalPrice := buildOrder(state)

	events := core.DomainEvents{
		core.BuildCartSubmitted(command.CartID, orderedProducts, totalPrice, command.OccurredAt),
	}

	// One decrement per unit consumed, each carrying the absolute new count.
	for _, productID := range sortedProductIDs(unitsPerProduct) {
		remaining := inventories[productID]
		for unit := 0; unit < unitsPerProduct[productID]; unit++ {
			remaining--
			events = append(events, core.BuildInventoryChanged(productID, remaining, command.OccurredAt))
		}
	}

	return core.SuccessDecision(events...)
}

// requiredUnitsPerProduct sums the quantities of all cart lines per product.
// The same product may appear in several lines.
func requiredUnitsPerProduct(state core.CartState) map[core.ProductIDString]int {
	units := map[core.ProductIDString]int{}
	for _, line := range state.Items {
		units[line.ProductID] += line.Quantity
	}

	return units
}

// buildOrder flattens the cart lines into ordered products, sorted by product
// id so the emitted event is deterministic.
func buildOrder(state core.CartState) ([]core.OrderedProduct, core.PriceFloat) {
	itemIDs := make([]core.ItemIDString, 0, len(state.Items))
	for itemID := range state.Items {
		itemIDs = append(itemIDs, itemID)
	}

	slices.SortFunc(itemIDs, func(a, b core.ItemIDString) int {
		if state.Items[a].ProductID != state.Items[b].ProductID {
			return strings.Compare(state.Items[a].ProductID, state.Items[b].ProductID)
		}

		return strings.Compare(a, b)
	})

	var totalPrice core.PriceFloat

	orderedProducts := make([]core.OrderedProduct, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		line := state.Items[itemID]
		orderedProducts = append(orderedProducts, core.OrderedProduct{
			ProductID: line.ProductID,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
		totalPrice += line.Price * core.PriceFloat(line.Quantity)
	}

	return orderedProducts, totalPrice
}

func sortedProductIDs(units map[core.ProductIDString]int) []core.ProductIDString {
	productIDs := make([]core.ProductIDString, 0, len(units))
	for productID := range units {
		productIDs = append(productIDs, productID)
	}

	slices.Sort(productIDs)

	return productIDs
}

// BuildEventFilter creates the filter for querying all events within the
// cart's consistency boundary which are relevant for submission.
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

// BuildInventoryFilter creates the filter for querying the InventoryChanged
// events of the given products.
func BuildInventoryFilter(productIDs []core.ProductIDString) eventstore.Filter {
	predicates := make([]eventstore.KeyPredicate, 0, len(productIDs))
	for _, productID := range productIDs {
		predicates = append(predicates, eventstore.K(shell.ProductKey, productID))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.InventoryChangedEventType).
		AndAnyKeyOf(predicates[0], predicates[1:]...).
		Finalize()
}
