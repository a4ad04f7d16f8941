package core

import (
	"maps"
)

// ItemLine is one active item of a cart as tracked by CartState.
type ItemLine struct {
	ProductID   ProductIDString
	Description string
	Image       string
	Price       PriceFloat
	Quantity    int
}

// CartState is the state of one shopping cart, folded from its event history.
// It is a value type: Evolve never mutates its input, it returns a new state.
type CartState struct {
	CartID            CartIDString
	Items             map[ItemIDString]ItemLine
	Submitted         bool
	Published         bool
	PublicationFailed bool
	OrderedProducts   []OrderedProduct
	TotalPrice        PriceFloat
}

// InitialCartState returns the state of a cart that does not exist yet.
func InitialCartState() CartState {
	return CartState{
		Items: map[ItemIDString]ItemLine{},
	}
}

// FoldCart folds a complete event history into a CartState, starting from the
// initial state.
func FoldCart(history DomainEvents) CartState {
	state := InitialCartState()
	for _, event := range history {
		state = Evolve(state, event)
	}

	return state
}

// Evolve applies a single event to the state and returns the new state.
// It is pure and total: events that do not concern the cart state, and event
// types unknown to this function, leave the state unchanged.
//
//nolint:gocognit // one case per event type
func Evolve(state CartState, event DomainEvent) CartState {
	switch e := event.(type) {
	case CartCreated:
		next := cloneState(state)
		next.CartID = e.CartID

		return next

	case ItemAdded:
		next := cloneState(state)
		next.Items[e.ItemID] = ItemLine{
			ProductID:   e.ProductID,
			Description: e.Description,
			Image:       e.Image,
			Price:       e.Price,
			Quantity:    1,
		}

		return next

	case ItemRemoved:
		next := cloneState(state)
		delete(next.Items, e.ItemID)

		return next

	case ItemArchived:
		next := cloneState(state)
		delete(next.Items, e.ItemID)

		return next

	case ItemQuantityChanged:
		next := cloneState(state)
		if line, ok := next.Items[e.ItemID]; ok {
			line.Quantity = e.Quantity
			next.Items[e.ItemID] = line
		}

		return next

	case CartCleared:
		next := cloneState(state)
		next.Items = map[ItemIDString]ItemLine{}

		return next

	case CartSubmitted:
		next := cloneState(state)
		next.Submitted = true
		next.OrderedProducts = e.OrderedProducts
		next.TotalPrice = e.TotalPrice

		return next

	case CartPublished:
		next := cloneState(state)
		next.Published = true

		return next

	case CartPublicationFailed:
		next := cloneState(state)
		next.PublicationFailed = true

		return next

	default:
		return state
	}
}

func cloneState(state CartState) CartState {
	next := state
	next.Items = maps.Clone(state.Items)
	if next.Items == nil {
		next.Items = map[ItemIDString]ItemLine{}
	}

	return next
}
