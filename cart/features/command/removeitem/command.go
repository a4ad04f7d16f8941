package removeitem

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

const (
	commandType = "RemoveItemFromCart"
)

// Command represents the intent to remove an item from a shopping cart.
type Command struct {
	CartID     uuid.UUID
	ItemID     uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(cartID uuid.UUID, itemID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		CartID:     cartID,
		ItemID:     itemID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
