package changequantity

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

const (
	commandType = "ChangeItemQuantity"
)

// Command represents the intent to change the quantity of an item in a cart.
type Command struct {
	CartID     uuid.UUID
	ItemID     uuid.UUID
	Quantity   int
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(cartID uuid.UUID, itemID uuid.UUID, quantity int, occurredAt time.Time) Command {
	return Command{
		CartID:     cartID,
		ItemID:     itemID,
		Quantity:   quantity,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
