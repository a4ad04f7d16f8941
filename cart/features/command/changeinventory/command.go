package changeinventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

const (
	commandType = "ChangeInventory"
)

// Command translates an external inventory count into the event history.
// Inventory carries the absolute new count, not a delta.
type Command struct {
	ProductID  uuid.UUID
	Inventory  int
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(productID uuid.UUID, inventory int, occurredAt time.Time) Command {
	return Command{
		ProductID:  productID,
		Inventory:  inventory,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
