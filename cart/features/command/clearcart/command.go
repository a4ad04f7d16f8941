package clearcart

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

const (
	commandType = "ClearCart"
)

// Command represents the intent to remove all items from a shopping cart at once.
type Command struct {
	CartID     uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(cartID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		CartID:     cartID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
