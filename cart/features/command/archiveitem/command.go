package archiveitem

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

const (
	commandType = "ArchiveItem"
)

// Command represents the intent to archive all cart lines of one product in
// one cart, typically because the product's price changed after it was added.
type Command struct {
	CartID     uuid.UUID
	ProductID  uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(cartID uuid.UUID, productID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		CartID:     cartID,
		ProductID:  productID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
