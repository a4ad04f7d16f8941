package changeprice

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

const (
	commandType = "ChangePrice"
)

// Command translates an external price change into the event history.
type Command struct {
	ProductID  uuid.UUID
	OldPrice   core.PriceFloat
	NewPrice   core.PriceFloat
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	productID uuid.UUID,
	oldPrice core.PriceFloat,
	newPrice core.PriceFloat,
	occurredAt time.Time,
) Command {
	return Command{
		ProductID:  productID,
		OldPrice:   oldPrice,
		NewPrice:   newPrice,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
