package additem

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
)

const (
	commandType = "AddItemToCart"
)

// Command represents the intent to add a product to a shopping cart.
// ItemID identifies the new cart line; the same product can be added more
// than once under different item ids.
type Command struct {
	CartID      uuid.UUID
	ItemID      uuid.UUID
	ProductID   uuid.UUID
	Description string
	Image       string
	Price       core.PriceFloat
	OccurredAt  core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	cartID uuid.UUID,
	itemID uuid.UUID,
	productID uuid.UUID,
	description string,
	image string,
	price core.PriceFloat,
	occurredAt time.Time,
) Command {
	return Command{
		CartID:      cartID,
		ItemID:      itemID,
		ProductID:   productID,
		Description: description,
		Image:       image,
		Price:       price,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
