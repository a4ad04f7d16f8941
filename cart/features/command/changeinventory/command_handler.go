package changeinventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
)

// CommandHandler records external inventory changes. This is a translation:
// the fact has already happened outside the system, so there is nothing to
// decide and no condition to check - the event is appended blind.
type CommandHandler struct {
	eventStore shell.EventStore
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore) CommandHandler {
	return CommandHandler{eventStore: eventStore}
}

// Handle appends the InventoryChanged event without reading first.
// Blind appends cannot conflict, so no retry is needed.
func (h CommandHandler) Handle(ctx context.Context, command Command) error {
	event := core.BuildInventoryChanged(command.ProductID.String(), command.Inventory, command.OccurredAt)

	uid := uuid.New()
	eventMetadata := shell.BuildEventMetadata(uid, uid, uid)

	storableEvent, err := shell.StorableEventFrom(event, eventMetadata)
	if err != nil {
		return err
	}

	if _, appendErr := h.eventStore.Append(ctx, nil, storableEvent); appendErr != nil {
		return appendErr
	}

	return nil
}
