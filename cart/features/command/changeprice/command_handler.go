package changeprice

import (
	"context"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
)

// CommandHandler records external price changes. Like inventory changes this
// is a translation of a fact that already happened, appended blind.
type CommandHandler struct {
	eventStore shell.EventStore
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore) CommandHandler {
	return CommandHandler{eventStore: eventStore}
}

// Handle appends the PriceChanged event without reading first.
func (h CommandHandler) Handle(ctx context.Context, command Command) error {
	event := core.BuildPriceChanged(command.ProductID, command.OldPrice, command.NewPrice, command.OccurredAt)

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
