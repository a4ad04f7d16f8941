package submitcart

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// CommandHandler orchestrates the complete command processing workflow:
// Read -> Unmarshal -> Decide -> Append, with retry on concurrency conflicts.
//
// Submission reads two boundaries: the cart's own history, whose append
// condition guards the write, and the InventoryChanged events of the products
// in the cart, which feed the stock check. The inventory decrements are
// appended in the same atomic write as CartSubmitted.
type CommandHandler struct {
	eventStore   shell.EventStore
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow with retry logic.
func (h CommandHandler) Handle(ctx context.Context, command Command) error {
	return shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.executeCommand(retryCtx, command)
	}, h.retryOptions...)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) error {
	filter := BuildEventFilter(command.CartID)

	ctx = eventstore.WithStrongConsistency(ctx)

	sequencedEvents, appendCondition, err := h.eventStore.Read(ctx, filter)
	if err != nil {
		return err
	}

	history, err := shell.DomainEventsFrom(sequencedEvents)
	if err != nil {
		return err
	}

	inventories, err := h.readInventories(ctx, core.FoldCart(history))
	if err != nil {
		return err
	}

	result := Decide(history, inventories, command)

	if rejection := result.HasRejection(); rejection != nil {
		return rejection
	}

	if !result.HasEventsToAppend() {
		return nil
	}

	uid := uuid.New()
	eventMetadata := shell.BuildEventMetadata(uid, uid, uid)

	storableEvents, marshalErr := shell.StorableEventsFrom(result.Events, eventMetadata)
	if marshalErr != nil {
		return marshalErr
	}

	if _, appendErr := h.eventStore.Append(ctx, &appendCondition, storableEvents...); appendErr != nil {
		return appendErr
	}

	return nil
}

// readInventories projects the current stock per product for the products in
// the cart, last write wins. Products without any InventoryChanged event have
// a stock of zero.
func (h CommandHandler) readInventories(
	ctx context.Context,
	state core.CartState,
) (map[core.ProductIDString]int, error) {
	productIDs := make([]core.ProductIDString, 0, len(state.Items))
	for _, line := range state.Items {
		if !slices.Contains(productIDs, line.ProductID) {
			productIDs = append(productIDs, line.ProductID)
		}
	}

	inventories := map[core.ProductIDString]int{}
	if len(productIDs) == 0 {
		return inventories, nil
	}

	sequencedEvents, _, err := h.eventStore.Read(ctx, BuildInventoryFilter(productIDs))
	if err != nil {
		return nil, err
	}

	inventoryEvents, err := shell.DomainEventsFrom(sequencedEvents)
	if err != nil {
		return nil, err
	}

	for _, event := range inventoryEvents {
		if changed, ok := event.(core.InventoryChanged); ok {
			inventories[changed.ProductID] = changed.Inventory
		}
	}

	return inventories, nil
}
