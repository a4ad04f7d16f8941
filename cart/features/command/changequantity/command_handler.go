package changequantity

import (
	"context"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// CommandHandler orchestrates the complete command processing workflow:
// Read -> Unmarshal -> Decide -> Append, with retry on concurrency conflicts.
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

	result := Decide(history, command)

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
