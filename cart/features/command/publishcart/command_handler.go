package publishcart

import (
	"context"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// CommandHandler orchestrates the publish workflow. The side effect runs
// before validation: the cart content is handed to the publisher first, and
// any failure - including a cart that turns out not to be publishable - is
// recorded as a CartPublicationFailed event rather than returned as an error.
type CommandHandler struct {
	eventStore   shell.EventStore
	publisher    shell.MessagePublisher
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
func NewCommandHandler(
	eventStore shell.EventStore,
	publisher shell.MessagePublisher,
	opts ...Option,
) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		publisher:  publisher,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow with retry logic.
// Only infrastructure errors surface to the caller; business failures end up
// in the event history.
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

	state := core.FoldCart(history)

	publishErr := h.publisher.Publish(ctx, shell.PublishableCart{
		CartID:          command.CartID.String(),
		OrderedProducts: state.OrderedProducts,
		TotalPrice:      state.TotalPrice,
	})

	result := Decide(history, command, publishErr)

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
