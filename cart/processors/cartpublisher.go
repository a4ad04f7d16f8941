package processors

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/command/publishcart"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/query/submittedcarts"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
)

const processorTypeCartPublisher = "CartPublisher"

// CartPublisher drains the queue of submitted-but-unpublished carts: it
// projects the queue and invokes the publish command for every entry. Runs
// are single-flight; a run overlapping a timer tick makes the tick a no-op.
//
// The processor is idempotent in effect: a cart that was published in the
// meantime ends up with a terminal CartPublicationFailed event and leaves the
// queue either way.
type CartPublisher struct {
	queryHandler   submittedcarts.QueryHandler
	commandHandler publishcart.CommandHandler
	guard          *SingleFlight
	logger         shell.Logger
	metrics        shell.MetricsCollector
}

// CartPublisherOption configures a CartPublisher.
type CartPublisherOption func(*CartPublisher)

// WithCartPublisherLogger sets the logger for the CartPublisher.
func WithCartPublisherLogger(logger shell.Logger) CartPublisherOption {
	return func(p *CartPublisher) {
		p.logger = logger
	}
}

// WithCartPublisherMetrics sets the metrics collector for the CartPublisher.
func WithCartPublisherMetrics(collector shell.MetricsCollector) CartPublisherOption {
	return func(p *CartPublisher) {
		p.metrics = collector
	}
}

// NewCartPublisher creates a CartPublisher working on the given event store
// and publishing through the given publisher.
func NewCartPublisher(
	eventStore shell.EventStore,
	publisher shell.MessagePublisher,
	opts ...CartPublisherOption,
) *CartPublisher {
	p := &CartPublisher{
		queryHandler:   submittedcarts.NewQueryHandler(eventStore),
		commandHandler: publishcart.NewCommandHandler(eventStore, publisher),
		guard:          NewSingleFlight(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes one processor pass. It returns immediately when a pass is
// already in flight. Callers invoke Run on whatever schedule suits them.
func (p *CartPublisher) Run(ctx context.Context) error {
	ran, err := p.guard.TryRun(ctx, p.publishPendingCarts)
	if !ran {
		p.recordSkippedRun()
		return nil
	}

	return err
}

func (p *CartPublisher) publishPendingCarts(ctx context.Context) error {
	runStart := time.Now()

	pending, err := p.queryHandler.Handle(ctx)
	if err != nil {
		p.recordRun(shell.StatusError, time.Since(runStart))
		return err
	}

	if p.logger != nil {
		p.logger.Info("cart publisher run",
			"processor", processorTypeCartPublisher,
			"pending_carts", pending.Count,
		)
	}

	var errs []error

	for _, cart := range pending.Carts {
		cartID, parseErr := uuid.Parse(cart.CartID)
		if parseErr != nil {
			if p.logger != nil {
				p.logger.Error("skipping cart with invalid id", "cart_id", cart.CartID, "error", parseErr.Error())
			}

			errs = append(errs, parseErr)

			continue
		}

		command := publishcart.BuildCommand(cartID, time.Now())
		if handleErr := p.commandHandler.Handle(ctx, command); handleErr != nil {
			errs = append(errs, handleErr)
		}
	}

	status := shell.StatusSuccess
	if len(errs) > 0 {
		status = shell.StatusError
	}

	p.recordRun(status, time.Since(runStart))

	return errors.Join(errs...)
}

func (p *CartPublisher) recordRun(status string, duration time.Duration) {
	if p.metrics == nil {
		return
	}

	labels := map[string]string{"processor": processorTypeCartPublisher, shell.LogAttrStatus: status}
	p.metrics.RecordDuration(shell.ProcessorRunDurationMetric, duration, labels)
	p.metrics.IncrementCounter(shell.ProcessorRunsMetric, labels)
}

func (p *CartPublisher) recordSkippedRun() {
	if p.metrics == nil {
		return
	}

	p.metrics.IncrementCounter(shell.ProcessorSkippedRunsMetric, map[string]string{"processor": processorTypeCartPublisher})
}
