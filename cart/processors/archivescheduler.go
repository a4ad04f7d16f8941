package processors

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/command/archiveitem"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/query/cartswithproducts"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/features/query/changedprices"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
)

const processorTypeArchiveScheduler = "ArchiveScheduler"

// ArchiveScheduler archives stale cart lines after price changes: it
// projects the products whose price changed and the carts currently holding
// them, and invokes the archive command for every affected (cart, product)
// pair. Runs are single-flight.
type ArchiveScheduler struct {
	pricesHandler  changedprices.QueryHandler
	cartsHandler   cartswithproducts.QueryHandler
	commandHandler archiveitem.CommandHandler
	guard          *SingleFlight
	logger         shell.Logger
	metrics        shell.MetricsCollector
}

// ArchiveSchedulerOption configures an ArchiveScheduler.
type ArchiveSchedulerOption func(*ArchiveScheduler)

// WithArchiveSchedulerLogger sets the logger for the ArchiveScheduler.
func WithArchiveSchedulerLogger(logger shell.Logger) ArchiveSchedulerOption {
	return func(p *ArchiveScheduler) {
		p.logger = logger
	}
}

// WithArchiveSchedulerMetrics sets the metrics collector for the ArchiveScheduler.
func WithArchiveSchedulerMetrics(collector shell.MetricsCollector) ArchiveSchedulerOption {
	return func(p *ArchiveScheduler) {
		p.metrics = collector
	}
}

// NewArchiveScheduler creates an ArchiveScheduler working on the given event store.
func NewArchiveScheduler(eventStore shell.EventStore, opts ...ArchiveSchedulerOption) *ArchiveScheduler {
	p := &ArchiveScheduler{
		pricesHandler:  changedprices.NewQueryHandler(eventStore),
		cartsHandler:   cartswithproducts.NewQueryHandler(eventStore),
		commandHandler: archiveitem.NewCommandHandler(eventStore),
		guard:          NewSingleFlight(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes one processor pass. It returns immediately when a pass is
// already in flight.
func (p *ArchiveScheduler) Run(ctx context.Context) error {
	ran, err := p.guard.TryRun(ctx, p.archiveAffectedItems)
	if !ran {
		p.recordSkippedRun()
		return nil
	}

	return err
}

func (p *ArchiveScheduler) archiveAffectedItems(ctx context.Context) error {
	runStart := time.Now()

	prices, err := p.pricesHandler.Handle(ctx)
	if err != nil {
		p.recordRun(shell.StatusError, time.Since(runStart))
		return err
	}

	if prices.Count == 0 {
		p.recordRun(shell.StatusSuccess, time.Since(runStart))
		return nil
	}

	pairs, err := p.cartsHandler.Handle(ctx)
	if err != nil {
		p.recordRun(shell.StatusError, time.Since(runStart))
		return err
	}

	var errs []error

	affected := 0

	for _, pair := range pairs.Pairs {
		if _, changed := prices.Prices[pair.ProductID]; !changed {
			continue
		}

		affected++

		cartID, cartErr := uuid.Parse(pair.CartID)
		productID, productErr := uuid.Parse(pair.ProductID)

		if parseErr := errors.Join(cartErr, productErr); parseErr != nil {
			errs = append(errs, parseErr)
			continue
		}

		command := archiveitem.BuildCommand(cartID, productID, time.Now())
		if handleErr := p.commandHandler.Handle(ctx, command); handleErr != nil {
			errs = append(errs, handleErr)
		}
	}

	if p.logger != nil {
		p.logger.Info("archive scheduler run",
			"processor", processorTypeArchiveScheduler,
			"changed_prices", prices.Count,
			"affected_pairs", affected,
		)
	}

	status := shell.StatusSuccess
	if len(errs) > 0 {
		status = shell.StatusError
	}

	p.recordRun(status, time.Since(runStart))

	return errors.Join(errs...)
}

func (p *ArchiveScheduler) recordRun(status string, duration time.Duration) {
	if p.metrics == nil {
		return
	}

	labels := map[string]string{"processor": processorTypeArchiveScheduler, shell.LogAttrStatus: status}
	p.metrics.RecordDuration(shell.ProcessorRunDurationMetric, duration, labels)
	p.metrics.IncrementCounter(shell.ProcessorRunsMetric, labels)
}

func (p *ArchiveScheduler) recordSkippedRun() {
	if p.metrics == nil {
		return
	}

	p.metrics.IncrementCounter(shell.ProcessorSkippedRunsMetric, map[string]string{
		"processor": processorTypeArchiveScheduler,
	})
}
