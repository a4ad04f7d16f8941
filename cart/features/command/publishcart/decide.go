package publishcart

import (
	"github.com/google/uuid"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

const (
	failureReasonNotSubmitted     = "cart is not submitted"
	failureReasonAlreadyPublished = "cart is already published"
)

// Decide implements the business logic for recording the outcome of a publish
// attempt. Pure function, no side effects - the publish itself has already
// happened when this runs, its error (or nil) comes in as publishErr.
//
// Business Rules:
//
//	GIVEN: A cart with CartID and the outcome of the publish attempt
//	WHEN: PublishCart command is received
//	THEN: CartPublished event is generated
//	FAILURE: CartPublicationFailed is generated instead when the publish
//	         attempt errored, when the cart was never submitted, or when the
//	         cart is already published. Failures are recorded as events, the
//	         command itself never fails.
func Decide(history core.DomainEvents, command Command, publishErr error) core.DecisionResult {
	state := core.FoldCart(history)

	if publishErr != nil {
		return core.SuccessDecision(
			core.BuildCartPublicationFailed(command.CartID, publishErr.Error(), command.OccurredAt),
		)
	}

	if !state.Submitted {
		return core.SuccessDecision(
			core.BuildCartPublicationFailed(command.CartID, failureReasonNotSubmitted, command.OccurredAt),
		)
	}

	if state.Published {
		return core.SuccessDecision(
			core.BuildCartPublicationFailed(command.CartID, failureReasonAlreadyPublished, command.OccurredAt),
		)
	}

	return core.SuccessDecision(
		core.BuildCartPublished(command.CartID, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying the events that establish
// the cart's submission and publication status.
func BuildEventFilter(cartID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CartCreatedEventType,
			core.CartSubmittedEventType,
			core.CartPublishedEventType,
			core.CartPublicationFailedEventType,
		).
		AndAnyKeyOf(
			eventstore.K(shell.CartKey, cartID.String()),
		).
		Finalize()
}
