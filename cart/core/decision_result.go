package core

// DecisionResult represents the outcome of a business decision in a Decide function.
// This enables type-safe, functional programming style decision modeling.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory methods:
// IdempotentDecision(), SuccessDecision(events...), or RejectedDecision(rejection).
// Do not construct DecisionResult directly to ensure type safety.
type DecisionResult struct {
	Outcome   string       // "idempotent", "success", or "rejected"
	Events    DomainEvents // nil for idempotent and rejected decisions
	Rejection *Rejection
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	rejectedOutcome   = "rejected"
)

// IdempotentDecision creates a DecisionResult indicating no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{
		Outcome: idempotentOutcome,
	}
}

// SuccessDecision creates a DecisionResult with one or more events to append.
// The events are appended atomically in the given order.
func SuccessDecision(events ...DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Events:  events,
	}
}

// RejectedDecision creates a DecisionResult indicating a business rule violation.
// Nothing is appended; the rejection travels back to the caller as an error.
func RejectedDecision(rejection Rejection) DecisionResult {
	return DecisionResult{
		Outcome:   rejectedOutcome,
		Rejection: &rejection,
	}
}

// HasEventsToAppend returns true if there are events to append to the event store.
func (r DecisionResult) HasEventsToAppend() bool {
	return r.Outcome == successOutcome && len(r.Events) > 0
}

// HasRejection returns the rejection as an error if there is one, otherwise nil.
func (r DecisionResult) HasRejection() error {
	if r.Outcome == rejectedOutcome {
		return *r.Rejection
	}

	return nil
}
