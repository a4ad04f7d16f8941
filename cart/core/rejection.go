package core

import (
	"errors"
	"fmt"
)

// RejectionKind classifies why a decider refused a command.
type RejectionKind string

// The closed set of rejection kinds.
const (
	TooManyItems     RejectionKind = "TooManyItems"
	ItemNotFound     RejectionKind = "ItemNotFound"
	EmptyCart        RejectionKind = "EmptyCart"
	AlreadySubmitted RejectionKind = "AlreadySubmitted"
	OutOfStock       RejectionKind = "OutOfStock"
	NotSubmitted     RejectionKind = "NotSubmitted"
	AlreadyPublished RejectionKind = "AlreadyPublished"
)

// Rejection is a typed business rule violation returned by a decider.
// It is an expected outcome, distinct from infrastructure errors, and is
// never persisted to the event store.
type Rejection struct {
	Kind      RejectionKind
	CartID    CartIDString
	ItemID    ItemIDString
	ProductID ProductIDString
}

// Error implements the error interface so that rejections can travel through
// error returns without losing their type.
func (r Rejection) Error() string {
	switch {
	case r.ItemID != "":
		return fmt.Sprintf("%s: cart %s, item %s", r.Kind, r.CartID, r.ItemID)
	case r.ProductID != "":
		return fmt.Sprintf("%s: cart %s, product %s", r.Kind, r.CartID, r.ProductID)
	default:
		return fmt.Sprintf("%s: cart %s", r.Kind, r.CartID)
	}
}

// IsRejection reports whether err is a Rejection and returns it if so.
func IsRejection(err error) (Rejection, bool) {
	var rejection Rejection
	ok := errors.As(err, &rejection)

	return rejection, ok
}
