package core

import (
	"time"

	"github.com/google/uuid"
)

// ItemArchivedEventType is the event type identifier.
const ItemArchivedEventType = "ItemArchived"

// ItemArchived represents when an item is taken out of a cart because its
// product changed, e.g. after a price change.
type ItemArchived struct {
	CartID     CartIDString `json:"cartId"`
	ItemID     ItemIDString `json:"itemId"`
	OccurredAt OccurredAtTS `json:"occurredAt"`
}

// BuildItemArchived creates a new ItemArchived event. The item ID is resolved
// from projected state, so it is passed as a plain string.
func BuildItemArchived(cartID uuid.UUID, itemID ItemIDString, occurredAt time.Time) ItemArchived {
	return ItemArchived{
		CartID:     cartID.String(),
		ItemID:     itemID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemArchived) IsEventType() string {
	return ItemArchivedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemArchived) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsFailureEvent returns false since this event represents a successful operation.
func (e ItemArchived) IsFailureEvent() bool {
	return false
}
