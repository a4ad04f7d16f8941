package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple SequencedEvents to DomainEvents.
func DomainEventsFrom(sequencedEvents eventstore.SequencedEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(sequencedEvents))

	for _, sequencedEvent := range sequencedEvents {
		domainEvent, err := DomainEventFrom(sequencedEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a SequencedEvent to its corresponding DomainEvent.
//
//nolint:gocyclo // one case per event type
func DomainEventFrom(sequencedEvent eventstore.SequencedEvent) (core.DomainEvent, error) {
	switch sequencedEvent.EventType {
	case core.CartCreatedEventType:
		return unmarshalPayload[core.CartCreated](sequencedEvent.PayloadJSON)

	case core.ItemAddedEventType:
		return unmarshalPayload[core.ItemAdded](sequencedEvent.PayloadJSON)

	case core.ItemRemovedEventType:
		return unmarshalPayload[core.ItemRemoved](sequencedEvent.PayloadJSON)

	case core.ItemArchivedEventType:
		return unmarshalPayload[core.ItemArchived](sequencedEvent.PayloadJSON)

	case core.ItemQuantityChangedEventType:
		return unmarshalPayload[core.ItemQuantityChanged](sequencedEvent.PayloadJSON)

	case core.CartSubmittedEventType:
		return unmarshalPayload[core.CartSubmitted](sequencedEvent.PayloadJSON)

	case core.CartClearedEventType:
		return unmarshalPayload[core.CartCleared](sequencedEvent.PayloadJSON)

	case core.CartPublishedEventType:
		return unmarshalPayload[core.CartPublished](sequencedEvent.PayloadJSON)

	case core.CartPublicationFailedEventType:
		return unmarshalPayload[core.CartPublicationFailed](sequencedEvent.PayloadJSON)

	case core.InventoryChangedEventType:
		return unmarshalPayload[core.InventoryChanged](sequencedEvent.PayloadJSON)

	case core.PriceChangedEventType:
		return unmarshalPayload[core.PriceChanged](sequencedEvent.PayloadJSON)

	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
	}
}

func unmarshalPayload[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(E)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload)
	if err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}
