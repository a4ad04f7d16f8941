package eventstore

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")

// StorableEvents is an alias type for a slice of StorableEvent.
type StorableEvents = []StorableEvent

// StorableEvent is a DTO (data transfer object) used by the EventStore to append events.
//
// It is built on scalars to be completely agnostic of the implementation of Domain Events
// in the client code. Boundary keys are not part of it: they are derived by the store at
// append time from the configured KeyRules.
//
// While its properties are exported, it should only be constructed with the supplied
// factory methods:
//   - BuildStorableEvent
//   - BuildStorableEventWithEmptyMetadata
type StorableEvent struct {
	EventType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildStorableEvent is a factory method for StorableEvent.
//
// It populates the StorableEvent with the given scalar input.
// Returns an error if payloadJSON or metadataJSON are not valid JSON.
func BuildStorableEvent(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StorableEvent, error) {
	if !json.Valid(payloadJSON) {
		return StorableEvent{}, ErrInvalidPayloadJSON
	}

	if !json.Valid(metadataJSON) {
		return StorableEvent{}, ErrInvalidMetadataJSON
	}

	return StorableEvent{
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableEventWithEmptyMetadata is a factory method for StorableEvent.
//
// It populates the StorableEvent with the given scalar input and creates valid empty JSON
// for MetadataJSON. Returns an error if payloadJSON is not valid JSON.
func BuildStorableEventWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (StorableEvent, error) {
	return BuildStorableEvent(eventType, occurredAt, payloadJSON, []byte("{}"))
}

// SequencedEvents is an alias type for a slice of SequencedEvent.
type SequencedEvents = []SequencedEvent

// SequencedEvent is a stored event as returned by Read: the StorableEvent data
// plus the log position assigned at append time and the boundary keys derived
// from the KeyRules. Stored events are immutable and are never deleted.
type SequencedEvent struct {
	Position     Position
	EventType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
	Keys         Keys
}

// BuildSequencedEvent is a factory method for SequencedEvent, used by store engines
// when reading events back. Returns an error if payloadJSON or metadataJSON are not
// valid JSON.
func BuildSequencedEvent(
	position Position,
	eventType string,
	occurredAt time.Time,
	payloadJSON []byte,
	metadataJSON []byte,
	keys Keys,
) (SequencedEvent, error) {

	storable, err := BuildStorableEvent(eventType, occurredAt, payloadJSON, metadataJSON)
	if err != nil {
		return SequencedEvent{}, err
	}

	return SequencedEvent{
		Position:     position,
		EventType:    storable.EventType,
		OccurredAt:   storable.OccurredAt,
		PayloadJSON:  storable.PayloadJSON,
		MetadataJSON: storable.MetadataJSON,
		Keys:         keys,
	}, nil
}
