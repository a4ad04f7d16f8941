package eventstore

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrKeyPathNotFound is returned when a key rule's path does not address a
	// field in the event payload.
	ErrKeyPathNotFound = errors.New("key rule path not found in event payload")

	// ErrKeyPathNotScalar is returned when a key rule's path addresses a
	// non-scalar field (object or array) in the event payload.
	ErrKeyPathNotScalar = errors.New("key rule path does not address a scalar field")

	// ErrDuplicateKeyName is returned when two rules for the same event type
	// share a key name.
	ErrDuplicateKeyName = errors.New("key rules for one event type must use distinct key names")
)

// KeyNameString is a type alias for the name of a boundary key, e.g. "cart".
type KeyNameString = string

// KeyValueString is a type alias for the value of a boundary key, e.g. a cart id.
type KeyValueString = string

// Key is one derived boundary key of a stored event. An event may carry zero,
// one, or several keys and can thus satisfy multiple independent consistency
// boundaries at once.
type Key struct {
	Name  KeyNameString
	Value KeyValueString
}

// Keys is an alias type for a slice of Key, ordered by the KeyRules that
// produced them.
type Keys = []Key

// KeyRule declares that events of some type carry a boundary key Name whose
// value is found at Path inside the event payload. Path segments are separated
// by dots for nested payloads.
type KeyRule struct {
	Name KeyNameString
	Path string
}

// KeyRules maps each event type to the key rules applicable to it. It is
// configuration, not code: adding a new consistency boundary is adding a table
// row, not a new code path. Event types without an entry produce no keys.
// The rules of one event type must use distinct key names: the SQL engines
// persist derived keys as a name-keyed JSON object and return them ordered by
// name on read.
type KeyRules map[string][]KeyRule

// ExtractKeys evaluates every rule applicable to the given event type against
// the payload and returns the resulting keys in rule order. Store engines call
// this at append time; the derived keys are persisted with the event.
func (r KeyRules) ExtractKeys(eventType string, payloadJSON []byte) (Keys, error) {
	rules, ok := r[eventType]
	if !ok {
		return nil, nil
	}

	keys := make(Keys, 0, len(rules))
	seenNames := make(map[KeyNameString]struct{}, len(rules))

	for _, rule := range rules {
		if _, seen := seenNames[rule.Name]; seen {
			return nil, fmt.Errorf("event type %q, key %q: %w", eventType, rule.Name, ErrDuplicateKeyName)
		}
		seenNames[rule.Name] = struct{}{}

		value, err := extractScalar(payloadJSON, rule.Path)
		if err != nil {
			return nil, fmt.Errorf("event type %q, key %q, path %q: %w", eventType, rule.Name, rule.Path, err)
		}

		keys = append(keys, Key{Name: rule.Name, Value: value})
	}

	return keys, nil
}

func extractScalar(payloadJSON []byte, path string) (string, error) {
	segments := strings.Split(path, ".")
	pathAny := make([]any, len(segments))
	for i, segment := range segments {
		pathAny[i] = segment
	}

	value := jsoniter.ConfigFastest.Get(payloadJSON, pathAny...)

	switch value.ValueType() {
	case jsoniter.StringValue, jsoniter.NumberValue, jsoniter.BoolValue:
		return value.ToString(), nil
	case jsoniter.InvalidValue, jsoniter.NilValue:
		return "", ErrKeyPathNotFound
	default:
		return "", ErrKeyPathNotScalar
	}
}
