package eventstore

import (
	"errors"
)

// Position is the type for the globally unique, strictly increasing log
// position assigned by the store at append time. It is the sole ordering
// authority for events.
type Position = uint64

var (
	// ErrConcurrencyConflict is returned by Append when the append condition is
	// violated, i.e. an event matching the condition's filter was stored above
	// the condition's last seen position. It is an expected, recoverable
	// outcome: callers must re-read and retry the decision.
	ErrConcurrencyConflict = errors.New("concurrency conflict, append condition violated")

	// ErrNoEventsToAppend is returned when Append is called without events.
	ErrNoEventsToAppend = errors.New("no events supplied to append")

	// ErrNilDatabaseConnection is returned when a nil database handle is supplied.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyEventsTableName is returned when an empty events table name is supplied.
	ErrEmptyEventsTableName = errors.New("empty events table name supplied")

	// ErrBuildingQueryFailed is returned when SQL generation fails.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrQueryingEventsFailed is returned when the read query fails to execute.
	ErrQueryingEventsFailed = errors.New("querying events failed")

	// ErrScanningDBRowFailed is returned when a result row cannot be scanned.
	ErrScanningDBRowFailed = errors.New("scanning database row failed")

	// ErrAppendingEventFailed is returned when the append statement fails to execute.
	ErrAppendingEventFailed = errors.New("appending events failed")

	// ErrBuildingSequencedEventFailed is returned when a stored row cannot be
	// converted back into a SequencedEvent.
	ErrBuildingSequencedEventFailed = errors.New("building sequenced event from database row failed")

	// ErrExtractingKeysFailed is returned by Append when the configured KeyRules
	// cannot derive the boundary keys from an event's payload.
	ErrExtractingKeysFailed = errors.New("extracting boundary keys from event payload failed")
)
