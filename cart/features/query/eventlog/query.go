package eventlog

import (
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

const (
	queryType = "EventLog"
)

// Query represents the intent to inspect the raw event log, optionally only
// the part after a known position.
type Query struct {
	AfterPosition eventstore.Position
}

// BuildQuery creates a new Query reading the whole log from the beginning.
func BuildQuery() Query {
	return Query{}
}

// BuildQueryAfterPosition creates a new Query reading only events stored
// after the given position.
func BuildQueryAfterPosition(afterPosition eventstore.Position) Query {
	return Query{
		AfterPosition: afterPosition,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
