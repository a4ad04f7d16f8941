package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
	jsoniter "github.com/json-iterator/go"
	_ "modernc.org/sqlite" // database driver

	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

const (
	defaultEventTableName = "events"
	dialectSQLite         = "sqlite3-returning"
	colPosition           = "position"
	colEventType          = "event_type"
	colOccurredAt         = "occurred_at"
	colPayload            = "payload"
	colMetadata           = "metadata"
	colKeys               = "keys"
	colOrdinal            = "ordinal"
	cteContext            = "context"
	cteVals               = "vals"
	aliasMaxPos           = "max_pos"

	// Fixed-width UTC timestamps keep lexicographic and chronological order
	// identical, which the occurred-at range predicates rely on.
	timeFormat = "2006-01-02T15:04:05.000000000Z"
)

// goqu's stock sqlite3 dialect refuses to emit RETURNING even though SQLite
// (>=3.35, as shipped by modernc.org/sqlite) supports it, so the engine uses a
// derived dialect that only differs in allowing the clause.
func init() {
	opts := sqlite3.DialectOptions()
	opts.SupportsReturn = true
	goqu.RegisterDialect(dialectSQLite, opts)
}

// EventStore is the SQLite implementation of the dynamic consistency boundary
// event store, backed by the modernc.org/sqlite driver. It shares the contract
// and conflict semantics of the PostgreSQL engine and suits single-process
// deployments, local development, and durable test setups.
type EventStore struct {
	db             *sql.DB
	eventTableName string
	keyRules       eventstore.KeyRules
	logger         eventstore.Logger
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithKeyRules sets the boundary key derivation rules for the EventStore.
func WithKeyRules(rules eventstore.KeyRules) Option {
	return func(es *EventStore) error {
		es.keyRules = rules
		return nil
	}
}

// WithLogger sets the logger for the EventStore.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// NewEventStore creates a new EventStore on an already opened sql.DB handle.
func NewEventStore(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
		keyRules:       eventstore.KeyRules{},
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Open opens (or creates) a SQLite event store at the given path, applies the
// connection pragmas suited for a single-writer event store, and ensures the
// schema exists.
func Open(path string, options ...Option) (*EventStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"

	db, openErr := sql.Open("sqlite", dsn)
	if openErr != nil {
		return nil, fmt.Errorf("open sqlite db: %w", openErr)
	}

	if pingErr := db.Ping(); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", pingErr)
	}

	es, err := NewEventStore(db, options...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if schemaErr := es.CreateSchema(context.Background()); schemaErr != nil {
		_ = db.Close()
		return nil, schemaErr
	}

	return es, nil
}

// Close closes the underlying database handle.
func (es *EventStore) Close() error {
	return es.db.Close()
}

// CreateSchema creates the events table and its indexes if they do not exist.
func (es *EventStore) CreateSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			%[2]s INTEGER PRIMARY KEY AUTOINCREMENT,
			%[3]s TEXT NOT NULL,
			%[4]s TEXT NOT NULL,
			%[5]s TEXT NOT NULL,
			%[6]s TEXT NOT NULL,
			%[7]s TEXT NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_event_type ON %[1]s(%[3]s);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_occurred_at ON %[1]s(%[4]s);`,
		es.eventTableName, colPosition, colEventType, colOccurredAt, colPayload, colMetadata, colKeys)

	if _, err := es.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create events schema: %w", err)
	}

	return nil
}

// Read retrieves all events matching the eventstore.Filter criteria, ordered
// by their global position, and captures the eventstore.AppendCondition for
// the consistency boundary the filter defines at the time of the read.
func (es *EventStore) Read(ctx context.Context, filter eventstore.Filter) (
	eventstore.SequencedEvents,
	eventstore.AppendCondition,
	error,
) {

	var empty eventstore.SequencedEvents
	var emptyCondition eventstore.AppendCondition

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		return empty, emptyCondition, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.QueryContext(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQuery(sqlQuery, duration)

	if queryErr != nil {
		return empty, emptyCondition, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(rows)

	eventStream := make(eventstore.SequencedEvents, 0)
	lastSeenPosition := eventstore.Position(0)

	for rows.Next() {
		var (
			position   eventstore.Position
			eventType  string
			occurredAt string
			payload    []byte
			metadata   []byte
			keysJSON   []byte
		)

		if scanErr := rows.Scan(&position, &eventType, &occurredAt, &payload, &metadata, &keysJSON); scanErr != nil {
			return empty, emptyCondition, errors.Join(eventstore.ErrScanningDBRowFailed, scanErr)
		}

		occurred, parseErr := time.Parse(timeFormat, occurredAt)
		if parseErr != nil {
			return empty, emptyCondition, errors.Join(eventstore.ErrBuildingSequencedEventFailed, parseErr)
		}

		keys, keysErr := keysFromJSON(keysJSON)
		if keysErr != nil {
			return empty, emptyCondition, errors.Join(eventstore.ErrBuildingSequencedEventFailed, keysErr)
		}

		event, buildErr := eventstore.BuildSequencedEvent(position, eventType, occurred, payload, metadata, keys)
		if buildErr != nil {
			return empty, emptyCondition, errors.Join(eventstore.ErrBuildingSequencedEventFailed, buildErr)
		}

		eventStream = append(eventStream, event)
		lastSeenPosition = position
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return empty, emptyCondition, errors.Join(eventstore.ErrQueryingEventsFailed, rowsErr)
	}

	return eventStream, eventstore.CaptureAppendCondition(filter, lastSeenPosition), nil
}

// Append attempts to append one or multiple events, deriving boundary keys
// from the configured key rules. With a non-nil condition the insert is
// guarded, returning eventstore.ErrConcurrencyConflict when the boundary
// advanced since the condition was captured. A nil condition appends
// unconditionally.
func (es *EventStore) Append(
	ctx context.Context,
	condition *eventstore.AppendCondition,
	events ...eventstore.StorableEvent,
) (eventstore.PositionRange, error) {

	var empty eventstore.PositionRange

	if len(events) == 0 {
		return empty, eventstore.ErrNoEventsToAppend
	}

	keysJSON, keysErr := es.deriveKeys(events)
	if keysErr != nil {
		return empty, keysErr
	}

	sqlQuery, buildQueryErr := es.buildInsertQuery(events, keysJSON, condition)
	if buildQueryErr != nil {
		return empty, buildQueryErr
	}

	start := time.Now()
	rows, execErr := es.db.QueryContext(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQuery(sqlQuery, duration)

	if execErr != nil {
		return empty, errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}
	defer es.closeRows(rows)

	positions := make([]eventstore.Position, 0, len(events))

	for rows.Next() {
		var position eventstore.Position
		if scanErr := rows.Scan(&position); scanErr != nil {
			return empty, errors.Join(eventstore.ErrAppendingEventFailed, scanErr)
		}

		positions = append(positions, position)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return empty, errors.Join(eventstore.ErrAppendingEventFailed, rowsErr)
	}

	if len(positions) < len(events) {
		if es.logger != nil {
			es.logger.Info("eventstore operation: concurrency conflict detected",
				"expected_events", len(events), "rows_inserted", len(positions))
		}

		return empty, eventstore.ErrConcurrencyConflict
	}

	return eventstore.PositionRange{From: positions[0], To: positions[len(positions)-1]}, nil
}

func (es *EventStore) deriveKeys(events eventstore.StorableEvents) ([]string, error) {
	keysJSON := make([]string, len(events))

	for i, event := range events {
		keys, err := es.keyRules.ExtractKeys(event.EventType, event.PayloadJSON)
		if err != nil {
			return nil, errors.Join(eventstore.ErrExtractingKeysFailed, err)
		}

		serialized, marshalErr := keysToJSON(keys)
		if marshalErr != nil {
			return nil, errors.Join(eventstore.ErrExtractingKeysFailed, marshalErr)
		}

		keysJSON[i] = serialized
	}

	return keysJSON, nil
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Select(colPosition, colEventType, colOccurredAt, colPayload, colMetadata, colKeys).
		Order(goqu.I(colPosition).Asc())

	selectStmt = es.addWhereClause(filter, selectStmt)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	keysJSON []string,
	condition *eventstore.AppendCondition,
) (string, error) {

	builder := goqu.Dialect(dialectSQLite)

	// One SELECT per event, UNION ALL'd; the ordinal keeps the insert order
	// and with it the position order stable.
	unionStatements := make([]*goqu.SelectDataset, len(events))
	for i, event := range events {
		unionStatements[i] = builder.
			Select(
				goqu.V(event.EventType).As(colEventType),
				goqu.V(event.OccurredAt.UTC().Format(timeFormat)).As(colOccurredAt),
				goqu.V(string(event.PayloadJSON)).As(colPayload),
				goqu.V(string(event.MetadataJSON)).As(colMetadata),
				goqu.V(keysJSON[i]).As(colKeys),
				goqu.V(i).As(colOrdinal),
			)
	}

	valuesStmt := unionStatements[0]
	for i := 1; i < len(unionStatements); i++ {
		valuesStmt = valuesStmt.UnionAll(unionStatements[i])
	}

	valsEventType := fmt.Sprintf("%s.%s", cteVals, colEventType)
	valsOccurredAt := fmt.Sprintf("%s.%s", cteVals, colOccurredAt)
	valsPayload := fmt.Sprintf("%s.%s", cteVals, colPayload)
	valsMetadata := fmt.Sprintf("%s.%s", cteVals, colMetadata)
	valsKeys := fmt.Sprintf("%s.%s", cteVals, colKeys)
	valsOrdinal := fmt.Sprintf("%s.%s", cteVals, colOrdinal)

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata, colKeys).
		With(cteVals, valuesStmt)

	if condition != nil {
		cteStmt := builder.
			From(es.eventTableName).
			Select(goqu.MAX(colPosition).As(aliasMaxPos))

		cteStmt = es.addWhereClause(condition.Filter(), cteStmt)

		insertStmt = insertStmt.
			With(cteContext, cteStmt).
			FromQuery(
				builder.From(cteContext, cteVals).
					Select(valsEventType, valsOccurredAt, valsPayload, valsMetadata, valsKeys).
					Where(goqu.COALESCE(goqu.C(aliasMaxPos), 0).Eq(goqu.V(condition.LastSeenPosition()))).
					Order(goqu.I(valsOrdinal).Asc()),
			)
	} else {
		insertStmt = insertStmt.
			FromQuery(
				builder.From(cteVals).
					Select(valsEventType, valsOccurredAt, valsPayload, valsMetadata, valsKeys).
					Order(goqu.I(valsOrdinal).Asc()),
			)
	}

	insertStmt = insertStmt.Returning(goqu.C(colPosition))

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	itemsExpressions := make([]goqu.Expression, 0)

	for _, item := range filter.Items() {
		eventTypeExpressions := make([]goqu.Expression, 0)
		predicateExpressions := make([]goqu.Expression, 0)

		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(
				eventTypeExpressions,
				goqu.Ex{colEventType: eventType},
			)
		}

		eventTypesExpressionList := goqu.Or(eventTypeExpressions...)

		for _, predicate := range item.Predicates() {
			predicateExpressions = append(
				predicateExpressions,
				goqu.L("json_extract(?, ?) = ?", goqu.C(colKeys), "$."+predicate.Name(), predicate.Val()),
			)
		}

		var predicatesExpressionList exp.ExpressionList

		if item.AllKeysMustMatch() {
			predicatesExpressionList = goqu.And(predicateExpressions...)
		} else {
			predicatesExpressionList = goqu.Or(predicateExpressions...)
		}

		itemsExpressions = append(
			itemsExpressions,
			goqu.And(eventTypesExpressionList, predicatesExpressionList),
		)
	}

	constraintExpressions := make([]goqu.Expression, 0)

	if !filter.OccurredFrom().IsZero() {
		constraintExpressions = append(
			constraintExpressions,
			goqu.C(colOccurredAt).Gte(filter.OccurredFrom().UTC().Format(timeFormat)),
		)
	}

	if !filter.OccurredUntil().IsZero() {
		constraintExpressions = append(
			constraintExpressions,
			goqu.C(colOccurredAt).Lte(filter.OccurredUntil().UTC().Format(timeFormat)),
		)
	}

	if filter.PositionHigherThan() > 0 {
		constraintExpressions = append(
			constraintExpressions,
			goqu.C(colPosition).Gt(filter.PositionHigherThan()),
		)
	}

	selectStmt = selectStmt.Where(
		goqu.And(
			goqu.Or(itemsExpressions...),
			goqu.And(constraintExpressions...),
		),
	)

	return selectStmt
}

func (es *EventStore) logQuery(sqlQuery string, duration time.Duration) {
	if es.logger != nil {
		es.logger.Debug("executed sql", "duration", duration.String(), "query", sqlQuery)
	}
}

func (es *EventStore) closeRows(rows *sql.Rows) {
	if closeErr := rows.Close(); closeErr != nil {
		if es.logger != nil {
			es.logger.Warn("failed to close database rows", "error", closeErr.Error())
		}
	}
}

func keysToJSON(keys eventstore.Keys) (string, error) {
	if len(keys) == 0 {
		return "{}", nil
	}

	asMap := make(map[string]string, len(keys))
	for _, key := range keys {
		asMap[key.Name] = key.Value
	}

	serialized, err := jsoniter.ConfigFastest.Marshal(asMap)
	if err != nil {
		return "", err
	}

	return string(serialized), nil
}

func keysFromJSON(keysJSON []byte) (eventstore.Keys, error) {
	if len(keysJSON) == 0 {
		return nil, nil
	}

	asMap := make(map[string]string)
	if err := jsoniter.ConfigFastest.Unmarshal(keysJSON, &asMap); err != nil {
		return nil, err
	}

	if len(asMap) == 0 {
		return nil, nil
	}

	keys := make(eventstore.Keys, 0, len(asMap))
	for name, value := range asMap {
		keys = append(keys, eventstore.Key{Name: name, Value: value})
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })

	return keys, nil
}
