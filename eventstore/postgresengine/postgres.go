package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName           = "events"
	logMsgBuildSelectQueryFailed    = "failed to build select query"
	logMsgDBQueryFailed             = "database query execution failed"
	logMsgCloseRowsFailed           = "failed to close database rows"
	logMsgScanRowFailed             = "failed to scan database row"
	logMsgBuildSequencedEventFailed = "failed to build sequenced event from database row"
	logMsgBuildInsertQueryFailed    = "failed to build insert query"
	logMsgExtractKeysFailed         = "failed to derive boundary keys from event payload"
	logMsgDBExecFailed              = "database execution failed during event append"
	logMsgSingleEventSQLFailed      = "failed to convert single event insert statement to SQL"
	logMsgMultiEventSQLFailed       = "failed to convert multiple events insert statement to SQL"
	logMsgReadCompleted             = "read completed"
	logMsgEventsAppended            = "events appended"
	logMsgConcurrencyConflict       = "concurrency conflict detected"
	logMsgSQLExecuted               = "executed sql for: "
	logMsgOperation                 = "eventstore operation: "
	logAttrError                    = "error"
	logAttrQuery                    = "query"
	logAttrEventType                = "event_type"
	logAttrEventCount               = "event_count"
	logAttrDurationMS               = "duration_ms"
	logAttrExpectedEvents           = "expected_events"
	logAttrRowsInserted             = "rows_inserted"
	logAttrLastSeenPosition         = "last_seen_position"
	logActionRead                   = "read"
	logActionAppend                 = "append"
	colPosition                     = "position"
	colEventType                    = "event_type"
	colOccurredAt                   = "occurred_at"
	colPayload                      = "payload"
	colMetadata                     = "metadata"
	colKeys                         = "keys"
	colOrdinal                      = "ordinal"
	cteContext                      = "context"
	cteVals                         = "vals"
	dialectPostgres                 = "postgres"
	aliasMaxPos                     = "max_pos"
	castText                        = "?::text"
	castTimestamp                   = "?::timestamp with time zone"
	castJsonb                       = "?::jsonb"
	castInt                         = "?::int"
)

type (
	sqlQueryString = string
	queryDuration  = time.Duration
)

// EventStore is the PostgreSQL implementation of the dynamic consistency
// boundary event store. It leverages a database adapter and supports
// customizable key rules, logging, metrics, and tracing.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	keyRules         eventstore.KeyRules
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

type queryResultRow struct {
	position   eventstore.Position
	eventType  string
	occurredAt time.Time
	payload    []byte
	metadata   []byte
	keys       []byte
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates a new EventStore using a primary pgx Pool
// and a replica pool. Reads under eventual consistency are routed to the replica,
// everything else goes to the primary.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
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

// Read retrieves all events matching the eventstore.Filter criteria, ordered by
// their global position, and captures the eventstore.AppendCondition for the
// consistency boundary the filter defines at the time of the read.
//
// The returned condition carries the highest matching position, or zero if no
// event matched. Passing it to Append makes the append conditional on that
// boundary still being untouched.
func (es *EventStore) Read(ctx context.Context, filter eventstore.Filter) (
	eventstore.SequencedEvents,
	eventstore.AppendCondition,
	error,
) {

	var empty eventstore.SequencedEvents
	var emptyCondition eventstore.AppendCondition

	tracing, ctx := es.startReadTracing(ctx)
	metrics := es.startReadMetrics(ctx)

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		es.logError(logMsgBuildSelectQueryFailed, buildQueryErr)
		es.logErrorContext(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		tracing.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return empty, emptyCondition, buildQueryErr
	}

	rows, duration, queryErr := es.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		tracing.finishError(errorTypeDatabase, duration)
		metrics.recordError(errorTypeDatabase, duration)

		return empty, emptyCondition, queryErr
	}
	defer es.closeRows(rows)

	eventStream, lastSeenPosition, scanErr := es.processQueryResults(rows)
	if scanErr != nil {
		tracing.finishError(errorTypeScan, duration)
		metrics.recordError(errorTypeScan, duration)

		return empty, emptyCondition, scanErr
	}

	es.logOperation(
		logMsgReadCompleted,
		logAttrEventCount, len(eventStream),
		logAttrDurationMS, es.toMilliseconds(duration))
	es.logOperationContext(
		ctx,
		logMsgReadCompleted,
		logAttrEventCount, len(eventStream),
		logAttrDurationMS, es.toMilliseconds(duration))

	tracing.finishSuccess(eventStream, lastSeenPosition, duration)
	metrics.recordSuccess(eventStream, duration)

	return eventStream, eventstore.CaptureAppendCondition(filter, lastSeenPosition), nil
}

// Append attempts to append one or multiple eventstore.StorableEvent(s) onto the
// Postgres event store, deriving the boundary keys for each event from the
// configured eventstore.KeyRules.
//
// A non-nil condition makes the append conditional: it succeeds only if no event
// matching the condition's filter was stored above the condition's last seen
// position, otherwise eventstore.ErrConcurrencyConflict is returned and the
// caller must re-read and retry the decision. A nil condition appends
// unconditionally (a "blind append").
//
// On success, the contiguous range of positions assigned to the events is
// returned. The insert query to append multiple events atomically is heavier
// than the one built to append a single event; one decision should typically
// only produce one event.
func (es *EventStore) Append(
	ctx context.Context,
	condition *eventstore.AppendCondition,
	events ...eventstore.StorableEvent,
) (eventstore.PositionRange, error) {

	var empty eventstore.PositionRange

	if len(events) == 0 {
		return empty, eventstore.ErrNoEventsToAppend
	}

	tracing, ctx := es.startAppendTracing(ctx, events, condition)
	metrics := es.startAppendMetrics(ctx)

	keysJSON, keysErr := es.deriveKeys(events)
	if keysErr != nil {
		es.logError(logMsgExtractKeysFailed, keysErr)
		es.logErrorContext(ctx, logMsgExtractKeysFailed, keysErr)
		tracing.finishError(errorTypeKeyExtraction, 0)
		metrics.recordError(errorTypeKeyExtraction, 0)

		return empty, keysErr
	}

	sqlQuery, buildQueryErr := es.buildAppendQuery(events, keysJSON, condition)
	if buildQueryErr != nil {
		tracing.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return empty, buildQueryErr
	}

	positions, duration, execErr := es.executeAppendQuery(ctx, sqlQuery)
	if execErr != nil {
		tracing.finishError(errorTypeDatabase, duration)
		metrics.recordError(errorTypeDatabase, duration)

		return empty, execErr
	}

	if len(positions) < len(events) {
		var lastSeenPosition eventstore.Position
		if condition != nil {
			lastSeenPosition = condition.LastSeenPosition()
		}

		es.logOperation(
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(events),
			logAttrRowsInserted, len(positions),
			logAttrLastSeenPosition, lastSeenPosition,
		)
		es.logOperationContext(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(events),
			logAttrRowsInserted, len(positions),
			logAttrLastSeenPosition, lastSeenPosition,
		)

		metrics.recordConcurrencyConflict()
		metrics.recordError(errorTypeConcurrencyConflict, duration)
		tracing.finishErrorWithAttrs(errorTypeConcurrencyConflict, map[string]string{
			spanAttrExpectedEvents: fmt.Sprintf("%d", len(events)),
			spanAttrRowsInserted:   fmt.Sprintf("%d", len(positions)),
		})

		return empty, eventstore.ErrConcurrencyConflict
	}

	positionRange := eventstore.PositionRange{From: positions[0], To: positions[len(positions)-1]}

	es.logOperation(
		logMsgEventsAppended,
		logAttrEventCount, len(events),
		logAttrDurationMS, es.toMilliseconds(duration),
	)
	es.logOperationContext(
		ctx,
		logMsgEventsAppended,
		logAttrEventCount, len(events),
		logAttrDurationMS, es.toMilliseconds(duration),
	)

	tracing.finishSuccess(positionRange, duration)
	metrics.recordSuccess(events, duration)

	return positionRange, nil
}

// executeQuery executes the SQL query and returns rows with timing information.
func (es *EventStore) executeQuery(ctx context.Context, sqlQuery string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(sqlQuery, logActionRead, duration)
	es.logQueryWithDurationContext(ctx, sqlQuery, logActionRead, duration)

	if queryErr != nil {
		es.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		es.logErrorContext(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)

		return nil, duration, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}

	return rows, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (es *EventStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if es.logger != nil {
			es.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// processQueryResults converts database rows into sequenced events and tracks
// the highest position seen. Rows are ordered by position, so the last row
// carries the boundary's last seen position.
func (es *EventStore) processQueryResults(rows adapters.DBRows) (
	eventstore.SequencedEvents,
	eventstore.Position,
	error,
) {

	var empty eventstore.SequencedEvents
	result := queryResultRow{}
	eventStream := make(eventstore.SequencedEvents, 0)
	lastSeenPosition := eventstore.Position(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.position, &result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.keys)
		if rowScanErr != nil {
			es.logError(logMsgScanRowFailed, rowScanErr)

			return empty, 0, errors.Join(eventstore.ErrScanningDBRowFailed, rowScanErr)
		}

		keys, keysErr := keysFromJSON(result.keys)
		if keysErr != nil {
			es.logError(logMsgBuildSequencedEventFailed, keysErr, logAttrEventType, result.eventType)

			return empty, 0, errors.Join(eventstore.ErrBuildingSequencedEventFailed, keysErr)
		}

		event, buildErr := eventstore.BuildSequencedEvent(
			result.position, result.eventType, result.occurredAt, result.payload, result.metadata, keys)
		if buildErr != nil {
			es.logError(logMsgBuildSequencedEventFailed, buildErr, logAttrEventType, result.eventType)

			return empty, 0, errors.Join(eventstore.ErrBuildingSequencedEventFailed, buildErr)
		}

		eventStream = append(eventStream, event)
		lastSeenPosition = result.position
	}

	return eventStream, lastSeenPosition, nil
}

// deriveKeys extracts the boundary keys for each event from the configured key
// rules and serializes them as one JSON object per event.
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

// buildAppendQuery builds the appropriate SQL query for single or multiple events.
func (es *EventStore) buildAppendQuery(
	allEvents eventstore.StorableEvents,
	keysJSON []string,
	condition *eventstore.AppendCondition,
) (sqlQueryString, error) {

	var sqlQuery sqlQueryString
	var buildQueryErr error

	switch len(allEvents) {
	case 1:
		sqlQuery, buildQueryErr = es.buildInsertQueryForSingleEvent(allEvents[0], keysJSON[0], condition)

	default:
		sqlQuery, buildQueryErr = es.buildInsertQueryForMultipleEvents(allEvents, keysJSON, condition)
	}

	if buildQueryErr != nil {
		es.logError(logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(allEvents))

		return "", buildQueryErr
	}

	return sqlQuery, nil
}

// executeAppendQuery executes the append statement and scans the positions
// assigned to the inserted rows. Appends always go to the primary.
func (es *EventStore) executeAppendQuery(ctx context.Context, sqlQuery string) (
	[]eventstore.Position,
	queryDuration,
	error,
) {

	ctx = eventstore.WithStrongConsistency(ctx)

	start := time.Now()
	rows, execErr := es.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(sqlQuery, logActionAppend, duration)
	es.logQueryWithDurationContext(ctx, sqlQuery, logActionAppend, duration)

	if execErr != nil {
		es.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		es.logErrorContext(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)

		return nil, duration, errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}
	defer es.closeRows(rows)

	positions := make([]eventstore.Position, 0)

	for rows.Next() {
		var position eventstore.Position
		if scanErr := rows.Scan(&position); scanErr != nil {
			es.logError(logMsgScanRowFailed, scanErr)

			return nil, duration, errors.Join(eventstore.ErrAppendingEventFailed, scanErr)
		}

		positions = append(positions, position)
	}

	return positions, duration, nil
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
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

func (es *EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	keysJSON string,
	condition *eventstore.AppendCondition,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata, colKeys)

	if condition != nil {
		// The CTE captures the boundary's current max position; the guarded
		// SELECT inserts nothing unless it still equals the last seen position.
		cteStmt := builder.
			From(es.eventTableName).
			Select(goqu.MAX(colPosition).As(aliasMaxPos))

		cteStmt = es.addWhereClause(condition.Filter(), cteStmt)

		guardedSelect := builder.
			From(cteContext).
			Select(
				goqu.L(castText, event.EventType),
				goqu.L(castTimestamp, event.OccurredAt),
				goqu.L(castJsonb, event.PayloadJSON),
				goqu.L(castJsonb, event.MetadataJSON),
				goqu.L(castJsonb, keysJSON),
			).
			Where(goqu.COALESCE(goqu.C(aliasMaxPos), 0).Eq(goqu.V(condition.LastSeenPosition())))

		insertStmt = insertStmt.
			With(cteContext, cteStmt).
			FromQuery(guardedSelect)
	} else {
		insertStmt = insertStmt.FromQuery(
			builder.Select(
				goqu.L(castText, event.EventType),
				goqu.L(castTimestamp, event.OccurredAt),
				goqu.L(castJsonb, event.PayloadJSON),
				goqu.L(castJsonb, event.MetadataJSON),
				goqu.L(castJsonb, keysJSON),
			),
		)
	}

	insertStmt = insertStmt.Returning(goqu.C(colPosition))

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		es.logError(logMsgSingleEventSQLFailed, toSQLErr, logAttrEventType, event.EventType)

		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	keysJSON []string,
	condition *eventstore.AppendCondition,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	// Create individual SELECT statements for each event. The ordinal keeps
	// the insert order, and with it the position order, stable.
	unionStatements := make([]*goqu.SelectDataset, len(events))
	for i, event := range events {
		unionStatements[i] = builder.
			Select(
				goqu.L(castText, event.EventType).As(colEventType),
				goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
				goqu.L(castJsonb, event.PayloadJSON).As(colPayload),
				goqu.L(castJsonb, event.MetadataJSON).As(colMetadata),
				goqu.L(castJsonb, keysJSON[i]).As(colKeys),
				goqu.L(castInt, i).As(colOrdinal),
			)
	}

	// Combine all SELECT statements with UNION ALL
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
		es.logError(logMsgMultiEventSQLFailed, toSQLErr, logAttrEventCount, len(events))

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

		// eventTypes must always be filtered with OR ;-)
		eventTypesExpressionList := goqu.Or(eventTypeExpressions...)

		for _, predicate := range item.Predicates() {
			containment, _ := jsoniter.ConfigFastest.Marshal(
				map[string]string{predicate.Name(): predicate.Val()},
			)

			predicateExpressions = append(
				predicateExpressions,
				goqu.L("? @> ?", goqu.C(colKeys), string(containment)),
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
			goqu.C(colOccurredAt).Gte(filter.OccurredFrom()),
		)
	}

	if !filter.OccurredUntil().IsZero() {
		constraintExpressions = append(
			constraintExpressions,
			goqu.C(colOccurredAt).Lte(filter.OccurredUntil()),
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

// keysToJSON serializes derived boundary keys as a JSON object mapping key
// names to values, the shape the @> containment predicate matches against.
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

// keysFromJSON deserializes the stored keys object back into Keys, ordered by
// key name for stable output.
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
