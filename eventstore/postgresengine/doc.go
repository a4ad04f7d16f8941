// Package postgresengine provides the PostgreSQL implementation of the
// dynamic consistency boundary event store.
//
// Events live in a single append-only table. The position column is the
// global ordering authority, and the keys column holds the boundary keys
// derived at append time, indexed for @> containment matching:
//
//	CREATE TABLE IF NOT EXISTS events (
//	    position    BIGSERIAL PRIMARY KEY,
//	    event_type  TEXT NOT NULL,
//	    occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
//	    payload     JSONB NOT NULL,
//	    metadata    JSONB NOT NULL,
//	    keys        JSONB NOT NULL DEFAULT '{}'
//	);
//
//	CREATE INDEX idx_events_event_type ON events(event_type);
//	CREATE INDEX idx_events_occurred_at ON events(occurred_at);
//	CREATE INDEX idx_events_keys_gin ON events USING gin(keys jsonb_path_ops);
//
// Conditional appends are a single atomic INSERT ... SELECT guarded by a CTE
// that captures the boundary's current max position. When the guard fails,
// zero rows are inserted and the engine reports a concurrency conflict.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Optional read replica routing via consistency level contexts
//   - Atomic conditional appends with concurrency conflict detection
//   - Declarative boundary key derivation via eventstore.KeyRules
//   - Configurable table names, dual loggers, metrics, and tracing
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(db,
//		postgresengine.WithKeyRules(shell.CartKeyRules()))
//
//	// With operational logging and a custom table
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		db,
//		postgresengine.WithKeyRules(shell.CartKeyRules()),
//		postgresengine.WithTableName("cart_events"),
//		postgresengine.WithLogger(logger),
//	)
//
//	events, condition, _ := store.Read(ctx, filter)
//	_, err := store.Append(ctx, &condition, newEvent)
package postgresengine
