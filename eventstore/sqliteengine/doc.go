// Package sqliteengine provides the SQLite implementation of the dynamic
// consistency boundary event store, backed by the pure-Go modernc.org/sqlite
// driver.
//
// It shares the contract of the PostgreSQL engine: position-ordered reads,
// key derivation via eventstore.KeyRules at append time, and atomic
// conditional appends guarded by a CTE over the boundary's max position.
// Boundary key predicates are matched with the JSON1 json_extract function.
//
// Usage:
//
//	store, _ := sqliteengine.Open("cart.db",
//		sqliteengine.WithKeyRules(shell.CartKeyRules()))
//	defer store.Close()
//
//	events, condition, _ := store.Read(ctx, filter)
//	_, err := store.Append(ctx, &condition, newEvent)
package sqliteengine
