// Package config loads infrastructure configuration from the environment
// and provides factory functions for the supported database connections
// (pgxpool.Pool, sql.DB, sqlx.DB, SQLite) used by the event store.
package config
