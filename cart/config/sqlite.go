package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// SQLiteConfig holds the settings for the embedded SQLite event store.
type SQLiteConfig struct {
	Path string `env:"CART_SQLITE_PATH" envDefault:"data/eventstore.db"`
}

// LoadSQLiteConfig parses the SQLite settings from the environment.
func LoadSQLiteConfig() (SQLiteConfig, error) {
	var cfg SQLiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SQLiteConfig{}, fmt.Errorf("parse sqlite config: %w", err)
	}

	return cfg, nil
}
