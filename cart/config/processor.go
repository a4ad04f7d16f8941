package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ProcessorConfig holds the settings for the background processors.
type ProcessorConfig struct {
	PublisherTickInterval time.Duration `env:"CART_PUBLISHER_TICK_INTERVAL" envDefault:"2s"`
	ArchiverTickInterval  time.Duration `env:"CART_ARCHIVER_TICK_INTERVAL"  envDefault:"10s"`
}

// LoadProcessorConfig parses the processor settings from the environment.
func LoadProcessorConfig() (ProcessorConfig, error) {
	var cfg ProcessorConfig
	if err := env.Parse(&cfg); err != nil {
		return ProcessorConfig{}, fmt.Errorf("parse processor config: %w", err)
	}

	return cfg, nil
}
