package config

import (
	"fmt"
	"sync"
)

var (
	// current holds the process-wide configuration used by the CLI.
	current *Config

	// currentMu protects access to current.
	currentMu sync.RWMutex
)

// Initialize loads configuration from path with environment variable
// overrides and installs it as the process-wide configuration. Unlike a
// sync.Once guarded loader, a failed attempt can be retried with another path.
//
// Library packages never read this value; they receive configuration
// explicitly. Only cmd/portage uses it.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	SetConfig(cfg)
	return nil
}

// GetConfig returns the process-wide configuration, or nil if Initialize
// has not succeeded yet.
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetConfig replaces the process-wide configuration. Tests use it to inject
// a prepared Config.
func SetConfig(cfg *Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
}

// MustGetConfig returns the process-wide configuration and panics if it has
// not been initialized.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
