package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/softicar/samba-server-scripts/internal/registry"
)

// CreateRegistry creates an instance registry based on configuration.
//
// This factory uses the Type field to select the implementation, then
// decodes the type-specific configuration from the corresponding map
// and passes it to the implementation's constructor.
//
// Supported types:
//   - "badger": embedded BadgerDB store in a user-writable directory
//   - "memory": in-memory store (tests, stateless runs)
//
// Returns:
//   - registry.Registry: initialized registry (caller must Close)
//   - error: configuration or initialization error
func CreateRegistry(cfg *RegistryConfig) (registry.Registry, error) {
	switch cfg.Type {
	case "badger":
		return createBadgerRegistry(cfg.Badger)
	case "memory":
		return registry.NewMemoryRegistry(), nil
	default:
		return nil, fmt.Errorf("unknown registry type: %q", cfg.Type)
	}
}

// createBadgerRegistry creates a BadgerDB-backed registry.
func createBadgerRegistry(options map[string]any) (registry.Registry, error) {
	type BadgerRegistryConfig struct {
		Path string `mapstructure:"path"`
	}

	var regCfg BadgerRegistryConfig
	if err := mapstructure.Decode(options, &regCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger registry config: %w", err)
	}

	if regCfg.Path == "" {
		return nil, fmt.Errorf("badger registry: path is required")
	}

	reg, err := registry.NewBadgerRegistry(regCfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger registry: %w", err)
	}

	return reg, nil
}
