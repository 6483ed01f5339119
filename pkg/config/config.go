package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete provisioning tool configuration.
//
// This structure captures everything the two flows need to know about
// the host: logging behavior, Samba paths and naming, and the instance
// registry backend.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (SAMBASETUP_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values (lowest priority)
//
// The provisioning parameters themselves (instance names, overridable
// paths) stay interactive; configuration only moves the fixed defaults.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Samba contains share naming and path settings
	Samba SambaConfig `mapstructure:"samba"`

	// Registry specifies the instance registry backend
	Registry RegistryConfig `mapstructure:"registry"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// SambaConfig contains the fixed paths and names of the deployment
// topology. Every path here is a default; some are additionally
// prompt-overridable per run.
type SambaConfig struct {
	// ConfPath is the global Samba configuration file
	ConfPath string `mapstructure:"conf_path" validate:"required,startswith=/"`

	// ShareUser is the system user and share name of the
	// single-instance flow
	ShareUser string `mapstructure:"share_user" validate:"required"`

	// ShareRoot is the default backing directory of the
	// single-instance flow (prompt-overridable)
	ShareRoot string `mapstructure:"share_root" validate:"required,startswith=/"`

	// InstancePrefix is prepended to validated instance names to form
	// the canonical identifier; input starting with it is rejected
	InstancePrefix string `mapstructure:"instance_prefix" validate:"required"`

	// InstanceRoot is the directory under which per-instance share
	// directories are created
	InstanceRoot string `mapstructure:"instance_root" validate:"required,startswith=/"`

	// FragmentsDir holds one configuration fragment per instance
	FragmentsDir string `mapstructure:"fragments_dir" validate:"required,startswith=/"`

	// IncludesFile is the generated aggregate of fragment includes
	IncludesFile string `mapstructure:"includes_file" validate:"required,startswith=/"`

	// PasswordDir is the private directory holding per-instance
	// password files
	PasswordDir string `mapstructure:"password_dir" validate:"required,startswith=/"`

	// Service is the Samba systemd unit name
	Service string `mapstructure:"service" validate:"required"`

	// Package is the distribution package providing Samba
	Package string `mapstructure:"package" validate:"required"`
}

// RegistryConfig specifies the instance registry backend.
//
// The Type field determines which implementation is used. Only the
// corresponding type-specific configuration section is read.
type RegistryConfig struct {
	// Type specifies which registry implementation to use
	// Valid values: badger, memory
	Type string `mapstructure:"type" validate:"required,oneof=badger memory"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger map[string]any `mapstructure:"badger"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SAMBASETUP_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the SAMBASETUP_ prefix and underscores
	// Example: SAMBASETUP_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("SAMBASETUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		// Use explicitly specified config file
		v.SetConfigFile(configPath)
	} else {
		// Use default location: $XDG_CONFIG_HOME/samba-setup/config.{yaml,toml}
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to
// the current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "samba-setup")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "samba-setup")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// GetStateDir returns the user-writable state directory used for the
// default registry location.
//
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func GetStateDir() string {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "samba-setup")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".local", "state", "samba-setup")
}
