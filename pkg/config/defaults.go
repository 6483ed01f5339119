package config

import (
	"path/filepath"
	"strings"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and
// environment variables to fill in any missing values.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applySambaDefaults(&cfg.Samba)
	applyRegistryDefaults(&cfg.Registry)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applySambaDefaults sets the deployment topology defaults.
func applySambaDefaults(cfg *SambaConfig) {
	if cfg.ConfPath == "" {
		cfg.ConfPath = "/etc/samba/smb.conf"
	}
	if cfg.ShareUser == "" {
		cfg.ShareUser = "softicar-files"
	}
	if cfg.ShareRoot == "" {
		cfg.ShareRoot = "/var/lib/softicar-files"
	}
	if cfg.InstancePrefix == "" {
		cfg.InstancePrefix = "instance-"
	}
	if cfg.InstanceRoot == "" {
		cfg.InstanceRoot = "/var/lib"
	}
	if cfg.FragmentsDir == "" {
		cfg.FragmentsDir = "/etc/samba/softicar-shares"
	}
	if cfg.IncludesFile == "" {
		cfg.IncludesFile = "/etc/samba/softicar-includes.conf"
	}
	if cfg.PasswordDir == "" {
		cfg.PasswordDir = "/etc/samba/softicar-passwords"
	}
	if cfg.Service == "" {
		cfg.Service = "smbd"
	}
	if cfg.Package == "" {
		cfg.Package = "samba"
	}
}

// applyRegistryDefaults sets registry defaults.
func applyRegistryDefaults(cfg *RegistryConfig) {
	if cfg.Type == "" {
		cfg.Type = "badger"
	}
	if cfg.Type == "badger" {
		if cfg.Badger == nil {
			cfg.Badger = make(map[string]any)
		}
		if _, ok := cfg.Badger["path"]; !ok {
			cfg.Badger["path"] = filepath.Join(GetStateDir(), "registry")
		}
	}
}
