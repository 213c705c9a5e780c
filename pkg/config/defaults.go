package config

import "strings"

// Default locations for the managed registry and the reload command.
const (
	DefaultRegistryPath = "/etc/exports"
	DefaultReloadType   = "exportfs"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and
// environment variables to fill in any missing values with sensible
// defaults. Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyRegistryDefaults(&cfg.Registry)
	applyReloadDefaults(&cfg.Reload)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyRegistryDefaults sets registry defaults.
//
// LockPath and ManagedComment stay empty here: the rewriter derives its own
// defaults from the registry path, and duplicating that logic would let the
// two drift apart.
func applyRegistryDefaults(cfg *RegistryConfig) {
	if cfg.Path == "" {
		cfg.Path = DefaultRegistryPath
	}
}

// applyReloadDefaults sets reload trigger defaults.
func applyReloadDefaults(cfg *ReloadConfig) {
	if cfg.Type == "" {
		cfg.Type = DefaultReloadType
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
