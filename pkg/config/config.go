package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete exportctl configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (EXPORTCTL_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Registry configures the exports registry file and its rewriter
	Registry RegistryConfig `mapstructure:"registry"`

	// Reload configures how the export service is told to reload
	Reload ReloadConfig `mapstructure:"reload"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// RegistryConfig configures the exports registry file.
type RegistryConfig struct {
	// Path is the registry file to manage (e.g. /etc/exports)
	Path string `mapstructure:"path" validate:"required"`

	// LockPath is the sidecar lock file serializing writers
	// Empty derives <path>.lock
	LockPath string `mapstructure:"lock_path"`

	// NonBlockingLock fails immediately when the lock is held instead of
	// waiting for the current holder
	NonBlockingLock bool `mapstructure:"non_blocking_lock"`

	// ManagedComment is written when a rewrite would leave the registry
	// with no lines at all; empty uses the built-in default
	ManagedComment string `mapstructure:"managed_comment"`

	// SkipPathCheck disables the check that an added export path exists
	// and is a directory on the local system
	SkipPathCheck bool `mapstructure:"skip_path_check"`

	// MergeExtraOptions merges free-form extra options into the composed
	// option set (deduplicating by key) instead of appending them verbatim
	MergeExtraOptions bool `mapstructure:"merge_extra_options"`
}

// ReloadConfig specifies the reload trigger.
//
// The Type field determines which trigger implementation is used.
// Only the corresponding type-specific configuration section is used.
type ReloadConfig struct {
	// Type specifies which reload trigger to use
	// Valid values: exportfs, none
	Type string `mapstructure:"type" validate:"required,oneof=exportfs none"`

	// Exportfs contains exportfs-specific configuration
	// Only used when Type = "exportfs"
	Exportfs map[string]any `mapstructure:"exportfs"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (EXPORTCTL_*)
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

	if err := readConfigFile(v); err != nil {
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
	// Environment variables use the EXPORTCTL_ prefix and underscores
	// Example: EXPORTCTL_REGISTRY_PATH=/srv/exports
	v.SetEnvPrefix("EXPORTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Register every key with a zero default so environment variables bind
	// even when the key is absent from the config file. Real defaults are
	// applied later by ApplyDefaults.
	for _, key := range []string{
		"logging.level", "logging.output",
		"registry.path", "registry.lock_path", "registry.non_blocking_lock",
		"registry.managed_comment", "registry.skip_path_check",
		"registry.merge_extra_options",
		"reload.type",
	} {
		v.SetDefault(key, "")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is acceptable - use defaults
			return nil
		}
		if os.IsNotExist(err) {
			// Explicit config path pointing at a missing file: same policy
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "exportctl")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "exportctl")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// ConfigExists checks if a config file exists at the default location.
func ConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}
