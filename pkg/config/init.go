package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultConfigTemplate is the commented starter configuration written by
// InitConfig. Values match the built-in defaults, so an untouched file
// behaves the same as no file at all.
const defaultConfigTemplate = `# exportctl Configuration File
#
# Environment variables with the EXPORTCTL_ prefix override any value here,
# e.g. EXPORTCTL_REGISTRY_PATH=/srv/exports.

logging:
  # Minimum log level: DEBUG, INFO, WARN, ERROR
  level: "INFO"
  # Where logs are written: stdout, stderr, or a file path
  output: "stderr"

registry:
  # The exports registry file to manage
  path: "/etc/exports"
  # Sidecar lock file serializing writers (default: <path>.lock)
  # lock_path: "/etc/exports.lock"
  # Fail immediately when another process holds the lock
  non_blocking_lock: false
  # Skip the check that an added export path exists and is a directory
  skip_path_check: false
  # Merge free-form extra options into the composed set instead of
  # appending them verbatim
  merge_extra_options: false

reload:
  # Reload trigger: exportfs, none
  type: "exportfs"
  exportfs:
    command: "/usr/sbin/exportfs"
    args: ["-a"]
`

// InitConfig writes the starter configuration file to the default location.
//
// Returns the path of the written file. Fails if the file already exists,
// unless force is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config file already exists at %s (use force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
