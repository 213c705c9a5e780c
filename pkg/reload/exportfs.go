package reload

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/marmos91/exportctl/internal/logger"
	"github.com/marmos91/exportctl/pkg/exports"
)

const (
	// DefaultExportfsCommand is where distributions install exportfs(8).
	DefaultExportfsCommand = "/usr/sbin/exportfs"
)

// ExportfsConfig configures an ExportfsTrigger.
type ExportfsConfig struct {
	// Command is the exportfs binary to run. Defaults to
	// DefaultExportfsCommand.
	Command string `mapstructure:"command"`

	// Args are the arguments passed to the command. Defaults to ["-a"],
	// exporting all directories listed in the registry.
	Args []string `mapstructure:"args"`
}

// ExportfsTrigger reloads exports by running exportfs -a.
type ExportfsTrigger struct {
	command string
	args    []string
}

// NewExportfsTrigger creates a trigger from the given configuration,
// applying defaults for unset fields.
func NewExportfsTrigger(cfg ExportfsConfig) *ExportfsTrigger {
	command := cfg.Command
	if command == "" {
		command = DefaultExportfsCommand
	}
	args := cfg.Args
	if len(args) == 0 {
		args = []string{"-a"}
	}

	return &ExportfsTrigger{command: command, args: args}
}

// Reload runs the configured command. A start failure or non-zero exit
// returns an error wrapping exports.ErrReloadFailed, carrying whatever the
// command printed.
func (t *ExportfsTrigger) Reload(ctx context.Context) error {
	logger.Debug("running %s %s", t.command, strings.Join(t.args, " "))

	out, err := exec.CommandContext(ctx, t.command, t.args...).CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%s: %s: %w", t.command, detail, exports.ErrReloadFailed)
	}

	return nil
}
