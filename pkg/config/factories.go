package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/exportctl/pkg/exports"
	"github.com/marmos91/exportctl/pkg/reload"
)

// CreateReloadTrigger creates a reload trigger based on configuration.
//
// This factory function uses the Type field to determine which trigger
// implementation to create, then decodes the type-specific configuration
// from the corresponding map and passes it to the trigger's constructor.
//
// Supported types:
//   - "exportfs": runs exportfs(8) to re-export everything in the registry
//   - "none": no reload, rewrites only
func CreateReloadTrigger(cfg *ReloadConfig) (exports.ReloadTrigger, error) {
	switch cfg.Type {
	case "exportfs":
		return createExportfsTrigger(cfg.Exportfs)
	case "none":
		return reload.NoopTrigger{}, nil
	default:
		return nil, fmt.Errorf("unknown reload trigger type: %q", cfg.Type)
	}
}

// createExportfsTrigger creates an exportfs-based reload trigger.
func createExportfsTrigger(options map[string]any) (exports.ReloadTrigger, error) {
	var triggerCfg reload.ExportfsConfig
	if err := mapstructure.Decode(options, &triggerCfg); err != nil {
		return nil, fmt.Errorf("failed to decode exportfs trigger config: %w", err)
	}

	return reload.NewExportfsTrigger(triggerCfg), nil
}

// CreateManager builds the export manager and its reload trigger from the
// loaded configuration.
func CreateManager(cfg *Config) (*exports.Manager, error) {
	trigger, err := CreateReloadTrigger(&cfg.Reload)
	if err != nil {
		return nil, err
	}

	manager := exports.NewManager(exports.ManagerConfig{
		Rewriter: exports.RewriterConfig{
			RegistryPath:    cfg.Registry.Path,
			LockPath:        cfg.Registry.LockPath,
			NonBlockingLock: cfg.Registry.NonBlockingLock,
			ManagedComment:  cfg.Registry.ManagedComment,
		},
		SkipPathCheck:     cfg.Registry.SkipPathCheck,
		MergeExtraOptions: cfg.Registry.MergeExtraOptions,
	}, trigger)

	return manager, nil
}
