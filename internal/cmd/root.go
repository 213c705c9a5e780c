package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/exportctl/internal/logger"
	"github.com/marmos91/exportctl/pkg/config"
)

var (
	cfgFile      string
	logLevel     string
	registryPath string

	// cfg is populated by the persistent pre-run before any subcommand
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "exportctl",
	Short: "Manage NFS export rules",
	Long: `exportctl manages the NFS exports registry (/etc/exports by default):
it adds and removes per-client export entries, rewrites the registry
atomically under a cross-process lock, and asks the export service to
reload the result.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"override the configured log level")
	rootCmd.PersistentFlags().StringVar(&registryPath, "exports-file", "",
		"override the configured exports registry path")
}

// setup loads configuration and applies flag overrides and log settings.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if registryPath != "" {
		cfg.Registry.Path = registryPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger.SetLevel(cfg.Logging.Level)

	switch cfg.Logging.Output {
	case "stdout":
		logger.SetOutput(os.Stdout)
	case "stderr":
		logger.SetOutput(os.Stderr)
	default:
		f, err := os.OpenFile(cfg.Logging.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log output: %w", err)
		}
		logger.SetOutput(f)
	}

	return nil
}
