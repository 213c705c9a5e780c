package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/exportctl/pkg/config"
	"github.com/marmos91/exportctl/pkg/exports"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current export entries",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := config.CreateManager(cfg)
	if err != nil {
		return err
	}

	entries, err := manager.List(cmd.Context())
	if errors.Is(err, exports.ErrRegistryNotFound) {
		fmt.Printf("no exports registry at %s\n", cfg.Registry.Path)
		return nil
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("no exports configured")
		return nil
	}

	for _, entry := range entries {
		options := entry.Options
		if options == "" {
			options = "-"
		}
		fmt.Printf("%-32s %-24s %s\n", entry.Path, entry.Client, options)
	}

	return nil
}
