package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/exportctl/pkg/config"
	"github.com/marmos91/exportctl/pkg/exports"
)

var (
	removeClient   string
	removeClearAll bool
	removeNoReload bool
	removeDryRun   bool
)

var removeCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove an export entry",
	Long: `Remove the export entry for one (path, client) pair. The client is
compared case-insensitively. Removing an entry that does not exist is
reported as "nothing to remove" rather than failing the command.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().StringVar(&removeClient, "client", "",
		"client of the entry to remove: hostname, IP, net range, or *")
	_ = removeCmd.MarkFlagRequired("client")

	removeCmd.Flags().BoolVar(&removeClearAll, "clear-all", false, "discard all existing export entries")
	removeCmd.Flags().BoolVar(&removeNoReload, "no-reload", false, "skip the export service reload")
	removeCmd.Flags().BoolVar(&removeDryRun, "dry-run", false, "report what would change without writing")
}

func runRemove(cmd *cobra.Command, args []string) error {
	manager, err := config.CreateManager(cfg)
	if err != nil {
		return err
	}

	result, err := manager.Apply(cmd.Context(), &exports.Request{
		Action:   exports.ActionRemove,
		Path:     args[0],
		Client:   removeClient,
		ClearAll: removeClearAll,
		Reload:   !removeNoReload,
		DryRun:   removeDryRun,
	})
	if errors.Is(err, exports.ErrExportNotFound) {
		fmt.Printf("no export %s for client %s: nothing to remove\n", args[0], removeClient)
		return nil
	}
	if result != nil {
		fmt.Printf("%s (changed=%t)\n", result.Message, result.Changed)
	}

	return err
}
