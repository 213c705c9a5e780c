package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/exportctl/pkg/config"
	"github.com/marmos91/exportctl/pkg/exports"
)

var (
	addClient       string
	addReadWrite    bool
	addNoRootSquash bool
	addAllSquash    bool
	addSecurity     string
	addOptions      string
	addClearAll     bool
	addNoReload     bool
	addDryRun       bool
)

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Add or replace an export entry",
	Long: `Add an export entry for one client. Any existing entry for the same
(path, client) pair is replaced, so repeating an add converges on the
requested options.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addClient, "client", "",
		"client admitted by the entry: hostname, IP, net range, or * (see exports(5))")
	_ = addCmd.MarkFlagRequired("client")

	addCmd.Flags().BoolVar(&addReadWrite, "rw", false, "export read-write instead of read-only")
	addCmd.Flags().BoolVar(&addNoRootSquash, "no-root-squash", false, "keep uid/gid 0 requests unmapped")
	addCmd.Flags().BoolVar(&addAllSquash, "all-squash", false, "map all requests to the anonymous identity")
	addCmd.Flags().StringVar(&addSecurity, "sec", "sys",
		"colon-delimited security flavors to negotiate (sys, krb5, krb5i, krb5p)")
	addCmd.Flags().StringVar(&addOptions, "options", "", "additional comma-separated export options")
	addCmd.Flags().BoolVar(&addClearAll, "clear-all", false, "discard all existing export entries first")
	addCmd.Flags().BoolVar(&addNoReload, "no-reload", false, "skip the export service reload")
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "report what would change without writing")
}

func runAdd(cmd *cobra.Command, args []string) error {
	manager, err := config.CreateManager(cfg)
	if err != nil {
		return err
	}

	result, err := manager.Apply(cmd.Context(), &exports.Request{
		Action:       exports.ActionAdd,
		Path:         args[0],
		Client:       addClient,
		ReadOnly:     !addReadWrite,
		RootSquash:   !addNoRootSquash,
		AllSquash:    addAllSquash,
		Security:     addSecurity,
		ExtraOptions: addOptions,
		ClearAll:     addClearAll,
		Reload:       !addNoReload,
		DryRun:       addDryRun,
	})
	if result != nil {
		// Printed even when the reload failed: the rewrite is committed.
		fmt.Printf("%s (changed=%t)\n", result.Message, result.Changed)
	}

	return err
}
