package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/exportctl/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the starter configuration file",
	Long: `Write a commented starter configuration to the default location
(` + "$XDG_CONFIG_HOME/exportctl/config.yaml" + ` or ~/.config/exportctl/config.yaml).`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := config.InitConfig(initForce)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
