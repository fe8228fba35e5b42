package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwatters/hilex/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage hilex configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to .hilex/config.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ".hilex/config.yaml"
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
