package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/recipegraph/config"
)

// configCmd manages the layered configuration files.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage recipegraph configuration",
	}

	var userLevel bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default project config to recipegraph.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userLevel {
				return config.NewLoader(slog.Default()).EnsureUserConfig()
			}
			cfg := config.DefaultConfig()
			if err := cfg.SaveToFile(config.ProjectConfigFile); err != nil {
				return fmt.Errorf("write %s: %w", config.ProjectConfigFile, err)
			}
			fmt.Printf("wrote %s\n", config.ProjectConfigFile)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&userLevel, "user", false, "create the user-level config under ~/.config/recipegraph instead")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after layering",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(slog.Default()).Load()
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	})

	return cmd
}
