/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type configClient interface {
	ConfigPath() string
	ConfigTOML() ([]byte, error)
	InitConfig() (string, error)
}

const configCommandLong = `Inspect and create the configuration file.

USAGE:
    scrollmap-search-panel config <subcommand>

SUBCOMMANDS:
    show    Print the effective configuration as TOML
    path    Print the config file path
    init    Write a sample config file if none exists

Every key can be overridden with a SCROLLMAP_SEARCH_PANEL_<KEY> environment variable.`

// NewConfigCmd creates the config command with explicit dependencies.
func NewConfigCmd(client configClient) *cobra.Command {
	if client == nil {
		panic("NewConfigCmd: client dependency cannot be nil")
	}

	configCmd := &cobra.Command{
		Use:   "config <subcommand>",
		Short: "Inspect and create the configuration file",
		Long:  configCommandLong,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the effective configuration (defaults, file and environment) as TOML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client.ConfigTOML()
			if err != nil {
				return fmt.Errorf("config show: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Long:  "Print the path of the config file, whether or not it exists.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), client.ConfigPath())
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a sample config file",
		Long:  "Write the current configuration as a commented sample file. An existing file is left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := client.InitConfig()
			if err != nil {
				return fmt.Errorf("config init: %w", err)
			}
			output.Success("Config file ready: " + path)
			return nil
		},
	})

	return configCmd
}
