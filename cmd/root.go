/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/colors"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/errors"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/logging"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debugFlag  bool

	// output reports command problems and results to the user; replaced in tests.
	output errors.ErrorHandler = errors.NewDefaultCLIHandler()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "scrollmap-search-panel",
	Short: "Search files and mark the results on a scrollmap.",
	Long: `Search files and mark the results on a scrollmap.

Results of the search panel are mirrored into a "find" scrollmap layer
that is shown while the panel is visible, or always in permanent mode.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	defaultHelp := RootCmd.HelpFunc()
	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			defaultHelp(cmd, args)
			return
		}
		printHelpText(cmd)
	})

	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/scrollmap-search-panel/config.toml)")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Print debug output and log at debug level")

	client := defaultClient{}
	RootCmd.AddCommand(NewFindCmd(client))
	RootCmd.AddCommand(NewViewCmd(client))
	RootCmd.AddCommand(NewConfigCmd(client))
	RootCmd.AddCommand(NewVersionCmd(client))
}

// setup loads the configuration and starts logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		if err := os.Setenv(config.EnvPrefix+"CONFIG_PATH", configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}
	store := currentStore()
	if debugFlag {
		store.Set(config.KeyDebug, "true")
	}
	colors.SetDebug(store.GetBool(config.KeyDebug, false))

	// Logging is best effort; commands still run without a log file.
	if err := logging.InitGlobal(store); err != nil {
		output.Warning(fmt.Sprintf("logging disabled: %v", err))
	}
	logging.Debug("command started", "command", cmd.Name(), "args", len(args))
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	logging.Debug("command finished", "command", cmd.Name())
	return logging.ShutdownGlobal()
}

func printHelpText(cmd *cobra.Command) {
	commandOrder := []string{
		"find",
		"view",
		"config",
		"version",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-28s %s", found.Use, found.Short))
	}

	helpText := fmt.Sprintf(`scrollmap-search-panel v%s

Search files and mark the results on a scrollmap.

USAGE:
    scrollmap-search-panel [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --config <path> Use another config file
    --debug         Print debug output
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
	fmt.Fprint(cmd.OutOrStdout(), helpText)
}
