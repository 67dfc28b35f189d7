/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"io"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/app"
	"github.com/spf13/cobra"
)

type findClient interface {
	Find(input app.FindInput, w io.Writer) error
}

const findCommandLong = `Search files and print the rows of their find scrollmap layer.

USAGE:
    scrollmap-search-panel find [OPTIONS] <pattern> <file>...

OPTIONS:
    --mode <mode>          Search mode: substring, regex or token
    --ignore-case          Match case-insensitively
    --threshold <n>        Suppress the layer above n results (0 = no limit)
    --permanent            Keep the layer when the panel is hidden
    --hidden               Do not show the panel (layer empty unless permanent)
    --format <format>      Output format: text or toml
    --gutter <height>      Also draw a scrollmap column of height cells
    -h, --help             Show this help

EXAMPLES:
    # Lines of TODO markers in two files
    scrollmap-search-panel find TODO main.go util.go

    # Regex search, TOML output
    scrollmap-search-panel find --mode regex --format toml 'func \w+' main.go`

// NewFindCmd creates the find command with explicit dependencies.
func NewFindCmd(client findClient) *cobra.Command {
	if client == nil {
		panic("NewFindCmd: client dependency cannot be nil")
	}

	var (
		input      app.FindInput
		ignoreCase bool
		threshold  int
		permanent  bool
	)

	findCmd := &cobra.Command{
		Use:   "find <pattern> <file>...",
		Short: "Search files and print their find layer",
		Long:  findCommandLong,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Pattern = args[0]
			input.Files = args[1:]
			// Unset flags keep the configured values.
			if cmd.Flags().Changed("ignore-case") {
				input.IgnoreCase = &ignoreCase
			}
			if cmd.Flags().Changed("threshold") {
				input.Threshold = &threshold
			}
			if cmd.Flags().Changed("permanent") {
				input.Permanent = &permanent
			}
			return client.Find(input, cmd.OutOrStdout())
		},
	}

	findCmd.Flags().StringVar(&input.Mode, "mode", "", "Search mode: substring, regex or token")
	findCmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Match case-insensitively")
	findCmd.Flags().IntVar(&threshold, "threshold", 0, "Suppress the layer above this many results (0 = no limit)")
	findCmd.Flags().BoolVar(&permanent, "permanent", false, "Keep the layer when the panel is hidden")
	findCmd.Flags().BoolVar(&input.Hidden, "hidden", false, "Do not show the search panel")
	findCmd.Flags().StringVar(&input.Format, "format", app.FormatText, "Output format: text or toml")
	findCmd.Flags().IntVar(&input.GutterHeight, "gutter", 0, "Draw a scrollmap column of this many cells")

	return findCmd
}
