/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

type viewClient interface {
	View(ctx context.Context, paths []string) error
}

const viewCommandLong = `Open files in an interactive viewer with a search panel and a scrollmap gutter.

USAGE:
    scrollmap-search-panel view <file>...

KEY BINDINGS:
    /           Focus the search bar (Enter applies, ESC cancels)
    n/N         Next/previous result
    ESC         Hide the search panel
    p           Toggle permanent mode
    m           Cycle search mode
    i           Toggle case-insensitive matching
    tab         Next file
    r           Reload files from disk
    q           Quit

The config file is watched while the viewer runs; changes to threshold,
permanent, search_mode and ignore_case apply immediately.`

// NewViewCmd creates the view command with explicit dependencies.
func NewViewCmd(client viewClient) *cobra.Command {
	if client == nil {
		panic("NewViewCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "view <file>...",
		Short: "Interactive viewer with search panel and scrollmap",
		Long:  viewCommandLong,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return client.View(ctx, args)
		},
	}
}
