package main

import (
	"os"
	"strings"

	"github.com/cristianoliveira/scrollmap-search-panel/cmd"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/colors"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/errors"
)

func main() {
	os.Exit(run(os.Args[1:], cmd.Execute, errors.NewDefaultCLIHandler()))
}

// run executes the command tree, reports a failure through handler and maps
// the result to an exit code.
func run(args []string, execute func() error, handler errors.ErrorHandler) int {
	colors.Debug("starting with args:", strings.Join(args, " "))
	if err := execute(); err != nil {
		handler.Error(err.Error())
		return 1
	}
	return 0
}
