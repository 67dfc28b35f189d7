package errors

import "github.com/cristianoliveira/scrollmap-search-panel/internal/colors"

// consoleOutput prints through the colors package, which also mirrors every
// line into the structured logger.
type consoleOutput struct{}

func (consoleOutput) Error(msgs ...string)   { colors.Error(msgs...) }
func (consoleOutput) Warning(msgs ...string) { colors.Warning(msgs...) }
func (consoleOutput) Info(msgs ...string)    { colors.Info(msgs...) }
func (consoleOutput) Success(msgs ...string) { colors.Success(msgs...) }

// NewDefaultCLIHandler returns the handler commands report through: errors
// and warnings on stderr, info and success on stdout.
func NewDefaultCLIHandler() *CLIHandler {
	return NewCLIHandler(consoleOutput{})
}
