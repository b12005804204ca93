package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns the application logger writing to w. Verbose enables debug output.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "statementform",
		ReportTimestamp: true,
	})
}
