// Package log provides the indentation-aware diagnostic logger used by every
// stage of the bram-mapping pass (parsing, filtering, port assignment,
// tiling), and by the CLI commands that drive it.
package log

import (
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
)

// Verbose controls whether Debug messages are being printed.
var Verbose bool

// IndentationLevel controls the amount of indentation of log messages.
var IndentationLevel = 0

// Spinner is shown while a long-running, non-log-emitting operation such as
// a rules-repository git clone or fetch is in progress.
var Spinner = spinner.New(spinner.CharSets[11], 100*time.Millisecond)

var errorOccured = false

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	// Debug output is gated by Verbose in Debug itself.
	l.SetLevel(logrus.DebugLevel)
	return l
}

// ErrorOccured reports whether any errors have occured.
func ErrorOccured() bool {
	return errorOccured
}

func prefixed(format string) string {
	return strings.Repeat("  ", IndentationLevel) + format
}

// Log prints an indented and formatted message.
func Log(format string, a ...interface{}) {
	logger.Infof(prefixed(format), a...)
}

// Debug prints an indented and formatted debug message, if verbose output is selected.
func Debug(format string, a ...interface{}) {
	if Verbose {
		logger.Debugf(prefixed(format), a...)
	}
}

// Success prints an indented and formatted success message.
func Success(format string, a ...interface{}) {
	logger.Infof(prefixed("Success: "+format), a...)
}

// Warning prints an indented and formatted warning. Used for NoMappingFound:
// a memory cell for which no rule succeeded is left in place, and that is
// not a pass failure.
func Warning(format string, a ...interface{}) {
	logger.Warnf(prefixed(format), a...)
}

// Error prints an indented and formatted error message without terminating
// the process, and marks the run as having had an error (see ErrorOccured).
func Error(format string, a ...interface{}) {
	errorOccured = true
	logger.Errorf(prefixed(format), a...)
}

// Fatal prints an indented and formatted error message and terminates the
// program. Used for ConfigError: a missing/unreadable/malformed rules file,
// or a match rule referencing an unknown property or BRAM name.
func Fatal(format string, a ...interface{}) {
	errorOccured = true
	logger.Fatalf(prefixed(format), a...)
}
