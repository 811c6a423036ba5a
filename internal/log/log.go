// Package log centralises Helix's process-wide logger: callers get a single
// configured github.com/charmbracelet/log logger instead of each package
// rolling its own.
package log

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

var base = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
})

// Configure sets the process-wide verbosity and output in one shot, called
// once from main(). quiet silences everything but warnings and errors;
// debug additionally enables debug-level output.
func Configure(w io.Writer, quiet, debug bool) {
	if w != nil {
		base.SetOutput(w)
	}
	switch {
	case debug:
		base.SetLevel(charmlog.DebugLevel)
	case quiet:
		base.SetLevel(charmlog.WarnLevel)
	default:
		base.SetLevel(charmlog.InfoLevel)
	}
}

func Debug(msg string, kv ...any) { base.Debug(msg, kv...) }
func Info(msg string, kv ...any)  { base.Info(msg, kv...) }
func Warn(msg string, kv ...any)  { base.Warn(msg, kv...) }
func Error(msg string, kv ...any) { base.Error(msg, kv...) }

// With returns a sub-logger carrying fixed key/value fields, for the
// per-block progress lines C6's worker pool emits.
func With(kv ...any) *charmlog.Logger {
	return base.With(kv...)
}
