// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at a console writer on w (stderr when nil)
// and sets the global level. debug forces the debug level and adds callers.
// Unknown levels fall back to info.
func Setup(level string, debug bool, w io.Writer) zerolog.Level {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(lvl)
	ctx := log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp()
	if debug {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()
	return lvl
}
