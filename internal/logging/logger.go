// Package logging configures the process-wide zerolog logger.
//
// All diagnostic output goes to stderr so that stdout stays reserved
// for command results (text or JSON).
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger with a console writer on stderr.
// When verbose is false only warnings and errors are emitted; verbose
// mode lowers the level to debug, which includes every subprocess
// invocation with its argv and working directory.
func Init(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	log.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
