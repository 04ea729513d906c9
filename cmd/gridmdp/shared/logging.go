package shared

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogOptions selects the logger format and verbosity.
type LogOptions struct {
	Debug      bool
	Structured bool
	Writer     io.Writer
}

// NewLogger builds a zerolog logger: pretty console output by default, JSON
// when Structured is set. Output goes to stderr unless Writer is given.
func NewLogger(opts LogOptions) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	if opts.Structured {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	} else {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
