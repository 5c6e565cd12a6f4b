package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns a human friendly logger on stderr.
func newLogger(level zerolog.Level) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
