// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console-formatted structured logger writing to w. When
// verbose is true, debug messages are let through, otherwise only info and
// above.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
	}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// WithComponent returns a child logger tagging all its messages with the
// specified component name.
func WithComponent(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
