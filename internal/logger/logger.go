// Package logger wires zerolog with the defaults the service expects:
// JSON to stdout, timestamps, and a "role" field to separate server and
// worker output.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

func New(role string) zerolog.Logger {
	return zerolog.New(os.Stdout).With().
		Timestamp().
		Str("role", role).
		Logger()
}

// Nop discards everything. For tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
