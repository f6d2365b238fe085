// Package logger holds the process-wide zerolog instance shared by the
// server, worker and seed binaries.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is the shared logger. Binaries adjust its level once at startup via
// SetLevel; packages that prefer the global zerolog/log logger inherit the
// same level.
var Log = newConsoleLogger()

func newConsoleLogger() zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	writer := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.DateTime,
	}

	return zerolog.New(writer).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel parses and applies a level name. Anything unparseable, including
// gin mode strings like "release", keeps the info default.
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		Log.Warn().Str("level", levelStr).Msg("unknown log level, staying at info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
}
