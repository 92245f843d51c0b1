package infra

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NewLogger constructs a zerolog.Logger writing JSON to stdout, or a
// human-friendly console format in development when stdout is a terminal.
func NewLogger(appEnv string, level zerolog.Level) zerolog.Logger {
	return newLogger(os.Stdout, appEnv, level, isatty.IsTerminal(os.Stdout.Fd()))
}

func newLogger(out io.Writer, appEnv string, level zerolog.Level, console bool) zerolog.Logger {
	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("env", appEnv).
		Logger()

	if appEnv == EnvDevelopment && console {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger
}
