package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New initializes the process-wide base logger. Components derive their own
// child loggers from it. 'devMode' switches to human-readable console output.
func New(devMode bool) zerolog.Logger {
	if devMode {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		return zerolog.New(consoleWriter).With().Timestamp().Logger()
	}

	// JSON output for production
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
