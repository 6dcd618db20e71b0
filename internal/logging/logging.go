// Package logging builds the logrus logger used for diagnostics. User-facing
// output goes to stdout separately; diagnostics go to the returned logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger at level using the "text" or "json" format. An
// unknown level falls back to info. A nil out writes to stderr.
func New(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

// Quiet returns a logger that only reports errors, used with --quiet.
func Quiet(logger *logrus.Logger) *logrus.Logger {
	if logger.GetLevel() > logrus.ErrorLevel {
		logger.SetLevel(logrus.ErrorLevel)
	}
	return logger
}
