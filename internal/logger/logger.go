// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options configures the application logger.
type Options struct {
	// Level is a logrus level name. Unknown names fall back to info.
	Level string
	// Environment selects the format: text in development, JSON otherwise.
	Environment string
	// Service is attached to every entry when set.
	Service string
	// Output defaults to stdout.
	Output io.Writer
}

// NewLogger creates a new configured logger instance
func NewLogger(opts Options) *logrus.Logger {
	logger := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)

	if opts.Environment == "development" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   out == os.Stdout,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if opts.Service != "" {
		logger.AddHook(serviceHook(opts.Service))
	}

	// Parse and set log level
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if err != nil {
		logger.WithField("log_level", opts.Level).Warn("Invalid log level, defaulting to info")
	}

	return logger
}

// serviceHook stamps the service name onto entries that do not carry one.
type serviceHook string

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = string(h)
	}
	return nil
}
