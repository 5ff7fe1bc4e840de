package util

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the global logger instance
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetLogLevel sets the logging level ("debug", "warn", ...).
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// SetJSONFormat switches to one JSON object per log line.
func SetJSONFormat() {
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
}

// WithFields returns a logger with multiple fields
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithTopology tags entries with the topology or plan name.
func WithTopology(name string) *logrus.Entry {
	return Logger.WithField("topology", name)
}

// WithParams returns a logger carrying the four fabric sizing parameters
func WithParams(spines, leaves, hostsPerLeaf, radix int) *logrus.Entry {
	return Logger.WithFields(logrus.Fields{
		"spines":         spines,
		"leaves":         leaves,
		"hosts_per_leaf": hostsPerLeaf,
		"radix":          radix,
	})
}

// WithOperation tags entries with a CLI-level operation (push, scale).
func WithOperation(operation string) *logrus.Entry {
	return Logger.WithField("operation", operation)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}
