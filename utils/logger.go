package utils

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// base carries the fields stamped on every entry. Set once at startup.
var base = log.NewEntry(log.StandardLogger())

// init initializes the global logger configuration when the package is imported.
func init() {
	// JSON with ISO 8601 timestamps
	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})

	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

// Configure sets the global level and the service name attached to every entry.
// Unknown levels keep info.
func Configure(level, service string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown log level, defaulting to info")
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)

	if service != "" {
		base = log.WithField("service", service)
	}
}

func Debug(message string, fields map[string]any) {
	base.WithFields(fields).Debug(message)
}

// Info logs a message at info level with optional fields
func Info(message string, fields map[string]any) {
	base.WithFields(fields).Info(message)
}

// Warn logs a message at warning level with optional fields
func Warn(message string, fields map[string]any) {
	base.WithFields(fields).Warn(message)
}

// Error logs a message at error level with optional fields
func Error(message string, fields map[string]any) {
	base.WithFields(fields).Error(message)
}

// Fatal logs a message at fatal level and exits the application
func Fatal(message string, fields map[string]any) {
	base.WithFields(fields).Fatal(message)
}
