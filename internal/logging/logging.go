// Package logging owns the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Init configures Log. Empty arguments fall back to the LOG_LEVEL and
// LOG_FORMAT environment variables, then to "info" and "text".
func Init(level, format string) {
	InitTo(os.Stdout, level, format)
}

// InitTo is Init with an explicit output.
func InitTo(w io.Writer, level, format string) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	if strings.EqualFold(format, "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	Log.SetOutput(w)
}

// ForComponent returns an entry tagged with the component name.
func ForComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
