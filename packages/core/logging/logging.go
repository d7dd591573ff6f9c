// Package logging builds the logrus loggers used across snapmatch.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = logrus.WarnLevel

// Options configures a logger.
type Options struct {
	Level   string
	NoColor bool
	Output  io.Writer
}

// New creates a text logger writing to stderr unless another output is set.
// An unparseable level falls back to DefaultLevel.
func New(opts Options) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:    opts.NoColor,
		DisableTimestamp: true,
	})

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)
	log.SetLevel(ParseLevel(opts.Level))
	return log
}

// ParseLevel parses a level name, falling back to DefaultLevel.
func ParseLevel(s string) logrus.Level {
	if strings.TrimSpace(s) == "" {
		return DefaultLevel
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return DefaultLevel
	}
	return level
}

// Discard returns a logger that drops every entry.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}
