
package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured log fields.
type Fields = logrus.Fields

type Logger struct {
	entry *logrus.Entry
}

// New returns a JSON logger at the given level ("debug", "info", "warn",
// "error"). Unknown levels fall back to info.
func New(level string) *Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(parseLevel(level))
	return &Logger{entry: logrus.NewEntry(l)}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{entry: logrus.NewEntry(l)}
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (l *Logger) WithFields(f Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(f)}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{entry: l.entry.WithError(err)}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}
func (l *Logger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}
func (l *Logger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}
func (l *Logger) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}
