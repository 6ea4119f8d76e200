package utils

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Fields is re-exported so callers do not need to import logrus directly.
type Fields = log.Fields

// Logger provides leveled logging throughout the application.
type Logger struct {
	entry *log.Entry
}

// NewLogger creates a Logger writing to stderr at info level.
func NewLogger() *Logger {
	return NewLoggerWithLevel("info")
}

// NewLoggerWithLevel creates a Logger at the given logrus level name.
// Unknown level names fall back to info.
func NewLoggerWithLevel(level string) *Logger {
	return newLogger(os.Stderr, level)
}

// NewDiscardLogger returns a Logger that drops everything. Used in tests.
func NewDiscardLogger() *Logger {
	return newLogger(io.Discard, "panic")
}

func newLogger(out io.Writer, level string) *Logger {
	l := log.New()
	l.SetOutput(out)
	l.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)

	return &Logger{entry: log.NewEntry(l)}
}

// WithFields returns a child Logger that attaches fields to every message.
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

func (l *Logger) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.entry.Debugf(format, args...)
}
