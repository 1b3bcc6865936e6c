// Package boltlog provides the connection actor and translator with a
// logging handle that is passed explicitly to constructors rather than
// referenced as a package-level global, so callers control log output
// without relying on process-wide state.
package boltlog

import "github.com/sirupsen/logrus"

// Logger wraps a *logrus.Entry so call sites attach structured fields
// (connection id, database, statement hash) once at construction instead of
// repeating them at every call site.
type Logger struct {
	entry *logrus.Entry
}

// New wraps base, defaulting to logrus.StandardLogger() when base is nil.
func New(base *logrus.Logger) *Logger {
	if base == nil {
		base = logrus.StandardLogger()
	}
	return &Logger{entry: logrus.NewEntry(base)}
}

// Noop returns a Logger whose output is discarded, for callers (tests,
// embedders) that don't want connection-lifecycle logging.
func Noop() *Logger {
	l := logrus.New()
	l.SetOutput(discard{})
	return New(l)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// With returns a derived Logger carrying an additional structured field.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }
