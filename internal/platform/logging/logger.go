package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var base = newBase(os.Stdout)

func newBase(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	l.SetOutput(out)
	return l
}

// Configure sets the level of the process-wide logger. Unknown levels fall back to info.
func Configure(level string, service string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)
	if service != "" {
		base.AddHook(serviceHook(service))
	}
}

// SetOutput redirects the process-wide logger, mainly for tests.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// Base returns the process-wide logger.
func Base() *logrus.Logger {
	return base
}

type requestIDKey struct{}

// WithRequestID stores the request id on ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id from ctx, or "" when none is set.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging scoped to one request or job.
type Logger struct {
	entry *logrus.Entry
}

// FromContext creates a logger carrying the request id found on ctx.
func FromContext(ctx context.Context) *Logger {
	rid := RequestID(ctx)
	if rid == "" {
		rid = "unknown"
	}
	return &Logger{entry: base.WithField("request_id", rid)}
}

// With returns a copy of the logger with extra fields attached.
func (l *Logger) With(fields logrus.Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

func (l *Logger) LogError(operation string, err error) {
	l.entry.WithField("operation", operation).Error(err.Error())
}

func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	l.entry.WithField("operation", operation).Errorf(format, args...)
}

func (l *Logger) LogInfo(operation string, message string) {
	l.entry.WithField("operation", operation).Info(message)
}

func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.entry.WithField("operation", operation).Infof(format, args...)
}

func (l *Logger) LogWarn(operation string, message string) {
	l.entry.WithField("operation", operation).Warn(message)
}

func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	l.entry.WithField("operation", operation).Warnf(format, args...)
}

type serviceHook string

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = string(h)
	}
	return nil
}
