// Package logging provides structured JSON logging for the HIVE optimization
// server, with level filtering, field chaining, a chi request middleware, and
// a zapcore adapter for components that log through *zap.Logger.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"
)

// LogLevel represents the severity of a log entry.
type LogLevel string

const (
	// DebugLevel is for diagnostics, usually disabled in production.
	DebugLevel LogLevel = "DEBUG"
	// InfoLevel is the default priority.
	InfoLevel LogLevel = "INFO"
	// WarnLevel marks conditions worth noticing but not failing on.
	WarnLevel LogLevel = "WARN"
	// ErrorLevel marks failures.
	ErrorLevel LogLevel = "ERROR"
	// FatalLevel logs the entry and then exits the process.
	FatalLevel LogLevel = "FATAL"
)

// severity orders levels for filtering. Unknown levels rank below debug so
// they are never emitted.
func severity(level LogLevel) int {
	switch level {
	case DebugLevel:
		return 1
	case InfoLevel:
		return 2
	case WarnLevel:
		return 3
	case ErrorLevel:
		return 4
	case FatalLevel:
		return 5
	default:
		return 0
	}
}

// Logger writes JSON log lines to a single output. Loggers are immutable;
// WithFields and friends return derived loggers sharing the same output.
type Logger struct {
	level  LogLevel
	output io.Writer
	fields map[string]interface{}
}

// New creates a Logger emitting entries at or above level.
func New(level LogLevel, output io.Writer) *Logger {
	return &Logger{
		level:  level,
		output: output,
		fields: map[string]interface{}{},
	}
}

// WithFields returns a Logger that attaches fields to every entry. Keys in
// fields override inherited keys.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{level: l.level, output: l.output, fields: merged}
}

// WithField returns a Logger with one extra field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithError returns a Logger with the error field set.
func (l *Logger) WithError(err error) *Logger {
	return l.WithField("error", err.Error())
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return severity(level) >= severity(l.level) && severity(level) > 0
}

// log emits one entry. The caller field points two frames up, at whoever
// called the public level method.
func (l *Logger) log(level LogLevel, msg string, fields map[string]interface{}) {
	if !l.shouldLog(level) {
		return
	}

	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"level":     level,
		"message":   msg,
		"caller":    callerRef(3),
	}
	for k, v := range l.fields {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}

	line, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.output, "%s [%s] %s: %+v\n",
			time.Now().UTC().Format(time.RFC3339), level, msg, fields)
	} else {
		_, _ = l.output.Write(append(line, '\n'))
	}

	if level == FatalLevel {
		os.Exit(1)
	}
}

// callerRef formats the calling file and line, keeping the last two path
// segments.
func callerRef(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???:0"
	}
	parts := strings.Split(file, "/")
	if len(parts) > 2 {
		file = strings.Join(parts[len(parts)-2:], "/")
	}
	return fmt.Sprintf("%s:%d", file, line)
}

func first(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// Debug logs a message at DebugLevel.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(DebugLevel, msg, first(fields))
}

// Info logs a message at InfoLevel.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(InfoLevel, msg, first(fields))
}

// Warn logs a message at WarnLevel.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(WarnLevel, msg, first(fields))
}

// Error logs a message at ErrorLevel.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(ErrorLevel, msg, first(fields))
}

// Fatal logs a message at FatalLevel and exits.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	l.log(FatalLevel, msg, first(fields))
}

type ctxLoggerKey struct{}

// CtxLogger is a Logger carried in a request context.
type CtxLogger struct {
	*Logger
}

// FromContext returns the request-scoped logger, or a default stderr logger
// when the context has none.
func FromContext(ctx context.Context) *CtxLogger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*CtxLogger); ok {
		return logger
	}
	return &CtxLogger{New(InfoLevel, os.Stderr)}
}

// WithContext stores the logger in ctx.
func (l *CtxLogger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, l)
}
