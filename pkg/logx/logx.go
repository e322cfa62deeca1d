// Package logx is the process-wide structured logger. Configure it with the
// LOG_* environment variables or replace the default logger at startup.
package logx

import (
	"context"
	"fmt"
	"io"
)

var std = NewLogger(LoadFromEnv())

func SetDefaultLogger(l *Logger) { std = l }
func GetDefaultLogger() *Logger  { return std }
func SetLevel(level Level)       { std.SetLevel(level) }
func SetOutput(w io.Writer)      { std.SetOutput(w) }

func Trace(msg string) { std.log(LevelTrace, msg, nil, nil) }
func Debug(msg string) { std.log(LevelDebug, msg, nil, nil) }
func Info(msg string)  { std.log(LevelInfo, msg, nil, nil) }
func Warn(msg string)  { std.log(LevelWarn, msg, nil, nil) }
func Error(msg string) { std.log(LevelError, msg, nil, nil) }

func Fatal(msg string) {
	std.log(LevelFatal, msg, nil, nil)
	std.exit(1)
}

func Debugf(format string, args ...interface{}) {
	std.log(LevelDebug, fmt.Sprintf(format, args...), nil, nil)
}

func Infof(format string, args ...interface{}) {
	std.log(LevelInfo, fmt.Sprintf(format, args...), nil, nil)
}

func Warnf(format string, args ...interface{}) {
	std.log(LevelWarn, fmt.Sprintf(format, args...), nil, nil)
}

func Errorf(format string, args ...interface{}) {
	std.log(LevelError, fmt.Sprintf(format, args...), nil, nil)
}

func Fatalf(format string, args ...interface{}) {
	std.log(LevelFatal, fmt.Sprintf(format, args...), nil, nil)
	std.exit(1)
}

func WithFields(fields Fields) *Entry                { return std.WithFields(fields) }
func WithField(key string, value interface{}) *Entry { return std.WithField(key, value) }
func WithError(err error) *Entry                     { return std.WithError(err) }
func WithContext(ctx context.Context) *Entry         { return newEntry(std).WithContext(ctx) }
