package logx

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/nccerp/pkg/kernel"
)

// Entry accumulates fields before a log call
type Entry struct {
	logger *Logger
	fields Fields
	err    error
}

func newEntry(l *Logger) *Entry {
	return &Entry{logger: l, fields: make(Fields)}
}

func (e *Entry) WithField(key string, value interface{}) *Entry {
	e.fields[key] = value
	return e
}

func (e *Entry) WithFields(fields Fields) *Entry {
	for k, v := range fields {
		e.fields[k] = v
	}
	return e
}

func (e *Entry) WithError(err error) *Entry {
	e.err = err
	return e
}

// WithContext copies the request id and authenticated user from ctx
func (e *Entry) WithContext(ctx context.Context) *Entry {
	if ctx == nil {
		return e
	}
	if id, ok := ctx.Value(kernel.RequestIDKey).(string); ok && id != "" {
		e.fields["request_id"] = id
	}
	if ac, ok := ctx.Value(kernel.AuthContextKey).(*kernel.AuthContext); ok && ac != nil {
		e.fields["user_id"] = ac.UserID.String()
		e.fields["role"] = ac.Role
	}
	return e
}

func (e *Entry) Trace(msg string) { e.logger.log(LevelTrace, msg, e.fields, e.err) }
func (e *Entry) Debug(msg string) { e.logger.log(LevelDebug, msg, e.fields, e.err) }
func (e *Entry) Info(msg string)  { e.logger.log(LevelInfo, msg, e.fields, e.err) }
func (e *Entry) Warn(msg string)  { e.logger.log(LevelWarn, msg, e.fields, e.err) }
func (e *Entry) Error(msg string) { e.logger.log(LevelError, msg, e.fields, e.err) }

func (e *Entry) Fatal(msg string) {
	e.logger.log(LevelFatal, msg, e.fields, e.err)
	e.logger.exit(1)
}

func (e *Entry) Debugf(format string, args ...interface{}) {
	e.logger.log(LevelDebug, fmt.Sprintf(format, args...), e.fields, e.err)
}

func (e *Entry) Infof(format string, args ...interface{}) {
	e.logger.log(LevelInfo, fmt.Sprintf(format, args...), e.fields, e.err)
}

func (e *Entry) Warnf(format string, args ...interface{}) {
	e.logger.log(LevelWarn, fmt.Sprintf(format, args...), e.fields, e.err)
}

func (e *Entry) Errorf(format string, args ...interface{}) {
	e.logger.log(LevelError, fmt.Sprintf(format, args...), e.fields, e.err)
}

func (e *Entry) Fatalf(format string, args ...interface{}) {
	e.logger.log(LevelFatal, fmt.Sprintf(format, args...), e.fields, e.err)
	e.logger.exit(1)
}
