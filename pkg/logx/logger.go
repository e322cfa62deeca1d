package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Fields is a map of structured data
type Fields map[string]interface{}

// Record is one formatted log line before it is written
type Record struct {
	Level     Level
	Message   string
	Fields    Fields
	Error     error
	Timestamp time.Time
	Caller    string
}

// Formatter turns a record into bytes
type Formatter interface {
	Format(r *Record) ([]byte, error)
}

// Logger writes records through a formatter
type Logger struct {
	mu        sync.Mutex
	level     Level
	caller    bool
	formatter Formatter
	writer    io.Writer
	exitFunc  func(int)
}

func NewLogger(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var f Formatter = &ConsoleFormatter{Colors: cfg.EnableColors, TimeFormat: cfg.TimeFormat}
	if cfg.Format == FormatJSON {
		f = &JSONFormatter{}
	}

	w := cfg.Output
	if w == nil {
		w = os.Stdout
	}

	return &Logger{
		level:     cfg.Level,
		caller:    cfg.EnableCaller,
		formatter: f,
		writer:    w,
		exitFunc:  os.Exit,
	}
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// SetFormatter swaps the formatter, mostly for tests
func (l *Logger) SetFormatter(f Formatter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.formatter = f
}

// SetExitFunc replaces os.Exit for fatal logs
func (l *Logger) SetExitFunc(fn func(int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.exitFunc = fn
}

func (l *Logger) WithField(key string, value interface{}) *Entry {
	return newEntry(l).WithField(key, value)
}

func (l *Logger) WithFields(fields Fields) *Entry {
	return newEntry(l).WithFields(fields)
}

func (l *Logger) WithError(err error) *Entry {
	return newEntry(l).WithError(err)
}

func (l *Logger) log(level Level, msg string, fields Fields, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.level.Enabled(level) {
		return
	}

	r := &Record{
		Level:     level,
		Message:   msg,
		Fields:    fields,
		Error:     err,
		Timestamp: time.Now(),
	}
	if l.caller {
		r.Caller = callerAt(3)
	}

	out, fmtErr := l.formatter.Format(r)
	if fmtErr != nil {
		fmt.Fprintf(os.Stderr, "logx: format failed: %v\n", fmtErr)
		return
	}
	if _, wErr := l.writer.Write(out); wErr != nil {
		fmt.Fprintf(os.Stderr, "logx: write failed: %v\n", wErr)
	}
}

func (l *Logger) exit(code int) {
	l.exitFunc(code)
}

func callerAt(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
