package logx

import (
	"io"
	"os"
	"strings"
	"time"
)

// Level represents logging level
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	// LevelFatal logs then exits the process
	LevelFatal
	LevelOff
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL", "OFF"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLevel parses a level name, defaulting to info
func ParseLevel(level string) Level {
	s := strings.ToUpper(strings.TrimSpace(level))
	if s == "WARNING" {
		return LevelWarn
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i)
		}
	}
	return LevelInfo
}

// Enabled reports whether target is logged at level l
func (l Level) Enabled(target Level) bool {
	return l <= target
}

// Format represents the output format
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config holds the logger configuration
type Config struct {
	Level        Level
	Format       Format
	EnableColors bool
	EnableCaller bool
	TimeFormat   string
	Output       io.Writer
}

func DefaultConfig() *Config {
	return &Config{
		Level:        LevelInfo,
		Format:       FormatConsole,
		EnableColors: true,
		TimeFormat:   time.RFC3339,
		Output:       os.Stdout,
	}
}

// LoadFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_COLOR, LOG_CALLER and LOG_TIME_FORMAT.
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = ParseLevel(v)
	}
	if v := strings.ToLower(os.Getenv("LOG_FORMAT")); v == string(FormatJSON) {
		cfg.Format = FormatJSON
	}
	if v := os.Getenv("LOG_COLOR"); v != "" {
		cfg.EnableColors = isTrue(v)
	}
	if v := os.Getenv("LOG_CALLER"); v != "" {
		cfg.EnableCaller = isTrue(v)
	}
	switch v := strings.ToUpper(os.Getenv("LOG_TIME_FORMAT")); v {
	case "":
	case "RFC3339NANO":
		cfg.TimeFormat = time.RFC3339Nano
	case "KITCHEN":
		cfg.TimeFormat = time.Kitchen
	default:
		cfg.TimeFormat = os.Getenv("LOG_TIME_FORMAT")
	}

	return cfg
}

func isTrue(v string) bool {
	v = strings.ToLower(v)
	return v == "true" || v == "1" || v == "yes"
}
