package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGray    = "\033[90m"
	colorCyan    = "\033[36m"
	colorBoldRed = "\033[1;31m"
	colorYellow  = "\033[1;33m"
	colorGreen   = "\033[1;32m"
	colorBlue    = "\033[1;36m"
)

// ConsoleFormatter writes human readable lines with sorted fields
type ConsoleFormatter struct {
	Colors     bool
	TimeFormat string
}

func (f *ConsoleFormatter) Format(r *Record) ([]byte, error) {
	var b strings.Builder

	layout := f.TimeFormat
	if layout == "" {
		layout = time.RFC3339
	}
	f.paint(&b, colorGray, r.Timestamp.Format(layout))
	b.WriteByte(' ')
	f.paint(&b, levelColor(r.Level), fmt.Sprintf("[%-5s]", r.Level.String()))
	b.WriteByte(' ')

	if r.Caller != "" {
		f.paint(&b, colorGray, "["+r.Caller+"]")
		b.WriteByte(' ')
	}

	b.WriteString(r.Message)

	if len(r.Fields) > 0 {
		pairs := make([]string, 0, len(r.Fields))
		for _, k := range sortedKeys(r.Fields) {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, r.Fields[k]))
		}
		b.WriteByte(' ')
		f.paint(&b, colorCyan, strings.Join(pairs, " "))
	}

	if r.Error != nil {
		b.WriteString("\n")
		f.paint(&b, colorRed, "  error: "+r.Error.Error())
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (f *ConsoleFormatter) paint(b *strings.Builder, color, s string) {
	if !f.Colors {
		b.WriteString(s)
		return
	}
	b.WriteString(color)
	b.WriteString(s)
	b.WriteString(colorReset)
}

func levelColor(l Level) string {
	switch l {
	case LevelDebug:
		return colorBlue
	case LevelInfo:
		return colorGreen
	case LevelWarn:
		return colorYellow
	case LevelError, LevelFatal:
		return colorBoldRed
	default:
		return colorGray
	}
}

// JSONFormatter writes one JSON object per line
type JSONFormatter struct{}

func (f *JSONFormatter) Format(r *Record) ([]byte, error) {
	data := make(map[string]interface{}, len(r.Fields)+4)
	for k, v := range r.Fields {
		data[k] = v
	}
	data["level"] = r.Level.String()
	data["message"] = r.Message
	data["timestamp"] = r.Timestamp.Format(time.RFC3339Nano)
	if r.Caller != "" {
		data["caller"] = r.Caller
	}
	if r.Error != nil {
		data["error"] = r.Error.Error()
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func sortedKeys(fields Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
