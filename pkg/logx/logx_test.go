package logx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(format logx.Format, level logx.Level) (*logx.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := logx.DefaultConfig()
	cfg.Format = format
	cfg.Level = level
	cfg.EnableColors = false
	cfg.Output = buf
	return logx.NewLogger(cfg), buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logx.LevelDebug, logx.ParseLevel("debug"))
	assert.Equal(t, logx.LevelWarn, logx.ParseLevel("warning"))
	assert.Equal(t, logx.LevelInfo, logx.ParseLevel("nonsense"))
	assert.Equal(t, "ERROR", logx.LevelError.String())
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferedLogger(logx.FormatConsole, logx.LevelWarn)

	l.WithField("k", "v").Info("hidden")
	assert.Empty(t, buf.String())

	l.WithField("k", "v").Warn("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "k=v")
}

func TestConsoleFieldsSorted(t *testing.T) {
	l, buf := newBufferedLogger(logx.FormatConsole, logx.LevelInfo)

	l.WithFields(logx.Fields{"b": 2, "a": 1}).WithError(errors.New("bad")).Info("msg")

	out := buf.String()
	assert.True(t, strings.Index(out, "a=1") < strings.Index(out, "b=2"))
	assert.Contains(t, out, "error: bad")
}

func TestJSONFormatterWithContext(t *testing.T) {
	l, buf := newBufferedLogger(logx.FormatJSON, logx.LevelInfo)

	ctx := context.WithValue(context.Background(), kernel.RequestIDKey, "req-9")
	ctx = context.WithValue(ctx, kernel.AuthContextKey, &kernel.AuthContext{UserID: "u1", Role: "clerk"})

	l.WithFields(logx.Fields{"camp_id": "c1"}).WithContext(ctx).Info("camp created")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "camp created", line["message"])
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "req-9", line["request_id"])
	assert.Equal(t, "u1", line["user_id"])
	assert.Equal(t, "c1", line["camp_id"])
}

func TestFatalUsesExitFunc(t *testing.T) {
	l, _ := newBufferedLogger(logx.FormatConsole, logx.LevelInfo)

	code := -1
	l.SetExitFunc(func(c int) { code = c })
	l.WithField("x", 1).Fatal("stop")

	assert.Equal(t, 1, code)
}
