package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedLogger returns a Logger whose entries can be inspected.
func newObservedLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_DefaultsApplied(t *testing.T) {
	// Empty config must not fail; level and outputs get defaults.
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestFieldsReachEntries(t *testing.T) {
	l, logs := newObservedLogger()

	l.Info("analysis complete",
		String("report_id", "r-1"),
		Int("records", 42),
		Duration("elapsed", 3*time.Second),
		Err(errors.New("partial failure")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "analysis complete", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "r-1", ctx["report_id"])
	assert.Equal(t, int64(42), ctx["records"])
	assert.Equal(t, "partial failure", ctx["error"])
}

func TestErrNil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestWithAttachesFields(t *testing.T) {
	l, logs := newObservedLogger()
	child := l.With(String("component", "scorer"))
	child.Info("scored")
	l.Info("bare")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "scorer", entries[0].ContextMap()["component"])
	assert.NotContains(t, entries[1].ContextMap(), "component")
}

func TestNamed(t *testing.T) {
	l, logs := newObservedLogger()
	l.Named("madison").Named("http").Info("request")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "madison.http", entries[0].LoggerName)
}

func TestNopLoggerAllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.NotNil(t, l.With(String("k", "v")))
	assert.NotNil(t, l.Named("x"))
}

func TestDefaultLoggerSwap(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newObservedLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	// nil is ignored
	SetDefault(nil)
	assert.Equal(t, l, Default())
}
