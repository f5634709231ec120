package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.Info("records loaded", "count", 3)
	log.With("request_id", "abc").Warn("slow query", "ms", 1200)
	log.Error("geocode failed", errors.New("timeout"), "address", "Hamburg, Germany")

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "records loaded", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["count"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "abc", entries[1].ContextMap()["request_id"])

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "timeout", entries[2].ContextMap()["error"])
	assert.Equal(t, "Hamburg, Germany", entries[2].ContextMap()["address"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, NewLogger("production", "info"))
	assert.NotNil(t, NewLogger("development", "debug"))
	NewNopLogger().Info("discarded", "key", "value")
}
