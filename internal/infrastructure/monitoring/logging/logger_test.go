package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 7}, Int("n", 7))
	assert.Equal(t, Field{Key: "n", Value: int64(7)}, Int64("n", 7))
	assert.Equal(t, Field{Key: "p", Value: 0.5}, Float64("p", 0.5))
	assert.Equal(t, Field{Key: "b", Value: true}, Bool("b", true))
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))
}

func TestErrField(t *testing.T) {
	assert.Equal(t, "boom", Err(errors.New("boom")).Value)
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestZapLoggerEmitsFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core)

	log.Info("patents listed", Int("total", 42), String("op", "list"))

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "patents listed", entries[0].Message)
	assert.Equal(t, int64(42), entries[0].ContextMap()["total"])
	assert.Equal(t, "list", entries[0].ContextMap()["op"])
}

func TestWithAddsPersistentFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).With(String("component", "stats"))

	log.Warn("zero denominator")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "stats", entries[0].ContextMap()["component"])
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("ERROR"))
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	// Must not panic and With/Named must return usable loggers.
	log.Debug("x")
	log.With(String("a", "b")).Named("child").Error("y")
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	core, observed := observer.New(zapcore.InfoLevel)
	SetDefault(NewLoggerFromCore(core))
	Default().Info("hello")
	assert.Len(t, observed.All(), 1)

	// nil is ignored
	SetDefault(nil)
	assert.NotNil(t, Default())
}
