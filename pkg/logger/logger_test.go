package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"marketplace/config"
	"marketplace/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNilLoggerSafety(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	assert.NotPanics(t, func() {
		Debug("test debug")
		Info("test info")
		Warn("test warn")
		Error("test error")
		With(zap.String("key", "value")).Info("test with")
		WithRequestID("test-id").Info("test with request id")
		WithContext(map[string]any{"test": "value"}).Info("test with context")
		Ctx(context.Background()).Info("test ctx")
		Get().Info("test get")
	})
}

func TestDevelopmentConfig(t *testing.T) {
	require.NoError(t, Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"))
	defer Sync()

	assert.Equal(t, "debug", Level())
	Info("Development logger initialized", zap.String("env", "development"))
}

func TestDynamicLogLevel(t *testing.T) {
	require.NoError(t, Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"))
	defer Sync()

	UpdateLevel("warn")
	assert.Equal(t, "warn", Level())
	UpdateLevel("bogus")
	assert.Equal(t, "info", Level(), "unknown levels fall back to info")
}

func TestFileOutput(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "logs", "app.log")

	require.NoError(t, Init(&config.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: testFile,
	}, "production"))

	for i := 0; i < 10; i++ {
		Info("Log entry for test", zap.Int("entry", i))
	}
	require.NoError(t, Sync())

	info, err := os.Stat(testFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// Point the global logger back at stdout so later tests don't write into the temp dir.
	require.NoError(t, Init(&config.LogConfig{Level: "info", Output: "stdout"}, "development"))
}

func TestCtxAddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")
	Ctx(ctx).Info("handled")
	Ctx(context.Background()).Info("untagged")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}

func TestWithContextTypes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	WithContext(map[string]any{
		"string_field": "test_value",
		"int_field":    123,
		"bool_field":   true,
	}).Info("Context logger test")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "test_value", fields["string_field"])
	assert.EqualValues(t, 123, fields["int_field"])
	assert.Equal(t, true, fields["bool_field"])
}
