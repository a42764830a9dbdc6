package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "debug", Outputs: path, Service: "stories"})
	require.NoError(t, err)
	log.Debug("hello", zap.String("k", "v"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
	assert.Contains(t, string(data), `"service":"stories"`)
	assert.NotContains(t, string(data), `"caller"`)
}

func TestNewFallsBackOnUnknownLevel(t *testing.T) {
	log, err := New(Config{Level: "chatty", Encoding: "xml"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}

func TestDevelopmentAddsCallerAndConsoleOutput(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.log")
	second := filepath.Join(dir, "b.log")

	log, err := New(Config{Development: true, Outputs: first + " , " + second})
	require.NoError(t, err)
	log.Error("boom")
	_ = log.Sync()

	for _, path := range []string{first, second} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		out := string(data)
		assert.Contains(t, out, "boom")
		assert.Contains(t, out, "logger_test.go")
		assert.NotContains(t, out, `"msg"`)
	}
}

func TestEncodingDefaults(t *testing.T) {
	assert.Equal(t, "json", encoding(Config{}))
	assert.Equal(t, "console", encoding(Config{Development: true}))
	assert.Equal(t, "json", encoding(Config{Development: true, Encoding: "JSON"}))
	assert.Equal(t, []string{"stdout"}, outputs(" , "))
}
