package command

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeycumines/acttree/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLogConfig_Defaults(t *testing.T) {
	t.Parallel()

	lc, err := resolveLogConfig("", "", config.NewConfig(), "")
	require.NoError(t, err)
	assert.Nil(t, lc.logFile)
	assert.Equal(t, slog.LevelInfo, lc.level)

	lc, err = resolveLogConfig("", "", nil, "")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lc.level)
}

func TestResolveLogConfig_FlagOverridesConfig(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "flag.log")
	cfg := config.NewConfig()
	cfg.SetGlobalOption("log.level", "warn")
	cfg.SetGlobalOption("log.file", filepath.Join(t.TempDir(), "config.log"))

	lc, err := resolveLogConfig(logPath, "DEBUG", cfg, "")
	require.NoError(t, err)
	defer lc.close()
	assert.Equal(t, slog.LevelDebug, lc.level)
	require.NotNil(t, lc.logFile)
	assert.FileExists(t, logPath)
	assert.NoFileExists(t, cfg.Global["log.file"])
}

func TestResolveLogConfig_FromConfig(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "logs", "acttree.log")
	cfg := config.NewConfig()
	cfg.SetGlobalOption("log.level", "error")
	cfg.SetGlobalOption("log.file", logPath)

	lc, err := resolveLogConfig("", "", cfg, "")
	require.NoError(t, err)
	defer lc.close()
	assert.Equal(t, slog.LevelError, lc.level)
	assert.FileExists(t, logPath)
}

func TestResolveLogConfig_SectionOverride(t *testing.T) {
	t.Parallel()

	runLog := filepath.Join(t.TempDir(), "run.log")
	cfg := config.NewConfig()
	cfg.SetGlobalOption("log.level", "error")
	cfg.SetSectionOption("run", "log.level", "debug")
	cfg.SetSectionOption("run", "log.file", runLog)

	lc, err := resolveLogConfig("", "", cfg, "run")
	require.NoError(t, err)
	defer lc.close()
	assert.Equal(t, slog.LevelDebug, lc.level)
	require.NotNil(t, lc.logFile)
	assert.FileExists(t, runLog)

	lc, err = resolveLogConfig("", "", cfg, "dump")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, lc.level)
	assert.Nil(t, lc.logFile)
}

func TestResolveLogConfig_InvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := resolveLogConfig("", "loud", config.NewConfig(), "")
	require.EqualError(t, err, "invalid log level: loud")

	cfg := config.NewConfig()
	cfg.SetGlobalOption("log.level", "verbose")
	_, err = resolveLogConfig("", "", cfg, "")
	require.EqualError(t, err, "invalid log level: verbose")
}

func TestLogConfig_Logger(t *testing.T) {
	t.Parallel()

	t.Run("stderr text", func(t *testing.T) {
		t.Parallel()
		var stderr bytes.Buffer
		logger := logConfig{level: slog.LevelWarn}.logger(&stderr)
		logger.Info("hidden")
		logger.Warn("shown", "k", "v")
		assert.NotContains(t, stderr.String(), "hidden")
		assert.Contains(t, stderr.String(), "msg=shown k=v")
	})

	t.Run("file json", func(t *testing.T) {
		t.Parallel()
		logPath := filepath.Join(t.TempDir(), "acttree.log")
		lc, err := resolveLogConfig(logPath, "info", nil, "")
		require.NoError(t, err)
		var stderr bytes.Buffer
		lc.logger(&stderr).Info("to file", "n", 1)
		lc.close()

		assert.Empty(t, stderr.String())
		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		var record map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &record))
		assert.Equal(t, "to file", record["msg"])
		assert.Equal(t, float64(1), record["n"])
	})
}
