package command

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joeycumines/acttree/internal/config"
	"github.com/joeycumines/acttree/internal/logfile"
)

// logConfig holds resolved logging configuration for script-executing commands.
type logConfig struct {
	level   slog.Level
	logFile io.WriteCloser // nil if no file logging
}

// resolveLogConfig resolves log configuration from flags and config defaults.
// Flag values take precedence; config values, read in section so that a
// [run] or [dump] override applies, are used when flags are empty.
// The caller must Close() the returned logConfig.logFile when done (if
// non-nil).
func resolveLogConfig(flagPath, flagLevel string, cfg *config.Config, section string) (logConfig, error) {
	schema := config.DefaultSchema()
	var lc logConfig

	levelStr := flagLevel
	if levelStr == "" {
		levelStr = schema.ResolveSection(cfg, section, "log.level")
	}
	switch strings.ToLower(levelStr) {
	case "debug":
		lc.level = slog.LevelDebug
	case "info", "":
		lc.level = slog.LevelInfo
	case "warn":
		lc.level = slog.LevelWarn
	case "error":
		lc.level = slog.LevelError
	default:
		return lc, fmt.Errorf("invalid log level: %s", levelStr)
	}

	logPath := flagPath
	if logPath == "" {
		logPath = schema.ResolveSection(cfg, section, "log.file")
	}
	if logPath != "" {
		w, err := logfile.Open(logPath,
			schema.ResolveInt(cfg, section, "log.max-size-mb"),
			schema.ResolveInt(cfg, section, "log.max-files"),
		)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		lc.logFile = w
	}

	return lc, nil
}

// logger returns a JSON logger on the log file when there is one, and a text
// logger on stderr otherwise.
func (lc logConfig) logger(stderr io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.level}
	if lc.logFile != nil {
		return slog.New(slog.NewJSONHandler(lc.logFile, opts))
	}
	return slog.New(slog.NewTextHandler(stderr, opts))
}

func (lc logConfig) close() {
	if lc.logFile != nil {
		_ = lc.logFile.Close()
	}
}
