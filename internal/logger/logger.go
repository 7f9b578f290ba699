// Package logger builds the zap logger used across notiftest.
// The terminal belongs to the TUI, so logs go to a file.
package logger

import (
	"path/filepath"

	"notiftest/internal/fsutil"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the log level and destination.
type Config struct {
	Level   string
	File    string
	Version string
}

// New returns a JSON logger writing to cfg.File. An unknown level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "json"

	level := new(zapcore.Level)
	if err := level.Set(cfg.Level); err != nil {
		*level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(*level)
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.File != "" {
		if err := fsutil.EnsureDir(filepath.Dir(cfg.File), 0700); err != nil {
			return nil, err
		}
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}

	return zc.Build(zap.Fields(
		zap.String("app", "notiftest"),
		zap.String("version", cfg.Version),
	))
}
