// Package logger wraps zap construction so the rest of the client
// configures logging through a single entry point.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger holds the configured zap logger.
type Logger struct {
	// Log is the underlying zap logger, nil until Init succeeds.
	Log *zap.Logger
}

// New returns an empty Logger; call Init before use.
func New() *Logger {
	return &Logger{}
}

// Init builds the zap logger at the given level ("debug", "info",
// "warn", "error"). It returns an error for unknown levels or if the
// logger cannot be constructed.
func (l *Logger) Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = logger
	return nil
}
