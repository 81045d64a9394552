package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var Logger *zap.Logger

// NewLogger builds a JSON production logger for env "production" and a
// colourised development logger otherwise. level overrides the default
// level when set.
func NewLogger(env, level string) (*zap.Logger, error) {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level = strings.TrimSpace(level); level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	return cfg.Build()
}

// InitializeLogger sets up the global logger.
func InitializeLogger(env, level string) error {
	l, err := NewLogger(env, level)
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

// GetLogger retrieves the global logger, falling back to a development
// logger if InitializeLogger was never called.
func GetLogger() *zap.Logger {
	if Logger == nil {
		l, err := NewLogger("development", "")
		if err != nil {
			return zap.NewNop()
		}
		Logger = l
	}
	return Logger
}
