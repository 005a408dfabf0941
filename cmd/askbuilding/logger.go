package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"askbuilding/internal/config"
)

// buildLogger constructs the process-wide logger from the logging config.
// Format "console" yields human-readable output for CLI use, anything else
// falls back to JSON.
func buildLogger(cfg *config.LoggingConfig) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
