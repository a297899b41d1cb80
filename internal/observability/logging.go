// Package observability provides logger construction for the companion server.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Robak132/MacrosCompanionModules/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// Fields are attached to every entry; cmd/macrosd tags the peer role this way.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig, fields ...zap.Field) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Output != "" {
		zapCfg.OutputPaths = []string{cfg.Output}
	}

	logger, err := zapCfg.Build(zap.Fields(fields...))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// PeerRole names the relay role of this process for log fields.
func PeerRole(authoritative bool) zap.Field {
	if authoritative {
		return zap.String("peer", "authoritative")
	}
	return zap.String("peer", "relay")
}
