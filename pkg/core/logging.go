package core

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log verbosity levels used with logr's V()
const (
	LogDefault = 0
	LogVerbose = 1
	LogDebug   = 2
)

// NewLogger creates a zap-backed logr.Logger.
// Development loggers are human readable and enable debug verbosity.
func NewLogger(development bool) (logr.Logger, error) {
	var zapLog *zap.Logger
	var err error
	if development {
		cfg := zap.NewDevelopmentConfig()
		// zapr maps V(n) to zap level -n
		cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-LogDebug))
		zapLog, err = cfg.Build()
	} else {
		zapLog, err = zap.NewProduction()
	}
	if err != nil {
		return logr.Discard(), fmt.Errorf("failed to build zap logger: %w", err)
	}
	return zapr.NewLogger(zapLog), nil
}
