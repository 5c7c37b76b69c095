// Package logger builds the zap logger shared by the dashboard components.
package logger

import (
	"go.uber.org/zap"
)

// NewLogger creates and returns a new sugared logger.
func NewLogger() (*zap.SugaredLogger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// NewNop returns a logger that discards everything, for tests and examples.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
