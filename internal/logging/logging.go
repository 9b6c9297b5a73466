// Package logging builds the process-wide logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a console-encoded sugared logger. Debug mode uses the
// development config; otherwise production config at warn level keeps the
// report output clean.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}
