// Package logging builds the structured loggers used by the simulator.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	uberzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels passed to logr.Logger.V.
const (
	DEFAULT = 0
	VERBOSE = 1
	DEBUG   = 2
	TRACE   = 3
)

// NewLogger returns a zap-backed logger that emits messages up to the
// given verbosity. Development loggers are human readable and add the
// caller; production loggers write JSON.
func NewLogger(verbosity int, development bool) (logr.Logger, error) {
	level := uberzap.NewAtomicLevelAt(zapcore.Level(-1 * verbosity))

	cfg := uberzap.NewProductionConfig()
	if development {
		cfg = uberzap.NewDevelopmentConfig()
	}
	cfg.Level = level
	cfg.DisableStacktrace = !development

	zl, err := cfg.Build(uberzap.AddCaller())
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zl), nil
}

// NewTestLogger creates a development logger that prints every level.
func NewTestLogger() logr.Logger {
	logger, err := NewLogger(TRACE, true)
	if err != nil {
		return logr.Discard()
	}
	return logger
}
