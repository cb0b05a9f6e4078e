// Package flog provides a small structured-logging wrapper around zap, in
// the spirit of the host project's logging package: a narrow interface,
// named sub-loggers, and a level that can be changed at runtime.
package flog

import (
	"sync"

	"go.uber.org/zap"
)

// Logger is the structured logger used throughout the planner. It is
// intentionally narrow: callers reach for Debugw/Infow/Warnw/Errorw with
// key-value pairs rather than formatted strings, matching how the rest of
// this module logs.
type Logger interface {
	Debugw(msg string, kv ...interface{})
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
	Errorw(msg string, kv ...interface{})
	Named(name string) Logger
	SetLevel(level zap.AtomicLevel)
}

type impl struct {
	name  string
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

var (
	globalMu     sync.RWMutex
	globalLogger = NewLogger("frenetplan")
)

// ReplaceGlobal swaps the package-level default logger.
func ReplaceGlobal(logger Logger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// Global returns the package-level default logger. Prefer passing a Logger
// explicitly (planner.NewOrchestrator takes one); Global exists for
// call sites (e.g. package init) that cannot take one as an argument.
func Global() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// NewLogger returns a new Logger named name, logging Info and above to
// stdout.
func NewLogger(name string) Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	return newWithLevel(name, level)
}

// NewDebugLogger returns a new Logger named name, logging Debug and above.
func NewDebugLogger(name string) Logger {
	level := zap.NewAtomicLevelAt(zap.DebugLevel)
	return newWithLevel(name, level)
}

// NewNopLogger returns a Logger that discards everything. Useful as a
// default when the caller does not care about planner diagnostics.
func NewNopLogger() Logger {
	return &impl{name: "nop", level: zap.NewAtomicLevel(), sugar: zap.NewNop().Sugar()}
}

func newWithLevel(name string, level zap.AtomicLevel) Logger {
	cfg := zap.Config{
		Level:            level,
		Encoding:         "console",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := cfg.Build()
	if err != nil {
		// Building the console encoder from a static config cannot fail in
		// practice; fall back to a no-op logger rather than panicking.
		logger = zap.NewNop()
	}
	return &impl{name: name, level: level, sugar: logger.Sugar().Named(name)}
}

func (l *impl) Debugw(msg string, kv ...interface{}) { l.sugar.Debugw(msg, kv...) }
func (l *impl) Infow(msg string, kv ...interface{})  { l.sugar.Infow(msg, kv...) }
func (l *impl) Warnw(msg string, kv ...interface{})  { l.sugar.Warnw(msg, kv...) }
func (l *impl) Errorw(msg string, kv ...interface{}) { l.sugar.Errorw(msg, kv...) }

func (l *impl) Named(name string) Logger {
	return &impl{name: l.name + "." + name, level: l.level, sugar: l.sugar.Named(name)}
}

func (l *impl) SetLevel(level zap.AtomicLevel) {
	l.level.SetLevel(level.Level())
}
