// Package log holds the process-wide zap logger.
package log

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	atomicLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger      = newLogger(zapcore.Lock(os.Stderr))
)

func newLogger(out zapcore.WriteSyncer) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), out, atomicLevel)
	return zap.New(core)
}

// L returns the shared logger.
func L() *zap.Logger { return logger }

// Named returns a child logger for a component.
func Named(name string) *zap.Logger { return logger.Named(name) }

// SetLevel accepts zap level names ("debug", "info", "warn", "error").
// Unknown names leave the level unchanged and return false.
func SetLevel(level string) bool {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return false
	}
	atomicLevel.SetLevel(lvl)
	return true
}

// Level returns the current level.
func Level() zapcore.Level { return atomicLevel.Level() }

func Sync() {
	_ = logger.Sync()
}
