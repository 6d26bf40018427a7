// Package logger owns the process-wide zap logger. main calls Init once;
// every other package hangs its output off a WithModule child.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	root = zap.NewNop() // usable before Init, which keeps tests quiet
)

// Init builds the process logger at the given level. An unrecognized level
// string falls back to info rather than refusing to start.
func Init(level string) error {
	lvl := zapcore.InfoLevel
	_ = lvl.UnmarshalText([]byte(level))

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	built, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	root = built
	mu.Unlock()
	return nil
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Sync flushes buffered entries; deferred from main on shutdown.
func Sync() error {
	return Logger().Sync()
}

// WithModule returns a child logger tagged with the owning module, so log
// lines carry their origin without each call site repeating it.
func WithModule(module string) *zap.Logger {
	return Logger().With(zap.String("module", module))
}
