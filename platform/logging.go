package platform

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu sync.RWMutex
	logger   *zap.Logger
)

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l
}

// Logger returns the process-wide logging sink. Cursor growth warnings,
// unreleased-native-memory diagnostics, ReleaseLast assertion warnings,
// and single-writer check warnings all go through it.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replaces the process-wide logger. Tests use this to install a
// zaptest logger or zap.NewNop() to silence expected warnings.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}
