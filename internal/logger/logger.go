// Package logger is a package-level logging facade. Backends are installed
// once with Init; until then every call is a no-op, which keeps library
// packages silent in tests.
package logger

import "sync"

// Instance is a logging backend.
type Instance interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

var (
	mu        sync.RWMutex
	instances []Instance
)

// Init replaces the configured backends.
func Init(backends ...Instance) {
	mu.Lock()
	defer mu.Unlock()
	instances = append([]Instance(nil), backends...)
}

func each(fn func(Instance)) {
	mu.RLock()
	defer mu.RUnlock()
	for _, in := range instances {
		fn(in)
	}
}

// Debug logs at DEBUG level.
func Debug(message string, keyvals ...any) {
	each(func(in Instance) { in.Debug(message, keyvals...) })
}

// Info logs at INFO level.
func Info(message string, keyvals ...any) {
	each(func(in Instance) { in.Info(message, keyvals...) })
}

// Warn logs at WARN level.
func Warn(message string, keyvals ...any) {
	each(func(in Instance) { in.Warn(message, keyvals...) })
}

// Error logs at ERROR level.
func Error(message string, keyvals ...any) {
	each(func(in Instance) { in.Error(message, keyvals...) })
}

// Fatal logs at FATAL level. Backends terminate the process.
func Fatal(message string, keyvals ...any) {
	each(func(in Instance) { in.Fatal(message, keyvals...) })
}
