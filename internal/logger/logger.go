// Package logger provides leveled logging for the service on top of go-logging.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

const (
	module     = "profileauth"
	timeFormat = "2006/01/02 15:04:05"
)

var (
	mu     sync.RWMutex
	logger *logging.Logger
)

func init() {
	Init(logging.INFO, os.Stderr)
}

// Init replaces the process logger with one writing to w at the given level.
func Init(level logging.Level, w io.Writer) {
	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(
		`%{time:`+timeFormat+`} %{level} - %{message}`,
	))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, module)

	l := logging.MustGetLogger(module)
	l.SetBackend(leveled)

	mu.Lock()
	logger = l
	mu.Unlock()
}

// ParseLevel converts a level name such as "debug" or "WARNING" into a level,
// falling back to INFO for unknown names.
func ParseLevel(name string) logging.Level {
	if strings.EqualFold(name, "warn") {
		return logging.WARNING
	}
	level, err := logging.LogLevel(strings.ToUpper(name))
	if err != nil {
		return logging.INFO
	}
	return level
}

func current() *logging.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...any) {
	current().Debugf(format, args...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...any) {
	current().Infof(format, args...)
}

// Warningf logs a formatted warning message.
func Warningf(format string, args ...any) {
	current().Warningf(format, args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...any) {
	current().Errorf(format, args...)
}
