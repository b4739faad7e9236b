package logging

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

var (
	disabled atomic.Bool
	logger   = log.New(os.Stdout, "", log.LstdFlags)
)

// Disable turns off all logging
func Disable() {
	disabled.Store(true)
}

// Enable turns logging back on
func Enable() {
	disabled.Store(false)
}

// SetOutput redirects log output (tests, CLI quiet mode)
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Info logs an info message
func Info(v ...any) {
	if !disabled.Load() {
		logger.Println(v...)
	}
}

// Infof logs a formatted info message
func Infof(format string, v ...any) {
	if !disabled.Load() {
		logger.Printf(format, v...)
	}
}

// Warn logs a warning message
func Warn(v ...any) {
	if !disabled.Load() {
		logger.Println(v...)
	}
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...any) {
	if !disabled.Load() {
		logger.Printf(format, v...)
	}
}

// Error logs an error message
func Error(v ...any) {
	if !disabled.Load() {
		logger.Println(v...)
	}
}

// Errorf logs a formatted error message
func Errorf(format string, v ...any) {
	if !disabled.Load() {
		logger.Printf(format, v...)
	}
}

// Debugf logs a formatted debug message
func Debugf(format string, v ...any) {
	if !disabled.Load() {
		logger.Printf(format, v...)
	}
}
