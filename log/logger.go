// Package log is the leveled logger shared by the server and the tools.
//
// It wraps a unilogger.LeveledLogger. Until Default or New is called nothing is logged.
package log

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/neuronlabs/uni-logger"
	"github.com/pkg/errors"
)

const (
	// LDEBUG is the logger DEBUG level.
	LDEBUG = unilogger.DEBUG
	// LINFO is the logger INFO level.
	LINFO = unilogger.INFO
	// LWARNING is the logger WARNING level.
	LWARNING = unilogger.WARNING
	// LERROR is the logger ERROR level.
	LERROR = unilogger.ERROR
	// LCRITICAL is the logger CRITICAL level.
	LCRITICAL = unilogger.CRITICAL
	// LUNKNOWN is the unspecified logger level.
	LUNKNOWN = unilogger.UNKNOWN
)

var (
	logger       unilogger.LeveledLogger
	currentLevel = LINFO
)

// Default creates and sets new unilogger.BasicLogger writing to os.Stderr.
func Default() {
	New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)
}

// New creates new unilogger.BasicLogger that writes to out with the given prefix and flags.
func New(out io.Writer, prefix string, flags int) {
	basic := unilogger.NewBasicLogger(out, prefix, flags)
	basic.SetOutputDepth(4)
	SetLogger(basic)
}

// SetLogger sets l as the current logger, keeping the current level.
func SetLogger(l unilogger.LeveledLogger) {
	logger = l
	if lvl, ok := l.(unilogger.LevelSetter); ok {
		lvl.SetLevel(currentLevel)
	}
}

// Logger returns the current logger, nil before Default or New.
func Logger() unilogger.LeveledLogger {
	return logger
}

// Level returns the current level.
func Level() unilogger.Level {
	return currentLevel
}

// SetLevel sets the level if possible for the logger.
func SetLevel(level unilogger.Level) error {
	if level == LUNKNOWN {
		return errors.New("can't set unknown logger level")
	}
	currentLevel = level
	if logger == nil {
		return nil
	}
	lvl, ok := logger.(unilogger.LevelSetter)
	if !ok {
		return errors.New("logger doesn't implement LevelSetter interface")
	}
	lvl.SetLevel(level)
	return nil
}

// ParseLevel parses the level names used in configuration files: debug, info,
// warning (or warn), error and critical, case insensitive.
func ParseLevel(level string) unilogger.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LDEBUG
	case "info":
		return LINFO
	case "warning", "warn":
		return LWARNING
	case "error":
		return LERROR
	case "critical":
		return LCRITICAL
	}
	return LUNKNOWN
}

// Debugf writes the formated LDEBUG level log.
func Debugf(format string, args ...interface{}) {
	if logger != nil {
		logger.Debugf(format, args...)
	}
}

// Infof writes the formated LINFO level log.
func Infof(format string, args ...interface{}) {
	if logger != nil {
		logger.Infof(format, args...)
	}
}

// Warningf writes the formated LWARNING level log.
func Warningf(format string, args ...interface{}) {
	if logger != nil {
		logger.Warningf(format, args...)
	}
}

// Errorf writes the formated LERROR level log.
func Errorf(format string, args ...interface{}) {
	if logger != nil {
		logger.Errorf(format, args...)
	}
}

// Fatalf writes the formated log and exits.
func Fatalf(format string, args ...interface{}) {
	if logger != nil {
		logger.Fatalf(format, args...)
	}
	os.Exit(1)
}
