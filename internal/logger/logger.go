package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

var (
	mu           sync.RWMutex
	base         hclog.InterceptLogger
	currentLevel LogLevel
)

func init() {
	Configure(os.Stdout)
}

// Configure replaces the process logger with one writing to out, using the
// level from FULLSTACK_LOG_LEVEL.
func Configure(out io.Writer) {
	level := levelFromEnv()
	l := hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Name:   "fullstack",
		Level:  toHclogLevel(level),
		Output: out,
	})
	setLogger(l, level)
}

// ConfigureConsole sets up logging for the browser. Entries carry no
// timestamp and are forwarded to the given console sink, which picks the
// console method for each level. The default output is discarded so that
// entries are not printed twice.
func ConfigureConsole(sink hclog.SinkAdapter) {
	level := levelFromEnv()
	l := hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Name:        "fullstack",
		Level:       toHclogLevel(level),
		Output:      io.Discard,
		DisableTime: true,
		Color:       hclog.ColorOff,
	})
	l.RegisterSink(sink)
	setLogger(l, level)
}

func setLogger(l hclog.InterceptLogger, level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	currentLevel = level
}

func levelFromEnv() LogLevel {
	return ParseLevel(os.Getenv("FULLSTACK_LOG_LEVEL"))
}

// ParseLevel converts a level name into a LogLevel, defaulting to DEBUG.
func ParseLevel(lvl string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(lvl)) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return DEBUG
	}
}

func toHclogLevel(level LogLevel) hclog.Level {
	switch level {
	case TRACE:
		return hclog.Trace
	case INFO:
		return hclog.Info
	case WARN:
		return hclog.Warn
	case ERROR:
		return hclog.Error
	default:
		return hclog.Debug
	}
}

// Named returns an hclog.Logger scoped under the process logger, for
// libraries that take one directly.
func Named(name string) hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.Named(name)
}

func current() (hclog.Logger, LogLevel) {
	mu.RLock()
	defer mu.RUnlock()
	return base, currentLevel
}

// Level check functions
func IsTraceEnabled() bool {
	return GetCurrentLevel() <= TRACE
}

func IsDebugEnabled() bool {
	return GetCurrentLevel() <= DEBUG
}

func IsInfoEnabled() bool {
	return GetCurrentLevel() <= INFO
}

func IsWarnEnabled() bool {
	return GetCurrentLevel() <= WARN
}

func IsErrorEnabled() bool {
	return GetCurrentLevel() <= ERROR
}

// Trace level logging
func Tracef(format string, v ...interface{}) {
	if l, lvl := current(); lvl <= TRACE {
		l.Trace(fmt.Sprintf(format, v...))
	}
}

func Traceln(msg string) {
	if l, lvl := current(); lvl <= TRACE {
		l.Trace(msg)
	}
}

// Debug level logging
func Debugf(format string, v ...interface{}) {
	if l, lvl := current(); lvl <= DEBUG {
		l.Debug(fmt.Sprintf(format, v...))
	}
}

func Debugln(msg string) {
	if l, lvl := current(); lvl <= DEBUG {
		l.Debug(msg)
	}
}

// Info level logging
func Infof(format string, v ...interface{}) {
	if l, lvl := current(); lvl <= INFO {
		l.Info(fmt.Sprintf(format, v...))
	}
}

func Infoln(msg string) {
	if l, lvl := current(); lvl <= INFO {
		l.Info(msg)
	}
}

// Warn level logging
func Warnf(format string, v ...interface{}) {
	if l, lvl := current(); lvl <= WARN {
		l.Warn(fmt.Sprintf(format, v...))
	}
}

func Warnln(msg string) {
	if l, lvl := current(); lvl <= WARN {
		l.Warn(msg)
	}
}

// Error level logging
func Errorf(format string, v ...interface{}) {
	if l, lvl := current(); lvl <= ERROR {
		l.Error(fmt.Sprintf(format, v...))
	}
}

func Errorln(msg string) {
	if l, lvl := current(); lvl <= ERROR {
		l.Error(msg)
	}
}

// GetCurrentLevel returns the current log level
func GetCurrentLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}
