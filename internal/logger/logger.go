// Package logger provides levelled diagnostic logging for certboot.
//
// Diagnostics go to stderr so they never mix with the guidance certboot
// prints on stdout, nor with the docker and certbot output streamed to the
// terminal during a run.
//
// By default only Warn and Error are shown. The --verbose flag (or
// CERTBOOT_VERBOSE=true) lowers the threshold to Debug:
//
//	logger.Init(verbose)
//	logger.Debug("rendering %s", path)
//	logger.WarnFields("command failed", map[string]interface{}{
//	    "step": "issue",
//	    "err":  err,
//	})
//
// Lines look like:
//
//	[WARN] 2026-10-17 10:30:45 command failed err=exit status 1 step=issue
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is safe for concurrent use.
type Logger struct {
	level  Level
	output io.Writer
	mu     sync.Mutex
}

var std = &Logger{
	level:  LevelWarn,
	output: os.Stderr,
}

// Init sets Debug level when verbose, Warn otherwise.
func Init(verbose bool) {
	std.mu.Lock()
	defer std.mu.Unlock()

	if verbose {
		std.level = LevelDebug
	} else {
		std.level = LevelWarn
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetOutput sets the output destination for the global logger.
// A nil writer restores os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	std.output = w
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

func (l *Logger) write(level Level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s", level, time.Now().Format("2006-01-02 15:04:05"), msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.output, b.String())
}

// Debug logs a message for --verbose runs.
func Debug(format string, args ...interface{}) {
	std.write(LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	std.write(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warn logs a problem the run continues past.
func Warn(format string, args ...interface{}) {
	std.write(LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Error logs a failure that ends the current command.
func Error(format string, args ...interface{}) {
	std.write(LevelError, fmt.Sprintf(format, args...), nil)
}

// DebugFields logs msg followed by sorted key=value pairs.
func DebugFields(msg string, fields map[string]interface{}) {
	std.write(LevelDebug, msg, fields)
}

// InfoFields logs an informational message with structured fields.
func InfoFields(msg string, fields map[string]interface{}) {
	std.write(LevelInfo, msg, fields)
}

// WarnFields logs a warning with structured fields.
func WarnFields(msg string, fields map[string]interface{}) {
	std.write(LevelWarn, msg, fields)
}

// ErrorFields logs an error with structured fields.
func ErrorFields(msg string, fields map[string]interface{}) {
	std.write(LevelError, msg, fields)
}
