// Package logger provides leveled logging for compass-embed.
//
// Only errors are printed by default. The --verbose flag lowers the
// threshold to debug so each ingestion and search step is traced on stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelTags = [...]string{
	LevelDebug: "[DEBUG]",
	LevelInfo:  "[INFO]",
	LevelWarn:  "[WARN]",
	LevelError: "[ERROR]",
}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("[LEVEL(%d)]", int(l))
	}
	return levelTags[l]
}

var (
	mu        sync.RWMutex
	threshold Level     = LevelError
	output    io.Writer = os.Stderr
)

// SetVerbose switches between debug and error-only logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	if v {
		threshold = LevelDebug
	} else {
		threshold = LevelError
	}
}

// IsVerbose reports whether debug messages are printed.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return threshold == LevelDebug
}

// SetOutput redirects all log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Output returns the current log writer.
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

func logf(level Level, format string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	if level < threshold {
		return
	}
	fmt.Fprintf(output, level.String()+" "+format+"\n", args...)
}

func Debug(format string, args ...any) { logf(LevelDebug, format, args) }
func Info(format string, args ...any)  { logf(LevelInfo, format, args) }
func Warn(format string, args ...any)  { logf(LevelWarn, format, args) }

// Error is printed whatever the verbosity.
func Error(format string, args ...any) { logf(LevelError, format, args) }

// Section prints a "=== name ===" header in verbose mode.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if threshold == LevelDebug {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
