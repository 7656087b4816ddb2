// Package logger prints pipeline diagnostics to stderr when the
// --verbose flag is set. Output is line-oriented and levelled, so a
// user can follow chunking, indexing, and retrieval as they happen.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// state guards the logger configuration for concurrent command paths.
type state struct {
	mu      sync.RWMutex
	verbose bool
	out     io.Writer
}

var std = &state{out: os.Stderr}

func (s *state) emit(prefix, format string, args ...any) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.verbose {
		return
	}
	fmt.Fprintf(s.out, prefix+format+"\n", args...)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	std.mu.RLock()
	defer std.mu.RUnlock()
	return std.verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.out = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	std.emit("[DEBUG] ", format, args...)
}

// Section prints a header marking a pipeline stage.
func Section(name string) {
	std.emit("", "\n=== %s ===", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	std.emit("[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	std.emit("[WARN] ", format, args...)
}
