// Package logger prints pipeline diagnostics to stderr.
//
// Output is off by default and switched on with the --verbose flag.
// Every layer reports through the same small surface, so one flag
// exposes retrieval scoring, policy verdicts, fallback causes and
// audit write failures. Diagnostics are separate from the audit trail:
// nothing here is persisted or queryable.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var verbose atomic.Bool

var (
	mu  sync.Mutex
	out io.Writer = os.Stderr
)

// SetVerbose switches diagnostic output on or off.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// IsVerbose reports whether diagnostic output is enabled.
func IsVerbose() bool {
	return verbose.Load()
}

// SetOutput redirects diagnostics away from stderr, primarily for
// tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Debug reports fine-grained progress, one line per call.
func Debug(format string, args ...any) {
	emit("[DEBUG] ", format, args...)
}

// Info reports pipeline milestones.
func Info(format string, args ...any) {
	emit("[INFO] ", format, args...)
}

// Warn reports recoverable failures that were swallowed, such as a
// failed audit write or a generator falling back.
func Warn(format string, args ...any) {
	emit("[WARN] ", format, args...)
}

// Section prints a header separating pipeline stages in the output.
func Section(name string) {
	if !verbose.Load() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "\n=== %s ===\n", name)
}

func emit(prefix, format string, args ...any) {
	if !verbose.Load() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, prefix+format+"\n", args...)
}
