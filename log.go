package loom

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type logRecorderKey struct{}

// LogRecorder collects program log lines of a single transaction.
type LogRecorder struct {
	mu    sync.Mutex
	lines []string
}

// WithLogRecorder attaches a recorder so that Log output is kept for the
// transaction result.
func WithLogRecorder(ctx Context, r *LogRecorder) Context {
	return context.WithValue(ctx, logRecorderKey{}, r)
}

// Lines returns a copy of all recorded lines.
func (r *LogRecorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// String joins all lines, one per line.
func (r *LogRecorder) String() string {
	return strings.Join(r.Lines(), "\n")
}

func (r *LogRecorder) add(line string) {
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
}

// Log writes a program log line. The line is kept in the transaction
// result and also sent to the context logger.
func Log(ctx Context, msg string) {
	line := "Program log: " + msg
	if r, ok := ctx.Value(logRecorderKey{}).(*LogRecorder); ok {
		r.add(line)
	}
	GetLogger(ctx).Debug(line)
}

// Logf is Log with formatting.
func Logf(ctx Context, format string, args ...interface{}) {
	Log(ctx, fmt.Sprintf(format, args...))
}
