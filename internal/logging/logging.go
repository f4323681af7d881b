// Package logging provides the process-wide structured logger and the
// bounded in-memory buffer the TUI reads recent log lines from.
package logging

import (
	"bytes"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// bufferCapacity bounds the number of log lines retained for display.
const bufferCapacity = 500

// Buffer is a mutex-guarded ring of formatted log lines. It is the only
// handle ever shared outside this package; the logger itself is not.
type Buffer struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

func newBuffer() *Buffer {
	return &Buffer{lines: make([]string, bufferCapacity)}
}

func (b *Buffer) append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines[b.next] = line
	b.next = (b.next + 1) % bufferCapacity
	if b.next == 0 {
		b.full = true
	}
}

// Snapshot returns the retained lines in chronological order.
func (b *Buffer) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.full {
		out := make([]string, b.next)
		copy(out, b.lines[:b.next])
		return out
	}
	out := make([]string, bufferCapacity)
	copy(out, b.lines[b.next:])
	copy(out[bufferCapacity-b.next:], b.lines[:b.next])
	return out
}

// bufferWriter adapts Buffer to io.Writer, splitting on newlines so each
// formatted record becomes one buffer entry.
type bufferWriter struct {
	buf *Buffer
}

func (w *bufferWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.buf.append(string(line))
	}
	return len(p), nil
}

var (
	initOnce sync.Once
	buffer   *Buffer
	base     *log.Logger
)

// Init creates the process-wide logger, writing to both stderr (via w) and
// the bounded buffer. It must be called exactly once, at startup.
func Init(w io.Writer, level log.Level) *Buffer {
	initOnce.Do(func() {
		buffer = newBuffer()
		out := io.MultiWriter(w, &bufferWriter{buf: buffer})
		base = log.NewWithOptions(out, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.000",
		})
		base.SetLevel(level)
	})
	return buffer
}

// For returns a sub-logger scoped with a component prefix. Safe to call
// before or after Init; if called before Init it falls back to a detached
// default logger so callers never observe a nil logger.
func For(component string) *log.Logger {
	if base == nil {
		return log.Default().WithPrefix(component)
	}
	return base.WithPrefix(component)
}

// ParseLevel maps the config's `log_level` string (an env-filter style
// expression in the original; voxmux accepts the bare level name) to a
// charmbracelet/log level, defaulting to Info on anything unrecognized.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
