// Package pipeline implements the bridge between the ASR aggregate output
// and the destination router: a bounded recognition buffer for the UI
// display path, and a forwarder task that populates it while passing every
// result through untouched.
package pipeline

import "sync"

// recognitionBufferCapacity is the default bound; oldest entries are
// dropped on overflow.
const recognitionBufferCapacity = 50

// RecognitionBuffer is a bounded, drop-oldest ring of formatted lines —
// the sole bridge from the recognition plane to the UI display path.
type RecognitionBuffer struct {
	mu    sync.Mutex
	lines []string
}

// NewRecognitionBuffer constructs an empty buffer at the default capacity.
func NewRecognitionBuffer() *RecognitionBuffer {
	return &RecognitionBuffer{lines: make([]string, 0, recognitionBufferCapacity)}
}

// Push appends line, dropping the oldest entry if the buffer is full.
func (b *RecognitionBuffer) Push(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lines) >= recognitionBufferCapacity {
		b.lines = b.lines[1:]
	}
	b.lines = append(b.lines, line)
}

// Snapshot returns a copy of the buffered lines, oldest first.
func (b *RecognitionBuffer) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}
