// Package ring implements the lock-free single-producer/single-consumer
// bounded f32 queue the realtime audio path is built on. Capacity is fixed
// at construction; there is no dynamic resizing.
package ring

import "sync/atomic"

// Buffer is a fixed-capacity SPSC ring of float32 samples. The zero value
// is not usable; construct with New. A Buffer must have exactly one writer
// (calling PushSlice) and one reader (calling PopSlice/TryPop) for its
// lifetime.
type Buffer struct {
	data []float32
	cap  uint64
	head atomic.Uint64 // next write index, producer-owned
	tail atomic.Uint64 // next read index, consumer-owned
}

// New creates a ring buffer with room for capacity samples.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer{
		data: make([]float32, capacity),
		cap:  uint64(capacity),
	}
}

// Capacity returns the fixed capacity of the ring.
func (b *Buffer) Capacity() int { return int(b.cap) }

// PushSlice writes as many leading samples of src as fit, silently dropping
// the rest. It returns the number of samples accepted. Producer-side only.
func (b *Buffer) PushSlice(src []float32) int {
	head := b.head.Load()
	tail := b.tail.Load()

	free := b.cap - (head - tail)
	n := uint64(len(src))
	if n > free {
		n = free
	}
	for i := uint64(0); i < n; i++ {
		b.data[(head+i)%b.cap] = src[i]
	}
	if n > 0 {
		b.head.Store(head + n)
	}
	return int(n)
}

// PopSlice drains up to len(dst) available samples into dst, returning the
// number drained. Consumer-side only.
func (b *Buffer) PopSlice(dst []float32) int {
	head := b.head.Load()
	tail := b.tail.Load()

	available := head - tail
	n := uint64(len(dst))
	if n > available {
		n = available
	}
	for i := uint64(0); i < n; i++ {
		dst[i] = b.data[(tail+i)%b.cap]
	}
	if n > 0 {
		b.tail.Store(tail + n)
	}
	return int(n)
}

// TryPop pops exactly one sample, if available. Consumer-side only.
func (b *Buffer) TryPop() (float32, bool) {
	head := b.head.Load()
	tail := b.tail.Load()
	if head == tail {
		return 0, false
	}
	v := b.data[tail%b.cap]
	b.tail.Store(tail + 1)
	return v, true
}

// Len returns the number of samples currently available to pop. It is
// advisory: in the presence of a concurrent producer the true count may be
// larger by the time the caller acts on it.
func (b *Buffer) Len() int {
	return int(b.head.Load() - b.tail.Load())
}
