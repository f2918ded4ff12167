// ABOUTME: Fixed-capacity circular sample history
// ABOUTME: Overwrites oldest samples; readers take locked snapshots
package ring

import (
	"errors"
	"sync"
)

// DefaultCapacity is the history length used by the viewer
const DefaultCapacity = 4000

// ErrCapacity is returned for a non-positive capacity
var ErrCapacity = errors.New("ring capacity must be positive")

// Buffer is a lossy fixed-memory history of samples. One writer and any
// number of readers may use it concurrently.
type Buffer struct {
	mu      sync.RWMutex
	buf     []float64
	w       int    // next slot to overwrite
	written uint64 // total samples appended
}

// Snapshot is a copy of the storage and write pointer taken atomically.
// Samples[WritePointer-1] (mod len) is the newest sample.
type Snapshot struct {
	Samples      []float64
	WritePointer int
	Written      uint64
}

// New creates a buffer holding capacity samples, all zero
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, ErrCapacity
	}
	return &Buffer{buf: make([]float64, capacity)}, nil
}

// Capacity returns the fixed number of slots
func (b *Buffer) Capacity() int {
	return len(b.buf)
}

// Append writes samples in order, wrapping over the oldest data
func (b *Buffer) Append(samples []float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.buf)
	// Only the last n samples can survive
	if len(samples) > n {
		skipped := len(samples) - n
		b.w = (b.w + skipped) % n
		b.written += uint64(skipped)
		samples = samples[skipped:]
	}

	for len(samples) > 0 {
		c := copy(b.buf[b.w:], samples)
		b.w = (b.w + c) % n
		b.written += uint64(c)
		samples = samples[c:]
	}
}

// Snapshot returns a freshly allocated copy of the buffer state
func (b *Buffer) Snapshot() Snapshot {
	return b.ReadInto(nil)
}

// ReadInto copies the buffer state into dst, growing it if needed, and
// returns a snapshot whose Samples alias dst. Renderers reuse dst across
// frames to avoid an allocation per repaint.
func (b *Buffer) ReadInto(dst []float64) Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if cap(dst) < len(b.buf) {
		dst = make([]float64, len(b.buf))
	}
	dst = dst[:len(b.buf)]
	copy(dst, b.buf)

	return Snapshot{
		Samples:      dst,
		WritePointer: b.w,
		Written:      b.written,
	}
}

// Latest returns up to n of the most recent samples, oldest first
func (b *Buffer) Latest(n int) []float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	size := len(b.buf)
	if n > size {
		n = size
	}
	if uint64(n) > b.written {
		n = int(b.written)
	}
	if n <= 0 {
		return []float64{}
	}

	out := make([]float64, n)
	start := ((b.w-n)%size + size) % size
	c := copy(out, b.buf[start:])
	if c < n {
		copy(out[c:], b.buf[:n-c])
	}
	return out
}

// Written returns the total number of samples ever appended
func (b *Buffer) Written() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.written
}

// Index returns the ring slot that is age samples older than the newest
// one, for any write pointer and any non-negative age.
func Index(writePointer, age, capacity int) int {
	return Mod(writePointer-1-age, capacity)
}

// Mod is the non-negative remainder of a divided by n (n > 0)
func Mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
