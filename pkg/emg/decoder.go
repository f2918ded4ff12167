// ABOUTME: Resynchronizing EMG1 stream decoder
// ABOUTME: Buffers arbitrary chunks, extracts frames and reports sequence gaps
package emg

import (
	"bytes"
	"encoding/binary"
)

var marker = []byte(Marker)

// Handler receives decoder output. Both methods are called synchronously
// from Push, in stream order.
type Handler interface {
	// HandleFrame is called once per complete frame
	HandleFrame(f Frame)

	// HandleDrop is called before HandleFrame when the frame's sequence
	// number does not follow the previous one
	HandleDrop(expected, actual uint32)
}

// Stats counts decoder activity since creation or the last Reset
type Stats struct {
	Frames         uint64 // frames emitted
	DropEvents     uint64 // HandleDrop calls
	MissedFrames   uint64 // sum of sequence gaps, modulo 2^32 per gap
	DiscardedBytes uint64 // bytes skipped while hunting for a marker
}

// Decoder turns a chunked byte stream into frames. It is not safe for
// concurrent use; one goroutine owns it for the life of a session.
type Decoder struct {
	handler Handler
	pending []byte
	lastSeq int64 // -1 until the first frame
	stats   Stats
}

// NewDecoder creates a decoder delivering to handler
func NewDecoder(handler Handler) *Decoder {
	return &Decoder{
		handler: handler,
		lastSeq: -1,
	}
}

// Push appends a chunk and emits every frame that is now complete
func (d *Decoder) Push(chunk []byte) {
	d.pending = append(d.pending, chunk...)
	d.parse()
}

// Reset drops buffered bytes and sequence history
func (d *Decoder) Reset() {
	d.pending = d.pending[:0]
	d.lastSeq = -1
	d.stats = Stats{}
}

// Pending returns the number of buffered bytes awaiting completion
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// Stats returns the current counters
func (d *Decoder) Stats() Stats {
	return d.stats
}

// parse extracts frames until the buffer holds no complete frame
func (d *Decoder) parse() {
	off := 0

	for {
		rel := bytes.Index(d.pending[off:], marker)
		if rel < 0 {
			// Only a marker prefix at the very end can still become a frame
			keep := len(d.pending) - off
			if keep > len(marker)-1 {
				keep = len(marker) - 1
			}
			d.stats.DiscardedBytes += uint64(len(d.pending) - off - keep)
			d.retain(len(d.pending) - keep)
			return
		}

		i := off + rel
		d.stats.DiscardedBytes += uint64(rel)

		if len(d.pending)-i < HeaderSize {
			d.retain(i)
			return
		}

		h := parseHeader(d.pending[i:])
		size := FrameSize(int(h.SampleCount))
		if len(d.pending)-i < size {
			d.retain(i)
			return
		}

		samples := decodeSamples(d.pending[i+HeaderSize:i+size], h.Scale)

		if d.lastSeq >= 0 {
			expected := uint32(d.lastSeq) + 1
			if expected != h.Sequence {
				d.stats.DropEvents++
				d.stats.MissedFrames += uint64(h.Sequence - expected)
				d.handler.HandleDrop(expected, h.Sequence)
			}
		}
		d.lastSeq = int64(h.Sequence)
		d.stats.Frames++

		d.handler.HandleFrame(Frame{Header: h, Samples: samples})

		off = i + size
	}
}

// retain keeps pending[start:] and reuses the backing array
func (d *Decoder) retain(start int) {
	n := copy(d.pending, d.pending[start:])
	d.pending = d.pending[:n]
}

// parseHeader reads the fixed header at the start of b (marker included)
func parseHeader(b []byte) FrameHeader {
	h := FrameHeader{
		SampleCount:  binary.LittleEndian.Uint16(b[offSampleCount:]),
		SampleRateHz: binary.LittleEndian.Uint16(b[offSampleRate:]),
		Scale:        int16(binary.LittleEndian.Uint16(b[offScale:])),
		Sequence:     binary.LittleEndian.Uint32(b[offSequence:]),
	}
	if h.Scale == 0 {
		h.Scale = 1
	}
	return h
}

// decodeSamples converts int16 LE payload bytes to physical values
func decodeSamples(payload []byte, scale int16) []float64 {
	out := make([]float64, len(payload)/2)
	div := float64(scale)
	for k := range out {
		raw := int16(binary.LittleEndian.Uint16(payload[k*2:]))
		out[k] = float64(raw) / div
	}
	return out
}
