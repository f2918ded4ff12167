// ABOUTME: EMG1 frame header and sample definitions
// ABOUTME: Encodes frames into the little-endian wire layout
package emg

import (
	"encoding/binary"
	"math"
)

const (
	// Marker starts every frame on the wire
	Marker = "EMG1"

	// HeaderSize is the size of marker plus fixed header fields
	HeaderSize = 4 + 2 + 2 + 2 + 4 // 14 bytes

	// MaxSamplesPerFrame is the largest payload a header can describe
	MaxSamplesPerFrame = math.MaxUint16
)

// Field offsets relative to the start of the marker
const (
	offSampleCount = 4
	offSampleRate  = 6
	offScale       = 8
	offSequence    = 10
)

// FrameHeader describes one frame of samples
type FrameHeader struct {
	SampleCount  uint16
	SampleRateHz uint16
	Scale        int16 // never 0 once decoded
	Sequence     uint32
}

// Frame is a decoded header plus samples in physical units
type Frame struct {
	Header  FrameHeader
	Samples []float64
}

// FrameSize returns the wire size of a frame carrying n samples
func FrameSize(n int) int {
	return HeaderSize + n*2
}

// Encode builds the wire bytes for a frame. The header's SampleCount is
// taken from len(raw), which must not exceed MaxSamplesPerFrame.
func Encode(h FrameHeader, raw []int16) []byte {
	buf := make([]byte, FrameSize(len(raw)))
	copy(buf, Marker)
	binary.LittleEndian.PutUint16(buf[offSampleCount:], uint16(len(raw)))
	binary.LittleEndian.PutUint16(buf[offSampleRate:], h.SampleRateHz)
	binary.LittleEndian.PutUint16(buf[offScale:], uint16(h.Scale))
	binary.LittleEndian.PutUint32(buf[offSequence:], h.Sequence)

	for i, s := range raw {
		binary.LittleEndian.PutUint16(buf[HeaderSize+i*2:], uint16(s))
	}

	return buf
}

// Quantize converts physical values to raw int16 counts for the given
// scale, rounding to nearest and clamping to the int16 range.
func Quantize(values []float64, scale int16) []int16 {
	if scale == 0 {
		scale = 1
	}

	raw := make([]int16, len(values))
	for i, v := range values {
		r := math.Round(v * float64(scale))
		if r > math.MaxInt16 {
			r = math.MaxInt16
		} else if r < math.MinInt16 {
			r = math.MinInt16
		}
		raw[i] = int16(r)
	}
	return raw
}
