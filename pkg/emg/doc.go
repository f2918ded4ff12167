// ABOUTME: EMG1 wire format package
// ABOUTME: Frame types, encoder and resynchronizing stream decoder
// Package emg implements the EMG1 sensor wire format.
//
// A sensor emits a continuous byte stream of frames, each starting with the
// ASCII marker "EMG1" followed by a 14-byte little-endian header and the
// int16 sample payload. Transport chunk boundaries carry no meaning; the
// Decoder buffers partial frames and resynchronizes on the marker.
//
// Example:
//
//	dec := emg.NewDecoder(handler)
//	for chunk := range chunks {
//		dec.Push(chunk)
//	}
package emg
