// ABOUTME: Ring buffer package for live sample history
// ABOUTME: Fixed memory, oldest samples silently evicted
// Package ring provides the fixed-capacity circular sample store shared by
// the decode path (writer) and the waveform renderer (reader).
//
// Example:
//
//	buf, _ := ring.New(ring.DefaultCapacity)
//	buf.Append(frame.Samples)
//	snap := buf.Snapshot()
package ring
