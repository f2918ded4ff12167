// ABOUTME: Live waveform rendering package
// ABOUTME: Autoscaled, right-to-left plot of a ring buffer on a raster surface
// Package waveform draws the ring buffer history as a line plot.
//
// The Renderer maps every pixel column of a Surface onto the ring (column 0
// is the newest sample), autoscales to the data's min/max and connects the
// columns with line segments. A Loop repaints at a fixed refresh rate and
// hands each finished frame to a Sink.
//
// Example:
//
//	canvas := waveform.NewCanvas(80, 10)
//	r := waveform.NewRenderer(buf, canvas, waveform.Options{})
//	loop := waveform.NewLoop(r, 30, sink)
//	loop.Start()
//	defer loop.Stop()
package waveform
