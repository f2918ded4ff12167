// ABOUTME: Sensor link package
// ABOUTME: WebSocket client delivering raw binary chunks from a sensor
// Package link connects to an EMG sensor's websocket endpoint.
//
// The sensor pushes binary messages whose boundaries carry no meaning; the
// client forwards each payload unchanged on its Chunks channel for a
// stream decoder to reassemble.
//
// Example:
//
//	c := link.NewClient(link.Config{Endpoint: "192.168.4.1:81"})
//	if err := c.Connect(); err != nil {
//		return err
//	}
//	for chunk := range c.Chunks {
//		dec.Push(chunk)
//	}
package link
