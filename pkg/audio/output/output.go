// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for beep playback backends
package output

import "time"

// Beeper plays short fixed-frequency tones
type Beeper interface {
	// Beep starts a tone and returns without waiting for it to finish
	Beep(frequencyHz float64, duration time.Duration) error

	// Close waits for playing tones and releases the device
	Close() error
}
