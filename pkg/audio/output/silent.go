// ABOUTME: Silent beep output for headless runs and tests
// ABOUTME: Records requested tones without opening an audio device
package output

import (
	"sync"
	"time"
)

// Beep records one requested tone
type Beep struct {
	FrequencyHz float64
	Duration    time.Duration
}

// Silent is a Beeper that only records
type Silent struct {
	mu    sync.Mutex
	beeps []Beep
}

// NewSilent creates a silent beeper
func NewSilent() *Silent {
	return &Silent{}
}

// Beep records the tone
func (s *Silent) Beep(frequencyHz float64, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beeps = append(s.beeps, Beep{FrequencyHz: frequencyHz, Duration: duration})
	return nil
}

// Beeps returns a copy of the recorded tones
func (s *Silent) Beeps() []Beep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Beep(nil), s.beeps...)
}

// Close does nothing
func (s *Silent) Close() error {
	return nil
}
