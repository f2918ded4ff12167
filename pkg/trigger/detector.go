// ABOUTME: Hysteresis trigger state machine with refractory timer
// ABOUTME: Fires once per high crossing, re-arms below the low threshold
package trigger

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvertedThresholds is returned when High is not above Low
	ErrInvertedThresholds = errors.New("high threshold must be greater than low threshold")

	// ErrNegativeGap is returned for a negative refractory period
	ErrNegativeGap = errors.New("refractory gap must not be negative")
)

// Clock supplies monotonic timestamps
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock's monotonic reading
type SystemClock struct{}

// Now returns time.Now
func (SystemClock) Now() time.Time { return time.Now() }

// Config holds trigger parameters
type Config struct {
	High   float64       // fire at or above
	Low    float64       // re-arm at or below
	MinGap time.Duration // refractory period between fires
}

// Validate checks that the thresholds form a hysteresis band
func (c Config) Validate() error {
	if !(c.High > c.Low) {
		return fmt.Errorf("%w: high=%v low=%v", ErrInvertedThresholds, c.High, c.Low)
	}
	if c.MinGap < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeGap, c.MinGap)
	}
	return nil
}

// Event describes one fire
type Event struct {
	At    time.Time
	Value float64 // sample that crossed High
	Count int     // fires since creation or Reset, including this one
}

// Detector is the per-session trigger state. It is not safe for concurrent
// use; the goroutine that decodes frames owns it.
type Detector struct {
	cfg      Config
	clock    Clock
	armed    bool
	fired    bool // lastFire is valid
	lastFire time.Time
	count    int
}

// NewDetector creates an armed detector
func NewDetector(cfg Config, clock Clock) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &Detector{
		cfg:   cfg,
		clock: clock,
		armed: true,
	}, nil
}

// Feed evaluates samples in order and returns the fires they caused. All
// samples of one call share a single timestamp.
func (d *Detector) Feed(samples []float64) []Event {
	if len(samples) == 0 {
		return nil
	}

	now := d.clock.Now()
	var events []Event

	for _, v := range samples {
		if d.armed {
			if v >= d.cfg.High && d.gapElapsed(now) {
				d.fired = true
				d.lastFire = now
				d.armed = false
				d.count++
				events = append(events, Event{At: now, Value: v, Count: d.count})
			}
		} else if v <= d.cfg.Low {
			d.armed = true
		}
	}

	return events
}

// gapElapsed reports whether the refractory period has passed
func (d *Detector) gapElapsed(now time.Time) bool {
	if !d.fired {
		return true
	}
	return now.Sub(d.lastFire) >= d.cfg.MinGap
}

// SetConfig replaces the parameters, keeping armed state and history
func (d *Detector) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.cfg = cfg
	return nil
}

// Config returns the current parameters
func (d *Detector) Config() Config {
	return d.cfg
}

// Armed reports whether the next high crossing may fire
func (d *Detector) Armed() bool {
	return d.armed
}

// Count returns the number of fires
func (d *Detector) Count() int {
	return d.count
}

// Reset returns to the initial armed state and clears the count
func (d *Detector) Reset() {
	d.armed = true
	d.fired = false
	d.lastFire = time.Time{}
	d.count = 0
}

// ResetCount clears the fire counter only
func (d *Detector) ResetCount() {
	d.count = 0
}
