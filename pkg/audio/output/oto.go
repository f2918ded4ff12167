// ABOUTME: Oto-based beep output implementation
// ABOUTME: Plays synthesized tones through a lazily opened oto context
package output

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/emgkit/flexbeeper/pkg/audio"
)

// Oto output implementation using oto library
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	sampleRate int
	gain       float64
	closed     bool

	playing sync.WaitGroup
}

// NewOto creates a beeper; the device is opened on the first Beep
func NewOto(gain float64) *Oto {
	return &Oto{
		sampleRate: audio.DefaultSampleRate,
		gain:       gain,
	}
}

// open initializes the oto context once per process
func (o *Oto) open() error {
	if o.otoCtx != nil {
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   o.sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan
	o.otoCtx = ctx

	log.Printf("Audio output initialized: %dHz mono", o.sampleRate)
	return nil
}

// Beep plays a tone in the background
func (o *Oto) Beep(frequencyHz float64, duration time.Duration) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return fmt.Errorf("output closed")
	}
	if err := o.open(); err != nil {
		o.mu.Unlock()
		return err
	}
	ctx := o.otoCtx
	o.playing.Add(1)
	o.mu.Unlock()

	tone := audio.Tone{
		FrequencyHz: frequencyHz,
		Duration:    duration,
		Gain:        o.gain,
		SampleRate:  o.sampleRate,
	}

	player := ctx.NewPlayer(bytes.NewReader(tone.PCM()))
	player.Play()

	go func() {
		defer o.playing.Done()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			log.Printf("Error closing beep player: %v", err)
		}
	}()

	return nil
}

// Close waits for playing tones and suspends the device
func (o *Oto) Close() error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	o.playing.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.otoCtx != nil {
		return o.otoCtx.Suspend()
	}
	return nil
}
