// ABOUTME: Sine tone synthesis for feedback beeps
// ABOUTME: Produces mono 16-bit little-endian PCM with short fades
package audio

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	// DefaultSampleRate is the output rate for synthesized tones
	DefaultSampleRate = 48000

	// DefaultGain matches a quiet notification beep
	DefaultGain = 0.12

	// fadeDuration ramps the envelope at both ends to avoid clicks
	fadeDuration = 5 * time.Millisecond
)

// Tone describes a fixed-frequency beep
type Tone struct {
	FrequencyHz float64
	Duration    time.Duration
	Gain        float64 // 0..1
	SampleRate  int
}

// Samples returns the tone as mono int16 samples
func (t Tone) Samples() []int16 {
	rate := t.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	gain := clamp(t.Gain, 0, 1)

	n := int(math.Round(t.Duration.Seconds() * float64(rate)))
	if n <= 0 {
		return nil
	}

	fade := int(math.Round(fadeDuration.Seconds() * float64(rate)))
	if fade > n/2 {
		fade = n / 2
	}

	out := make([]int16, n)
	for i := range out {
		env := 1.0
		if fade > 0 {
			if i < fade {
				env = float64(i) / float64(fade)
			} else if i >= n-fade {
				env = float64(n-1-i) / float64(fade)
			}
		}

		s := math.Sin(2 * math.Pi * t.FrequencyHz * float64(i) / float64(rate))
		out[i] = int16(s * env * gain * math.MaxInt16)
	}

	return out
}

// PCM returns the tone as 16-bit little-endian bytes
func (t Tone) PCM() []byte {
	return EncodePCM16(t.Samples())
}

// EncodePCM16 packs samples as little-endian int16
func EncodePCM16(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
