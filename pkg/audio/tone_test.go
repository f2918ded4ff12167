// ABOUTME: Tests for tone synthesis
// ABOUTME: Checks length, amplitude bounds, fades and PCM packing
package audio

import (
	"math"
	"testing"
	"time"
)

func TestToneLength(t *testing.T) {
	tone := Tone{FrequencyHz: 880, Duration: 120 * time.Millisecond, Gain: DefaultGain, SampleRate: 48000}

	samples := tone.Samples()
	if len(samples) != 5760 {
		t.Errorf("expected 5760 samples, got %d", len(samples))
	}
	if len(tone.PCM()) != 2*len(samples) {
		t.Errorf("expected %d PCM bytes, got %d", 2*len(samples), len(tone.PCM()))
	}
}

func TestToneAmplitude(t *testing.T) {
	tone := Tone{FrequencyHz: 440, Duration: 50 * time.Millisecond, Gain: 0.5}

	gain := 0.5
	limit := int16(gain*math.MaxInt16) + 1
	var peak int16
	for _, s := range tone.Samples() {
		if s > limit || s < -limit {
			t.Fatalf("sample %d exceeds gain limit %d", s, limit)
		}
		if s > peak {
			peak = s
		}
	}

	if peak < limit/2 {
		t.Errorf("peak %d too quiet for gain 0.5", peak)
	}
}

func TestToneFades(t *testing.T) {
	samples := Tone{FrequencyHz: 1000, Duration: 100 * time.Millisecond, Gain: 1}.Samples()

	if samples[0] != 0 {
		t.Errorf("expected silent first sample, got %d", samples[0])
	}
	if samples[len(samples)-1] != 0 {
		t.Errorf("expected silent last sample, got %d", samples[len(samples)-1])
	}
}

func TestToneDefaultsAndClamps(t *testing.T) {
	tests := []struct {
		name string
		tone Tone
		want int
	}{
		{"zero duration", Tone{FrequencyHz: 880}, 0},
		{"default rate", Tone{FrequencyHz: 880, Duration: 10 * time.Millisecond}, 480},
		{"gain above one", Tone{FrequencyHz: 880, Duration: 10 * time.Millisecond, Gain: 5}, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.tone.Samples()); got != tt.want {
				t.Errorf("expected %d samples, got %d", tt.want, got)
			}
		})
	}
}

func TestEncodePCM16(t *testing.T) {
	got := EncodePCM16([]int16{1, -2, 0x1234})
	want := []byte{0x01, 0x00, 0xFE, 0xFF, 0x34, 0x12}

	if len(got) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}
