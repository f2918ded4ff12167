// ABOUTME: Audio fundamentals package for feedback tones
// ABOUTME: Tone synthesis and PCM packing helpers
// Package audio synthesizes the short sine beeps played when the trigger
// fires.
//
// Example:
//
//	tone := audio.Tone{FrequencyHz: 880, Duration: 120 * time.Millisecond, Gain: audio.DefaultGain}
//	pcm := tone.PCM() // mono, 16-bit little-endian at 48kHz
package audio
