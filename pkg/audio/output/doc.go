// ABOUTME: Audio output package for playing beeps
// ABOUTME: Provides Beeper interface with oto and silent implementations
// Package output plays feedback beeps.
//
// The oto implementation opens the audio device lazily on the first beep;
// Silent records beeps without touching any device.
//
// Example:
//
//	out := output.NewOto(audio.DefaultGain)
//	defer out.Close()
//	err := out.Beep(880, 120*time.Millisecond)
package output
