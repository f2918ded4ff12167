// ABOUTME: Audio output interface tests
// ABOUTME: Verifies Beeper implementations without opening a device
package output

import (
	"testing"
	"time"
)

func TestImplementationsSatisfyBeeper(t *testing.T) {
	var _ Beeper = (*Oto)(nil)
	var _ Beeper = (*Silent)(nil)
}

func TestNewOto(t *testing.T) {
	out := NewOto(0.2)
	if out == nil {
		t.Fatal("NewOto returned nil")
	}
	if out.otoCtx != nil {
		t.Error("device must not be opened before the first beep")
	}
}

func TestOtoCloseWithoutBeep(t *testing.T) {
	out := NewOto(0.2)
	if err := out.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := out.Beep(880, time.Millisecond); err == nil {
		t.Error("expected Beep after Close to fail")
	}
}

func TestSilentRecordsBeeps(t *testing.T) {
	s := NewSilent()
	s.Beep(880, 120*time.Millisecond)
	s.Beep(440, 50*time.Millisecond)

	beeps := s.Beeps()
	if len(beeps) != 2 {
		t.Fatalf("expected 2 beeps, got %d", len(beeps))
	}
	if beeps[0].FrequencyHz != 880 || beeps[1].Duration != 50*time.Millisecond {
		t.Errorf("unexpected beeps: %+v", beeps)
	}
}
