// ABOUTME: Tests for circular sample history
// ABOUTME: Verifies append, wrap-around, snapshots and index arithmetic
package ring

import (
	"sync"
	"testing"
)

func seq(from, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(from + i)
	}
	return out
}

func TestNew(t *testing.T) {
	buf, err := New(8)
	if err != nil {
		t.Fatalf("New(8) failed: %v", err)
	}
	if buf.Capacity() != 8 {
		t.Errorf("expected capacity 8, got %d", buf.Capacity())
	}

	snap := buf.Snapshot()
	if len(snap.Samples) != 8 || snap.WritePointer != 0 {
		t.Errorf("unexpected initial snapshot: %+v", snap)
	}
}

func TestNewRejectsBadCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		if _, err := New(c); err != ErrCapacity {
			t.Errorf("New(%d) error = %v, want ErrCapacity", c, err)
		}
	}
}

func TestAppendSimple(t *testing.T) {
	buf, _ := New(10)
	buf.Append([]float64{1, 2, 3})

	snap := buf.Snapshot()
	if snap.WritePointer != 3 {
		t.Errorf("expected write pointer 3, got %d", snap.WritePointer)
	}
	for i, want := range []float64{1, 2, 3, 0} {
		if snap.Samples[i] != want {
			t.Errorf("slot %d: got %v, want %v", i, snap.Samples[i], want)
		}
	}
}

func TestWrapAround(t *testing.T) {
	const capacity = 100

	for _, k := range []int{0, 1, 37, 100, 250} {
		buf, _ := New(capacity)

		// Feed in odd-sized pieces to cross the boundary mid-append
		data := seq(0, capacity+k)
		for len(data) > 0 {
			n := 7
			if n > len(data) {
				n = len(data)
			}
			buf.Append(data[:n])
			data = data[n:]
		}

		snap := buf.Snapshot()
		if len(snap.Samples) != capacity {
			t.Fatalf("k=%d: storage grew to %d", k, len(snap.Samples))
		}

		latest := buf.Latest(capacity)
		for i, v := range latest {
			if want := float64(k + i); v != want {
				t.Fatalf("k=%d: latest[%d] = %v, want %v", k, i, v, want)
			}
		}

		if buf.Written() != uint64(capacity+k) {
			t.Errorf("k=%d: written = %d, want %d", k, buf.Written(), capacity+k)
		}
	}
}

func TestAppendLargerThanCapacity(t *testing.T) {
	buf, _ := New(4)
	buf.Append(seq(0, 10))

	got := buf.Latest(4)
	for i, want := range []float64{6, 7, 8, 9} {
		if got[i] != want {
			t.Errorf("latest[%d] = %v, want %v", i, got[i], want)
		}
	}

	snap := buf.Snapshot()
	if snap.WritePointer != 10%4 {
		t.Errorf("expected write pointer %d, got %d", 10%4, snap.WritePointer)
	}
	if snap.Samples[Index(snap.WritePointer, 0, 4)] != 9 {
		t.Errorf("newest sample not at write pointer - 1")
	}
}

func TestLatestBeforeFull(t *testing.T) {
	buf, _ := New(10)
	buf.Append([]float64{5, 6})

	got := buf.Latest(5)
	if len(got) != 2 || got[0] != 5 || got[1] != 6 {
		t.Errorf("Latest(5) = %v, want [5 6]", got)
	}

	if len(buf.Latest(0)) != 0 {
		t.Error("Latest(0) should be empty")
	}
}

func TestReadIntoReusesBuffer(t *testing.T) {
	buf, _ := New(16)
	buf.Append(seq(1, 3))

	scratch := make([]float64, 16)
	snap := buf.ReadInto(scratch)
	if &snap.Samples[0] != &scratch[0] {
		t.Error("expected snapshot to reuse the scratch slice")
	}
	if snap.Samples[2] != 3 {
		t.Errorf("expected slot 2 = 3, got %v", snap.Samples[2])
	}

	// Snapshot is a copy; later writes do not show through
	buf.Append([]float64{99})
	if snap.Samples[3] != 0 {
		t.Error("snapshot changed after append")
	}
}

func TestIndex(t *testing.T) {
	tests := []struct {
		wp, age, capacity, want int
	}{
		{wp: 5, age: 0, capacity: 10, want: 4},
		{wp: 0, age: 0, capacity: 10, want: 9},
		{wp: 0, age: 9, capacity: 10, want: 0},
		{wp: 3, age: 25, capacity: 10, want: 7},
		{wp: 0, age: 1000, capacity: 7, want: Mod(-1001, 7)},
	}

	for _, tt := range tests {
		got := Index(tt.wp, tt.age, tt.capacity)
		if got != tt.want {
			t.Errorf("Index(%d, %d, %d) = %d, want %d", tt.wp, tt.age, tt.capacity, got, tt.want)
		}
		if got < 0 || got >= tt.capacity {
			t.Errorf("Index out of range: %d", got)
		}
	}
}

func TestConcurrentReadWrite(t *testing.T) {
	buf, _ := New(64)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			buf.Append(seq(i, 5))
		}
	}()

	go func() {
		defer wg.Done()
		scratch := make([]float64, 64)
		for i := 0; i < 1000; i++ {
			snap := buf.ReadInto(scratch)
			if snap.WritePointer < 0 || snap.WritePointer >= 64 {
				t.Errorf("write pointer out of range: %d", snap.WritePointer)
				return
			}
		}
	}()

	wg.Wait()

	if buf.Written() != 5000 {
		t.Errorf("expected 5000 samples written, got %d", buf.Written())
	}
}
