// ABOUTME: Tests for the braille canvas surface
// ABOUTME: Verifies dot addressing, lines and styled rendering
package waveform

import (
	"strings"
	"testing"
)

func TestCanvasSetAndRender(t *testing.T) {
	c := NewCanvas(2, 1)

	for y := 0; y < dotsY; y++ {
		for x := 0; x < dotsX; x++ {
			c.Set(x, y, PenTrace)
		}
	}
	c.Set(2, 0, PenGrid) // top-left dot of the second cell

	got := c.Render(nil)
	want := "⣿⠁"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(-1, 0, PenTrace)
	c.Set(0, 4, PenTrace)
	c.Set(2, 0, PenTrace)

	if got := c.Render(nil); got != "⠀" {
		t.Errorf("expected blank cell, got %q", got)
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 1) // 8x4 dots

	c.Line(0, 0, 7, 3, PenTrace)
	if !c.Lit(0, 0) || !c.Lit(7, 3) {
		t.Error("line endpoints not lit")
	}

	// Every column of a shallow line has a dot
	for x := 0; x < 8; x++ {
		if !litColumn(c, x) {
			t.Errorf("column %d empty", x)
		}
	}

	// Reversed direction draws the same endpoints
	c.Clear()
	c.Line(7, 0, 0, 0, PenGrid)
	for x := 0; x < 8; x++ {
		if !c.Lit(x, 0) {
			t.Errorf("horizontal line missing dot %d", x)
		}
	}
}

func TestCanvasStyledRuns(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Line(0, 3, 5, 3, PenGrid)
	c.Set(0, 0, PenTrace)

	var pens []Pen
	out := c.Render(func(pen Pen, s string) string {
		pens = append(pens, pen)
		return "[" + s + "]"
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	// Row 0: trace cell wins over grid, then a grid run of two cells
	if len(pens) < 2 || pens[0] != PenTrace || pens[1] != PenGrid {
		t.Errorf("unexpected pen runs: %v", pens)
	}
	if strings.Count(lines[0], "[") != 2 {
		t.Errorf("expected 2 runs in row 0, got %q", lines[0])
	}
}

func TestCanvasResizeClears(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0, PenTrace)
	c.Resize(3, 1)

	if cols, rows := c.Bounds(); cols != 3 || rows != 1 {
		t.Errorf("bounds = %dx%d, want 3x1", cols, rows)
	}
	if c.Lit(0, 0) {
		t.Error("resize should clear the canvas")
	}
}
