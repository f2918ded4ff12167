// ABOUTME: Braille dot canvas implementing Surface for terminals
// ABOUTME: Each character cell holds a 2x4 grid of dots
package waveform

import "strings"

const (
	brailleBase = 0x2800
	dotsX       = 2
	dotsY       = 4
)

// dotBits maps a dot position within a cell to its braille bit
var dotBits = [dotsY][dotsX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Surface drawn with Unicode braille characters
type Canvas struct {
	cols, rows int
	dots       []uint8
	pens       []Pen
}

// NewCanvas creates a canvas of cols x rows character cells
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Bounds returns the size in character cells
func (c *Canvas) Bounds() (int, int) {
	return c.cols, c.rows
}

// Density returns dots per cell
func (c *Canvas) Density() (int, int) {
	return dotsX, dotsY
}

// Resize reallocates the canvas; contents are cleared
func (c *Canvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c.cols, c.rows = cols, rows
	c.dots = make([]uint8, cols*rows)
	c.pens = make([]Pen, cols*rows)
}

// Clear blanks every cell
func (c *Canvas) Clear() {
	for i := range c.dots {
		c.dots[i] = 0
		c.pens[i] = PenNone
	}
}

// Set lights the dot at pixel (x, y); out-of-range dots are ignored
func (c *Canvas) Set(x, y int, pen Pen) {
	if x < 0 || y < 0 || x >= c.cols*dotsX || y >= c.rows*dotsY {
		return
	}
	i := (y/dotsY)*c.cols + x/dotsX
	c.dots[i] |= dotBits[y%dotsY][x%dotsX]
	if pen > c.pens[i] {
		c.pens[i] = pen
	}
}

// Lit reports whether the dot at pixel (x, y) is set
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x >= c.cols*dotsX || y >= c.rows*dotsY {
		return false
	}
	i := (y/dotsY)*c.cols + x/dotsX
	return c.dots[i]&dotBits[y%dotsY][x%dotsX] != 0
}

// Line draws a straight segment using Bresenham's algorithm
func (c *Canvas) Line(x0, y0, x1, y1 int, pen Pen) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.Set(x0, y0, pen)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Render returns the canvas as text, one line per row. style wraps each run
// of cells sharing a pen; nil leaves text unstyled.
func (c *Canvas) Render(style func(pen Pen, s string) string) string {
	var b strings.Builder

	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}

		var run strings.Builder
		runPen := PenNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if style != nil {
				b.WriteString(style(runPen, run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}

		for col := 0; col < c.cols; col++ {
			i := row*c.cols + col
			if c.pens[i] != runPen {
				flush()
				runPen = c.pens[i]
			}
			run.WriteRune(rune(brailleBase + int(c.dots[i])))
		}
		flush()
	}

	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
