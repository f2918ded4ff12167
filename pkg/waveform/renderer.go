// ABOUTME: Waveform renderer with autoscale and column resampling
// ABOUTME: Maps a ring snapshot of any length onto a fixed-width raster
package waveform

import (
	"math"
	"sync"

	"github.com/emgkit/flexbeeper/pkg/ring"
)

// Pen selects how a stroke is displayed
type Pen int

const (
	PenNone Pen = iota
	PenGrid
	PenTrace
)

// Surface is a raster measured in logical cells, each Density() pixels wide
// and tall. Line coordinates are in pixels with y growing downwards.
type Surface interface {
	Bounds() (cols, rows int)
	Density() (dx, dy int)
	Resize(cols, rows int)
	Clear()
	Line(x0, y0, x1, y1 int, pen Pen)
}

// Source is the ring state the renderer reads
type Source interface {
	ReadInto(dst []float64) ring.Snapshot
}

// Options tunes the plot
type Options struct {
	// Margin keeps the trace this many pixels away from the top and bottom
	// edges. Zero means 1.
	Margin int
}

// Paint summarizes one repaint
type Paint struct {
	Width, Height int     // raster pixels
	VMin, VMax    float64 // value range mapped to the raster
	Fallback      bool    // range fell back to [-1, 1]
	Resized       bool
	Written       uint64 // ring samples appended so far
}

// Renderer draws a Source onto a Surface. Paint must be called from a
// single goroutine; SetSize may be called from any goroutine.
type Renderer struct {
	src     Source
	surface Surface
	margin  int

	mu         sync.Mutex
	cols, rows int // requested logical size

	scratch []float64
}

// NewRenderer creates a renderer whose size starts at the surface's size
func NewRenderer(src Source, surface Surface, opts Options) *Renderer {
	margin := opts.Margin
	if margin <= 0 {
		margin = 1
	}
	cols, rows := surface.Bounds()

	return &Renderer{
		src:     src,
		surface: surface,
		margin:  margin,
		cols:    cols,
		rows:    rows,
	}
}

// SetSize requests a new logical display size, applied on the next Paint
func (r *Renderer) SetSize(cols, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cols = cols
	r.rows = rows
}

// Paint redraws the surface from the current ring state
func (r *Renderer) Paint() Paint {
	var p Paint

	r.mu.Lock()
	cols, rows := r.cols, r.rows
	r.mu.Unlock()

	if c, rw := r.surface.Bounds(); c != cols || rw != rows {
		r.surface.Resize(cols, rows)
		p.Resized = true
	}

	dx, dy := r.surface.Density()
	w, h := cols*dx, rows*dy
	p.Width, p.Height = w, h

	snap := r.src.ReadInto(r.scratch)
	r.scratch = snap.Samples
	p.Written = snap.Written

	p.VMin, p.VMax, p.Fallback = Autoscale(snap.Samples)

	r.surface.Clear()
	if w <= 0 || h <= 0 {
		return p
	}

	mid := (h - 1) / 2
	r.surface.Line(0, mid, w-1, mid, PenGrid)

	n := len(snap.Samples)
	if n == 0 {
		return p
	}

	m := r.margin
	if h-1-2*m <= 0 {
		m = 0
	}

	prevY := 0
	for x := 0; x < w; x++ {
		age := x * n / w
		v := snap.Samples[ring.Index(snap.WritePointer, age, n)]
		y := mapY(v, p.VMin, p.VMax, h, m)
		if x == 0 {
			r.surface.Line(0, y, 0, y, PenTrace)
		} else {
			r.surface.Line(x-1, prevY, x, y, PenTrace)
		}
		prevY = y
	}

	return p
}

// Autoscale returns the finite min/max of samples, or [-1, 1] when there is
// no usable range
func Autoscale(samples []float64) (vmin, vmax float64, fallback bool) {
	vmin, vmax = math.Inf(1), math.Inf(-1)
	for _, v := range samples {
		if v < vmin {
			vmin = v
		}
		if v > vmax {
			vmax = v
		}
	}

	if math.IsInf(vmin, 0) || math.IsInf(vmax, 0) || vmin == vmax {
		return -1, 1, true
	}
	return vmin, vmax, false
}

// mapY converts a value to a pixel row, vmax at the top margin and vmin at
// the bottom margin. Values outside the range are clamped to the raster.
func mapY(v, vmin, vmax float64, h, margin int) int {
	bottom := float64(h - 1 - margin)
	span := float64(h - 1 - 2*margin)

	y := bottom - (v-vmin)*span/(vmax-vmin)
	if math.IsNaN(y) {
		return (h - 1) / 2
	}
	if y < 0 {
		y = 0
	} else if y > float64(h-1) {
		y = float64(h - 1)
	}
	return int(math.Round(y))
}
