// ABOUTME: Fixed-rate repaint loop for the waveform renderer
// ABOUTME: Start schedules repaints, Stop cancels and waits for the last one
package waveform

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshHz is the repaint rate when none is configured
const DefaultRefreshHz = 30

// Sink receives each finished repaint on the loop goroutine, while the
// surface still holds that frame
type Sink interface {
	Present(p Paint)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(p Paint)

// Present calls f
func (f SinkFunc) Present(p Paint) { f(p) }

// Loop repaints a Renderer at a fixed interval
type Loop struct {
	renderer *Renderer
	interval time.Duration
	sink     Sink

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLoop creates a stopped loop repainting refreshHz times per second
func NewLoop(renderer *Renderer, refreshHz int, sink Sink) *Loop {
	if refreshHz <= 0 {
		refreshHz = DefaultRefreshHz
	}

	return &Loop{
		renderer: renderer,
		interval: time.Second / time.Duration(refreshHz),
		sink:     sink,
	}
}

// Start begins repainting; calling Start on a running loop does nothing
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.run(ctx, l.done)
}

// Stop halts repainting. When it returns no repaint is running and none
// will be delivered to the sink.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is started
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick and a stop can race; never paint after cancellation
			if ctx.Err() != nil {
				return
			}
			p := l.renderer.Paint()
			if l.sink != nil {
				l.sink.Present(p)
			}
		}
	}
}
