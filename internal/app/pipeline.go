// ABOUTME: Telemetry pipeline driver
// ABOUTME: Routes sensor chunks through decoder, ring buffer, trigger and beeper
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/emgkit/flexbeeper/pkg/audio/output"
	"github.com/emgkit/flexbeeper/pkg/emg"
	"github.com/emgkit/flexbeeper/pkg/link"
	"github.com/emgkit/flexbeeper/pkg/ring"
	"github.com/emgkit/flexbeeper/pkg/trigger"
	"github.com/google/uuid"
)

// Status is the connection state shown to the user
type Status string

const (
	StatusIdle       Status = "idle"
	StatusConnecting Status = "connecting"
	StatusConnected  Status = "connected"
	StatusClosed     Status = "closed"
	StatusError      Status = "error"
)

// State is a snapshot of everything the UI displays
type State struct {
	Status    Status
	Endpoint  string
	SessionID string
	Err       string

	// Last frame header; HaveHeader is false until the first frame
	HaveHeader bool
	Header     emg.FrameHeader

	Trigger trigger.Config
	Armed   bool
	Reps    int

	Frames       uint64
	DropEvents   uint64
	MissedFrames uint64
}

// Reporter receives state after every change, on the pipeline goroutine
type Reporter interface {
	Report(s State)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(s State)

// Report calls f
func (f ReporterFunc) Report(s State) { f(s) }

// ToneConfig describes the beep played on every trigger
type ToneConfig struct {
	Enabled     bool
	FrequencyHz float64
	Duration    time.Duration
}

// Config holds pipeline configuration
type Config struct {
	Trigger     trigger.Config
	Tone        ToneConfig
	Clock       trigger.Clock // defaults to the system clock
	DialTimeout time.Duration
}

type controlKind int

const (
	ctlConnect controlKind = iota
	ctlDisconnect
	ctlSetTrigger
	ctlResetCount
)

type control struct {
	kind     controlKind
	endpoint string
	trigger  trigger.Config
}

type dialResult struct {
	gen    int
	client *link.Client
	err    error
}

// Pipeline owns one sensor session at a time. Decoding and triggering run
// on a single goroutine; the ring buffer is shared with the renderer.
type Pipeline struct {
	config   Config
	ring     *ring.Buffer
	beeper   output.Beeper
	reporter Reporter

	controls chan control
	dialed   chan dialResult
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}

	// Owned by the run goroutine
	gen      int
	client   *link.Client
	chunks   <-chan []byte
	decoder  *emg.Decoder
	detector *trigger.Detector
	state    State
}

// New creates a stopped pipeline. beeper may be nil to disable audio.
func New(config Config, buf *ring.Buffer, beeper output.Beeper, reporter Reporter) (*Pipeline, error) {
	if buf == nil {
		return nil, fmt.Errorf("ring buffer is required")
	}
	if reporter == nil {
		return nil, fmt.Errorf("reporter is required")
	}
	if err := config.Trigger.Validate(); err != nil {
		return nil, fmt.Errorf("trigger config: %w", err)
	}
	if config.Clock == nil {
		config.Clock = trigger.SystemClock{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pipeline{
		config:   config,
		ring:     buf,
		beeper:   beeper,
		reporter: reporter,
		controls: make(chan control, 16),
		dialed:   make(chan dialResult, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		state: State{
			Status:  StatusIdle,
			Trigger: config.Trigger,
			Armed:   true,
		},
	}, nil
}

// Start runs the pipeline goroutine
func (p *Pipeline) Start() {
	go p.run()
}

// Stop closes any session and waits for the pipeline goroutine
func (p *Pipeline) Stop() {
	p.cancel()
	<-p.done
}

// Connect replaces the current session with a new one to endpoint
func (p *Pipeline) Connect(endpoint string) {
	p.send(control{kind: ctlConnect, endpoint: endpoint})
}

// Disconnect closes the current session
func (p *Pipeline) Disconnect() {
	p.send(control{kind: ctlDisconnect})
}

// SetTrigger validates and applies new trigger parameters
func (p *Pipeline) SetTrigger(cfg trigger.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.send(control{kind: ctlSetTrigger, trigger: cfg})
	return nil
}

// ResetCount zeroes the repetition counter
func (p *Pipeline) ResetCount() {
	p.send(control{kind: ctlResetCount})
}

func (p *Pipeline) send(c control) {
	select {
	case p.controls <- c:
	case <-p.ctx.Done():
	}
}

// run is the single goroutine that owns session state
func (p *Pipeline) run() {
	defer close(p.done)
	defer p.closeSession()

	p.publish()

	for {
		select {
		case <-p.ctx.Done():
			return

		case c := <-p.controls:
			p.handleControl(c)

		case r := <-p.dialed:
			p.handleDial(r)

		case chunk, ok := <-p.chunks:
			if !ok {
				p.endSession()
				continue
			}
			p.decoder.Push(chunk)
			p.publish()
		}
	}
}

func (p *Pipeline) handleControl(c control) {
	switch c.kind {
	case ctlConnect:
		p.closeSession()
		p.gen++
		p.state.Status = StatusConnecting
		p.state.Endpoint = c.endpoint
		p.state.Err = ""
		p.state.SessionID = ""
		p.publish()
		go p.dial(p.gen, c.endpoint)

	case ctlDisconnect:
		p.gen++ // abandon any dial in flight
		if p.client != nil || p.state.Status == StatusConnecting {
			p.closeSession()
			p.state.Status = StatusClosed
			p.publish()
		}

	case ctlSetTrigger:
		p.config.Trigger = c.trigger
		if p.detector != nil {
			// Already validated by SetTrigger
			p.detector.SetConfig(c.trigger)
		}
		p.state.Trigger = c.trigger
		log.Printf("Trigger set: hi=%.2f lo=%.2f gap=%v", c.trigger.High, c.trigger.Low, c.trigger.MinGap)
		p.publish()

	case ctlResetCount:
		p.state.Reps = 0
		if p.detector != nil {
			p.detector.ResetCount()
		}
		p.publish()
	}
}

// dial connects off the pipeline goroutine so Stop and new requests are
// never blocked by a slow handshake
func (p *Pipeline) dial(gen int, endpoint string) {
	client := link.NewClient(link.Config{
		Endpoint:    endpoint,
		DialTimeout: p.config.DialTimeout,
	})
	err := client.Connect()

	select {
	case p.dialed <- dialResult{gen: gen, client: client, err: err}:
	case <-p.ctx.Done():
		if err == nil {
			client.Close()
		}
	}
}

func (p *Pipeline) handleDial(r dialResult) {
	if r.gen != p.gen {
		if r.err == nil {
			r.client.Close()
		}
		return
	}

	if r.err != nil {
		log.Printf("Connection failed: %v", r.err)
		p.state.Status = StatusError
		p.state.Err = r.err.Error()
		p.publish()
		return
	}

	detector, err := trigger.NewDetector(p.config.Trigger, p.config.Clock)
	if err != nil {
		// Trigger config is validated before it is stored
		r.client.Close()
		p.state.Status = StatusError
		p.state.Err = err.Error()
		p.publish()
		return
	}

	p.client = r.client
	p.chunks = r.client.Chunks
	p.decoder = emg.NewDecoder(sessionHandler{p})
	p.detector = detector

	p.state.Status = StatusConnected
	p.state.SessionID = uuid.New().String()
	p.state.HaveHeader = false
	p.state.Armed = true
	p.state.Frames, p.state.DropEvents, p.state.MissedFrames = 0, 0, 0

	log.Printf("Connected to %s (session %s)", p.state.Endpoint, p.state.SessionID)
	p.publish()
}

// endSession handles the sensor side going away
func (p *Pipeline) endSession() {
	err := p.client.Err()
	p.dropSession()

	if err != nil {
		p.state.Status = StatusError
		p.state.Err = err.Error()
	} else {
		p.state.Status = StatusClosed
	}
	log.Printf("Session ended: %s", p.state.Status)
	p.publish()
}

// closeSession closes the connection from our side
func (p *Pipeline) closeSession() {
	if p.client == nil {
		return
	}
	p.client.Close()
	p.dropSession()
}

func (p *Pipeline) dropSession() {
	p.client = nil
	p.chunks = nil
	p.decoder = nil
	p.detector = nil
}

func (p *Pipeline) publish() {
	p.reporter.Report(p.state)
}

// sessionHandler receives decoder output for the current session
type sessionHandler struct {
	p *Pipeline
}

func (h sessionHandler) HandleFrame(f emg.Frame) {
	p := h.p

	p.ring.Append(f.Samples)

	events := p.detector.Feed(f.Samples)
	for range events {
		p.state.Reps++
		p.beep()
	}

	stats := p.decoder.Stats()
	p.state.HaveHeader = true
	p.state.Header = f.Header
	p.state.Armed = p.detector.Armed()
	p.state.Frames = stats.Frames
	p.state.DropEvents = stats.DropEvents
	p.state.MissedFrames = stats.MissedFrames
}

func (h sessionHandler) HandleDrop(expected, actual uint32) {
	log.Printf("Frame drop: expected seq %d, got %d", expected, actual)
}

func (p *Pipeline) beep() {
	if p.beeper == nil || !p.config.Tone.Enabled {
		return
	}
	if err := p.beeper.Beep(p.config.Tone.FrequencyHz, p.config.Tone.Duration); err != nil {
		log.Printf("Beep failed: %v", err)
	}
}
