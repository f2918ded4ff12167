// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program and the channels back to the pipeline
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/emgkit/flexbeeper/pkg/trigger"
)

// DefaultWaveHeight is the waveform height in rows
const DefaultWaveHeight = 12

// Size is a waveform area in cells
type Size struct {
	Cols, Rows int
}

// Controls holds channels carrying operator actions out of the TUI
type Controls struct {
	Connect chan string
	Trigger chan trigger.Config
	Reset   chan struct{}
	Resize  chan Size
	Quit    chan struct{}
}

// NewControls creates a new control handler
func NewControls() *Controls {
	return &Controls{
		Connect: make(chan string, 4),
		Trigger: make(chan trigger.Config, 10),
		Reset:   make(chan struct{}, 1),
		Resize:  make(chan Size, 4),
		Quit:    make(chan struct{}, 1),
	}
}

// Sends never block the UI. A nil Controls drops everything.

func (c *Controls) connect(endpoint string) {
	if c == nil {
		return
	}
	select {
	case c.Connect <- endpoint:
	default:
	}
}

func (c *Controls) setTrigger(cfg trigger.Config) {
	if c == nil {
		return
	}
	select {
	case c.Trigger <- cfg:
	default:
	}
}

func (c *Controls) reset() {
	if c == nil {
		return
	}
	select {
	case c.Reset <- struct{}{}:
	default:
	}
}

func (c *Controls) resize(cols, rows int) {
	if c == nil {
		return
	}
	select {
	case c.Resize <- Size{Cols: cols, Rows: rows}:
	default:
	}
}

func (c *Controls) quit() {
	if c == nil {
		return
	}
	select {
	case c.Quit <- struct{}{}:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls, opts Options) Model {
	if opts.WaveHeight <= 0 {
		opts.WaveHeight = DefaultWaveHeight
	}

	input := textinput.New()
	input.Placeholder = "ws://192.168.4.1:81/"
	input.CharLimit = 256
	input.Width = 40

	return Model{
		keys:       DefaultKeyMap,
		controls:   controls,
		endpoint:   opts.Endpoint,
		trigger:    opts.Trigger,
		input:      input,
		waveHeight: opts.WaveHeight,
	}
}

// Run creates the TUI program
func Run(controls *Controls, opts Options) *tea.Program {
	return tea.NewProgram(NewModel(controls, opts), tea.WithAltScreen())
}
