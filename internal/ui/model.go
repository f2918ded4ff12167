// ABOUTME: Bubbletea model for the EMG viewer TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/emgkit/flexbeeper/internal/app"
	"github.com/emgkit/flexbeeper/internal/version"
	"github.com/emgkit/flexbeeper/pkg/trigger"
	"github.com/emgkit/flexbeeper/pkg/waveform"
)

const (
	// ThresholdStep is the change per threshold key press
	ThresholdStep = 0.1
	// GapStep is the change per refractory gap key press
	GapStep = 50 * time.Millisecond

	// waveChrome is the horizontal space taken by the waveform border
	waveChrome = 2
)

// Options configures a new model
type Options struct {
	Endpoint   string
	Trigger    trigger.Config
	WaveHeight int // waveform rows
}

// Model represents the TUI state
type Model struct {
	keys     KeyMap
	controls *Controls

	// Pipeline state as last reported
	state app.State

	// Operator edits not yet confirmed by the pipeline
	endpoint string
	trigger  trigger.Config

	// Endpoint editor
	editing bool
	input   textinput.Model

	// Waveform
	wave       string
	paint      waveform.Paint
	waveHeight int

	notice    string
	showDebug bool

	// Dimensions
	width  int
	height int
}

// StatusMsg carries a pipeline state update
type StatusMsg struct {
	State app.State
}

// WaveformMsg carries a freshly rendered waveform
type WaveformMsg struct {
	View  string
	Paint waveform.Paint
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.controls.resize(m.waveSize())
	case StatusMsg:
		m.applyStatus(msg.State)
	case WaveformMsg:
		m.wave = msg.View
		m.paint = msg.Paint
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{
		m.renderHeader(),
		m.renderCards(),
		m.renderWaveform(),
	}

	if m.editing {
		sections = append(sections, "Endpoint: "+m.input.View())
	}
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	if m.showDebug {
		sections = append(sections, m.renderDebug())
	}

	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title bar
func (m Model) renderHeader() string {
	return titleStyle.Render(fmt.Sprintf("%s %s", version.Product, version.Version))
}

// renderCards renders the status, stream, trigger and reps cards
func (m Model) renderCards() string {
	s := m.state

	status := statusStyle(s.Status).Render(string(s.Status))
	if s.Err != "" {
		status += " " + truncate(s.Err, 32)
	}
	conn := card("Status", status, truncate(m.endpoint, 32))

	stream := "waiting for frames"
	if s.HaveHeader {
		stream = fmt.Sprintf("fs %d Hz  scale %d\nseq %d", s.Header.SampleRateHz, s.Header.Scale, s.Header.Sequence)
	}
	streamCard := card("Stream", stream, fmt.Sprintf("drops %d (%d missed)", s.DropEvents, s.MissedFrames))

	armed := "disarmed"
	if s.Armed {
		armed = "armed"
	}
	trig := card("Trigger",
		fmt.Sprintf("hi %.2f  lo %.2f", m.trigger.High, m.trigger.Low),
		fmt.Sprintf("gap %dms  %s", m.trigger.MinGap.Milliseconds(), armed))

	reps := card("Reps", repsStyle.Render(fmt.Sprintf("%d", s.Reps)))

	return lipgloss.JoinHorizontal(lipgloss.Top, conn, streamCard, trig, reps)
}

// renderWaveform renders the live trace
func (m Model) renderWaveform() string {
	cols, rows := m.waveSize()
	body := m.wave
	if body == "" {
		body = strings.TrimRight(strings.Repeat(strings.Repeat(" ", cols)+"\n", rows), "\n")
	}

	scale := fmt.Sprintf("%.2f .. %.2f", m.paint.VMin, m.paint.VMax)
	if m.paint.Fallback {
		scale = "no signal"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		waveBoxStyle.Render(body),
		labelStyle.Render(scale))
}

// renderDebug renders session details
func (m Model) renderDebug() string {
	sessionID := m.state.SessionID
	if sessionID == "" {
		sessionID = "-"
	}
	return labelStyle.Render(fmt.Sprintf("session %s  frames %d  raster %dx%d  written %d",
		sessionID, m.state.Frames, m.paint.Width, m.paint.Height, m.paint.Written))
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.helpBindings() {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, "  "))
}

// handleKey handles keyboard input outside the editor
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.controls.quit()
		return m, tea.Quit
	case key.Matches(msg, m.keys.HighUp):
		m.adjust(func(c *trigger.Config) { c.High = round2(c.High + ThresholdStep) })
	case key.Matches(msg, m.keys.HighDown):
		m.adjust(func(c *trigger.Config) { c.High = round2(c.High - ThresholdStep) })
	case key.Matches(msg, m.keys.LowUp):
		m.adjust(func(c *trigger.Config) { c.Low = round2(c.Low + ThresholdStep) })
	case key.Matches(msg, m.keys.LowDown):
		m.adjust(func(c *trigger.Config) { c.Low = round2(c.Low - ThresholdStep) })
	case key.Matches(msg, m.keys.GapUp):
		m.adjust(func(c *trigger.Config) { c.MinGap += GapStep })
	case key.Matches(msg, m.keys.GapDown):
		m.adjust(func(c *trigger.Config) {
			c.MinGap -= GapStep
			if c.MinGap < 0 {
				c.MinGap = 0
			}
		})
	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.notice = ""
		m.input.SetValue(m.endpoint)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Connect):
		m.controls.connect(m.endpoint)
	case key.Matches(msg, m.keys.Reset):
		m.controls.reset()
	case key.Matches(msg, m.keys.Debug):
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// handleEditKey routes keys to the endpoint editor
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.controls.quit()
		return m, tea.Quit
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		endpoint := strings.TrimSpace(m.input.Value())
		m.editing = false
		m.input.Blur()
		if endpoint == "" {
			m.notice = "endpoint must not be empty"
			return m, nil
		}
		m.endpoint = endpoint
		m.controls.connect(endpoint)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// adjust applies an edit to the trigger config if the result is valid
func (m *Model) adjust(edit func(c *trigger.Config)) {
	next := m.trigger
	edit(&next)

	if err := next.Validate(); err != nil {
		m.notice = err.Error()
		return
	}

	m.notice = ""
	m.trigger = next
	m.controls.setTrigger(next)
}

// applyStatus updates model from pipeline state
func (m *Model) applyStatus(s app.State) {
	m.state = s
	m.trigger = s.Trigger
	if s.Endpoint != "" && !m.editing {
		m.endpoint = s.Endpoint
	}
}

// waveSize returns the waveform area in cells for the current window
func (m Model) waveSize() (int, int) {
	cols := m.width - waveChrome
	if cols < 1 {
		cols = 1
	}
	return cols, m.waveHeight
}

// card renders a titled box
func card(title string, lines ...string) string {
	body := labelStyle.Render(title) + "\n" + strings.Join(lines, "\n")
	return cardStyle.Render(body)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
