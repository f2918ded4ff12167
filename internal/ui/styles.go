// ABOUTME: Lipgloss styles for the viewer TUI
// ABOUTME: Cards, status colours and waveform pens
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/emgkit/flexbeeper/internal/app"
	"github.com/emgkit/flexbeeper/pkg/waveform"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	waveBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	repsStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	gridStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	traceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// statusStyle colours a connection status
func statusStyle(s app.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch s {
	case app.StatusConnected:
		return base.Foreground(lipgloss.Color("42"))
	case app.StatusConnecting:
		return base.Foreground(lipgloss.Color("214"))
	case app.StatusError:
		return base.Foreground(lipgloss.Color("196"))
	default:
		return base.Foreground(lipgloss.Color("245"))
	}
}

// WaveStyle returns the pen styling passed to waveform.Canvas.Render.
// A line width above 1 draws the trace bold.
func WaveStyle(lineWidth float64) func(pen waveform.Pen, s string) string {
	trace := traceStyle.Bold(lineWidth > 1)

	return func(pen waveform.Pen, s string) string {
		switch pen {
		case waveform.PenTrace:
			return trace.Render(s)
		case waveform.PenGrid:
			return gridStyle.Render(s)
		default:
			return s
		}
	}
}
