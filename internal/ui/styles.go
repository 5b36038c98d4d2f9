package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Status icons.
const (
	IconPass    = "✓"
	IconFail    = "✗"
	IconSkip    = "-"
	IconRunning = "▸"
	IconPending = "·"
)

var (
	colorPass = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMute = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorLead = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

// Palette holds the styles used for one output stream.
type Palette struct {
	Pass   lipgloss.Style
	Fail   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
	Bold   lipgloss.Style
}

// NewPalette builds styles bound to the color profile of the writer.
// Writers that are not terminals render plain text.
func NewPalette(writer io.Writer) Palette {
	renderer := lipgloss.NewRenderer(writer)
	return Palette{
		Pass:   renderer.NewStyle().Foreground(colorPass),
		Fail:   renderer.NewStyle().Foreground(colorFail),
		Muted:  renderer.NewStyle().Foreground(colorMute),
		Accent: renderer.NewStyle().Foreground(colorLead),
		Bold:   renderer.NewStyle().Bold(true),
	}
}
