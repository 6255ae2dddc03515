package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/breath-sync/internal/logic"
)

// Palette is the colour set for one theme.
type Palette struct {
	Target lipgloss.Color
	Field  lipgloss.Color
	Text   lipgloss.Color
	Dimmed lipgloss.Color
	Accent lipgloss.Color
	Border lipgloss.Color
}

var (
	dayPalette = Palette{
		Target: lipgloss.Color("#3b82f6"),
		Field:  lipgloss.Color("#cbd5e1"),
		Text:   lipgloss.Color("#1f2937"),
		Dimmed: lipgloss.Color("#6b7280"),
		Accent: lipgloss.Color("#0ea5e9"),
		Border: lipgloss.Color("#94a3b8"),
	}
	nightPalette = Palette{
		Target: lipgloss.Color("#a855f7"),
		Field:  lipgloss.Color("#374151"),
		Text:   lipgloss.Color("#e5e7eb"),
		Dimmed: lipgloss.Color("#6b7280"),
		Accent: lipgloss.Color("#7c3aed"),
		Border: lipgloss.Color("#4b5563"),
	}
)

// PaletteFor returns the palette of theme.
func PaletteFor(theme logic.Theme) Palette {
	if theme == logic.ThemeNight {
		return nightPalette
	}
	return dayPalette
}

type styles struct {
	title       lipgloss.Style
	field       lipgloss.Style
	target      lipgloss.Style
	instruction lipgloss.Style
	countdown   lipgloss.Style
	remaining   lipgloss.Style
	gauge       lipgloss.Style
	gaugeEmpty  lipgloss.Style
	help        lipgloss.Style
	err         lipgloss.Style
	frame       lipgloss.Style
}

func newStyles(p Palette) styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		field:       lipgloss.NewStyle().Foreground(p.Field),
		target:      lipgloss.NewStyle().Bold(true).Foreground(p.Target),
		instruction: lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		countdown:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		remaining:   lipgloss.NewStyle().Foreground(p.Text),
		gauge:       lipgloss.NewStyle().Foreground(p.Target),
		gaugeEmpty:  lipgloss.NewStyle().Foreground(p.Field),
		help:        lipgloss.NewStyle().Foreground(p.Dimmed),
		err:         lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")),
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
	}
}
