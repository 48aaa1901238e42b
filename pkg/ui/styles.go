package ui

import "github.com/charmbracelet/lipgloss"

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Grid spacing constants (in characters)
const (
	cellGapX    = 2
	cellGapY    = 1
	labelHeight = 1
)

// Theme carries the renderer and semantic colors for all views.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Subtext   lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Error     lipgloss.Color
}

// DefaultTheme returns the Dracula-inspired palette.
func DefaultTheme() Theme {
	return Theme{
		Renderer:  lipgloss.DefaultRenderer(),
		Primary:   lipgloss.Color("#BD93F9"),
		Secondary: lipgloss.Color("#8BE9FD"),
		Subtext:   lipgloss.Color("#BFBFBF"),
		Muted:     lipgloss.Color("#6272A4"),
		Border:    lipgloss.Color("#44475A"),
		Error:     lipgloss.Color("#FF5555"),
	}
}

// cursorStyle frames the selected grid cell.
func (t Theme) cursorStyle() lipgloss.Style {
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary)
}

// cellStyle frames an unselected grid cell.
func (t Theme) cellStyle() lipgloss.Style {
	return t.Renderer.NewStyle().
		Border(lipgloss.HiddenBorder())
}

// labelStyle styles the filename under a thumbnail.
func (t Theme) labelStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Subtext)
}

// footerStyle styles the key hints at the bottom of the screen.
func (t Theme) footerStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Muted)
}

// statusStyle styles transient status messages.
func (t Theme) statusStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Secondary)
}

// errorStyle styles failures surfaced in the footer.
func (t Theme) errorStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Error)
}
