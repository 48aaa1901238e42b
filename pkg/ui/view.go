package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pixelweaver/gallery_viewer/pkg/gallery"
	"github.com/pixelweaver/gallery_viewer/pkg/transition"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if len(m.photos) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.theme.footerStyle().Render("no photos found"))
	}
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spin.View()+" loading thumbnails…")
	}

	// The transition context is active for the whole shared-element morph:
	// the live drag and both animated legs.
	ctx := transition.Context{}
	if m.ctrl.Phase() != gallery.PhaseIdle || m.opening != nil {
		ctx = ctx.WithActive(true)
	}

	var body string
	if m.ctrl.Phase() == gallery.PhaseIdle {
		body = m.renderGrid(ctx, 1)
	} else {
		body = m.renderDetail(ctx)
	}
	body = fitHeight(body, m.height-footerLines)

	view := body + "\n" + m.renderFooter()
	switch {
	case m.showHelp:
		view = centerOverlay(view, m.renderHelp(), m.width, m.height)
	case m.showInfo:
		view = centerOverlay(view, m.renderInfo(), m.width, m.height)
	}
	return view
}

func centerOverlay(base, overlay string, width, height int) string {
	row := (height - lipgloss.Height(overlay)) / 2
	col := (width - lipgloss.Width(overlay)) / 2
	return overlayAt(base, overlay, row, col, width)
}

func (m Model) renderFooter() string {
	if m.searching {
		return m.search.View()
	}

	var left string
	switch {
	case m.status != "" && m.statusIsErr:
		left = m.theme.errorStyle().Render(m.status)
	case m.status != "":
		left = m.theme.statusStyle().Render(m.status)
	case m.ctrl.Phase() == gallery.PhaseIdle:
		left = m.theme.footerStyle().Render(
			fmt.Sprintf("%d photos · ?:help /:filter enter:open q:quit", len(m.visible)))
	default:
		left = m.theme.footerStyle().Render("drag down to dismiss · tap or esc to close")
	}

	right := m.theme.footerStyle().Render(speedLabel(speedSteps[m.speedIdx]))
	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

// fitHeight pads or trims the body to exactly h lines so the footer lands on
// the bottom row.
func fitHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
