package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the keyboard shortcut overlay.
func (m Model) renderHelp() string {
	var b strings.Builder

	titleStyle := m.theme.Renderer.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("Gallery Help"))
	b.WriteString("\n\n")

	sectionStyle := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Secondary)
	keyStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Width(12)
	descStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)

	b.WriteString(sectionStyle.Render("GRID") + "\n")
	grid := []struct{ key, desc string }{
		{"h/j/k/l", "Move cursor"},
		{"arrows", "Move cursor"},
		{"Enter", "Open photo"},
		{"click", "Open photo"},
		{"/", "Filter by name"},
		{"y", "Copy photo path"},
		{"E", "Export contact sheet"},
		{"s", "Cycle animation speed"},
	}
	for _, s := range grid {
		b.WriteString("  " + keyStyle.Render(s.key) + descStyle.Render(s.desc) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("DETAIL") + "\n")
	detail := []struct{ key, desc string }{
		{"drag down", "Dismiss (flick to close)"},
		{"tap", "Close instantly"},
		{"Esc/q", "Close"},
		{"i", "Photo info"},
		{"y", "Copy photo path"},
	}
	for _, s := range detail {
		b.WriteString("  " + keyStyle.Render(s.key) + descStyle.Render(s.desc) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("GENERAL") + "\n")
	general := []struct{ key, desc string }{
		{"?", "Toggle this help"},
		{"q/Ctrl+C", "Quit"},
	}
	for _, s := range general {
		b.WriteString("  " + keyStyle.Render(s.key) + descStyle.Render(s.desc) + "\n")
	}

	b.WriteString("\n")
	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	b.WriteString(hintStyle.Render("[Press any key to close]"))

	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}

// renderInfo renders the exif metadata overlay for the open photo.
func (m Model) renderInfo() string {
	var b strings.Builder

	titleStyle := m.theme.Renderer.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("Photo Info"))
	b.WriteString("\n\n")

	keyStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Secondary).Width(10)
	valStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)

	if m.info == nil || m.info.Error != "" {
		msg := "no metadata"
		if m.info != nil && m.info.Error != "" {
			msg = m.info.Error
		}
		b.WriteString(m.theme.errorStyle().Render(msg))
	} else {
		md := m.info.Metadata
		rows := []struct{ key, val string }{
			{"File", md.FileName},
			{"Size", fmt.Sprintf("%d × %d", md.ImageWidth, md.ImageHeight)},
			{"Camera", strings.TrimSpace(md.Make + " " + md.Model)},
			{"Lens", md.LensModel},
			{"Taken", md.DateTimeOriginal},
			{"Exposure", md.ExposureTime},
			{"Aperture", fNumber(md.FNumber)},
			{"ISO", isoLabel(md.ISO)},
			{"Focal", md.FocalLength},
		}
		for _, r := range rows {
			if r.val == "" {
				continue
			}
			b.WriteString(keyStyle.Render(r.key) + valStyle.Render(r.val) + "\n")
		}
	}

	b.WriteString("\n")
	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	b.WriteString(hintStyle.Render("[Press any key to close]"))

	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}

func fNumber(f float64) string {
	if f == 0 {
		return ""
	}
	return fmt.Sprintf("f/%.1f", f)
}

func isoLabel(iso int) string {
	if iso == 0 {
		return ""
	}
	return fmt.Sprintf("ISO %d", iso)
}
