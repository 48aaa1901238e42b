package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	reflowtrunc "github.com/muesli/reflow/truncate"

	"github.com/pixelweaver/gallery_viewer/pkg/album"
	"github.com/pixelweaver/gallery_viewer/pkg/gallery"
	"github.com/pixelweaver/gallery_viewer/pkg/transition"
)

// renderDetail paints the detail view over the faded grid. The detail card
// follows the live drag/settle offset and shrinks by the drag scale, which
// is what sells the shared-element morph in a cell grid.
func (m Model) renderDetail(ctx transition.Context) string {
	// Scale and fade follow the displayed offset so a settle animates them
	// the same way a live drag does.
	offset := m.displayOffset()
	scale := gallery.DragScale(offset)

	id, ok := m.ctrl.Detail()
	opacity := gallery.GridOpacity(ok, scale)
	if opacity > 1 {
		opacity = 1
	}
	base := m.renderGrid(ctx, opacity)
	if !ok {
		return base
	}

	card := m.renderCard(id, scale)

	// Offset is tracked in points; convert back to terminal cells.
	dx := int(math.Round(offset.Width / pointsPerCol))
	dy := int(math.Round(offset.Height / pointsPerRow))

	row := (m.height-footerLines-lipgloss.Height(card))/2 + dy
	col := (m.width-lipgloss.Width(card))/2 + dx
	return overlayAt(base, card, row, col, m.width)
}

// renderCard builds the detail card at the given scale: fit-cropped art in a
// border with the filename underneath.
func (m Model) renderCard(id int, scale float64) string {
	baseW := m.width * 7 / 10
	baseH := m.height - footerLines - 4
	w := int(float64(baseW) * scale)
	h := int(float64(baseH) * scale)
	if w < 8 {
		w = 8
	}
	if h < 3 {
		h = 3
	}

	var art string
	if img, ok := m.images[id]; ok {
		key := artKey{id: id, w: w, h: h, fit: true}
		if cached, hit := m.arts.get(key); hit {
			art = cached
		} else {
			art = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
				renderImage(m.theme.Renderer, album.Fit(img, w, h*2)))
			m.arts.put(key, art)
		}
	} else {
		art = m.placeholderArt(w, h)
	}

	name := runewidth.Truncate(m.photos[id].Name, w, "…")
	body := lipgloss.JoinVertical(lipgloss.Center, art, m.theme.labelStyle().Render(name))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Render(body)
}

// overlayAt splices the overlay into the base view at the given position,
// preserving the base content to the left and right of each overlay line.
func overlayAt(base, overlay string, startRow, startCol, width int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")

	if startRow < 0 {
		overlayLines = overlayLines[-startRow:]
		startRow = 0
	}
	if startCol < 0 {
		startCol = 0
	}

	for i, overlayLine := range overlayLines {
		row := startRow + i
		if row >= len(baseLines) {
			break
		}
		baseLine := baseLines[row]
		baseLineWidth := ansi.PrintableRuneWidth(baseLine)
		overlayWidth := ansi.PrintableRuneWidth(overlayLine)
		if startCol+overlayWidth > width {
			overlayLine = reflowtrunc.String(overlayLine, uint(max(0, width-startCol)))
			overlayWidth = ansi.PrintableRuneWidth(overlayLine)
		}

		var out strings.Builder
		if startCol > 0 {
			if baseLineWidth >= startCol {
				out.WriteString(reflowtrunc.String(baseLine, uint(startCol)))
			} else {
				out.WriteString(baseLine)
				out.WriteString(strings.Repeat(" ", startCol-baseLineWidth))
			}
		}
		out.WriteString(overlayLine)

		rightStart := startCol + overlayWidth
		if rightStart < baseLineWidth {
			out.WriteString(cutAfterWidth(baseLine, rightStart))
		}
		baseLines[row] = out.String()
	}

	return strings.Join(baseLines, "\n")
}

// cutAfterWidth returns the suffix of s starting at the given printable
// width. ANSI escapes before the cut are dropped with the prefix, which is
// acceptable for overlay splicing since each cell restyles itself.
func cutAfterWidth(s string, startWidth int) string {
	if startWidth <= 0 {
		return s
	}
	w := 0
	for i, r := range s {
		if w >= startWidth {
			return s[i:]
		}
		w += ansi.PrintableRuneWidth(string(r))
	}
	return ""
}
