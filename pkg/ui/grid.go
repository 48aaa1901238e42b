package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pixelweaver/gallery_viewer/pkg/album"
	"github.com/pixelweaver/gallery_viewer/pkg/geom"
	"github.com/pixelweaver/gallery_viewer/pkg/transition"
)

const footerLines = 1

// gridLayout is the grid's geometry in terminal cells, derived from the
// window size and the configured column count. Each cell carries a one-cell
// border on every side (the cursor frame).
type gridLayout struct {
	cols   int
	cellW  int // thumbnail art width inside the border
	artH   int // thumbnail art height inside the border
	blockW int // full cell block width including border and gap
	blockH int // full cell block height including border, label and gap
	rows   int // rows that fit on screen
}

func (m *Model) layout() gridLayout {
	cols := m.cfg.Columns
	if cols < 1 {
		cols = 1
	}
	cellW := (m.width-cellGapX)/cols - cellGapX - 2
	if cellW < 4 {
		cellW = 4
	}
	artH := m.cfg.ThumbHeight
	blockH := artH + labelHeight + 2 + cellGapY
	rows := (m.height - footerLines) / blockH
	if rows < 1 {
		rows = 1
	}
	return gridLayout{
		cols:   cols,
		cellW:  cellW,
		artH:   artH,
		blockW: cellW + 2 + cellGapX,
		blockH: blockH,
		rows:   rows,
	}
}

// reportLayout is the measurement feed: it reports each visible cell's
// center and the detail view's center into the interaction core, in point
// space. Called on every layout-affecting change.
func (m *Model) reportLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	l := m.layout()

	for slot, idx := range m.visibleSlots() {
		col := slot % l.cols
		row := slot / l.cols
		cx := float64(cellGapX+col*l.blockW+1) + float64(l.cellW)/2
		cy := float64(row*l.blockH+1) + float64(l.artH)/2
		m.cells.Report(m.photos[idx].ID, geom.Pt(cx*pointsPerCol, cy*pointsPerRow))
	}

	m.ctrl.SetDetailCenter(geom.Pt(
		float64(m.width)/2*pointsPerCol,
		float64(m.height-footerLines)/2*pointsPerRow,
	))
}

// visibleSlots maps on-screen slot number to an index into m.photos for the
// current scroll window.
func (m *Model) visibleSlots() []int {
	l := m.layout()
	start := m.rowOffset * l.cols
	if start >= len(m.visible) {
		start = 0
	}
	end := start + l.rows*l.cols
	if end > len(m.visible) {
		end = len(m.visible)
	}
	return m.visible[start:end]
}

func (m *Model) scrollToCursor() {
	l := m.layout()
	row := m.cursor / l.cols
	if row < m.rowOffset {
		m.rowOffset = row
	}
	if row >= m.rowOffset+l.rows {
		m.rowOffset = row - l.rows + 1
	}
}

// photoAt hit-tests a mouse position against the grid and returns the photo
// id under it.
func (m *Model) photoAt(x, y int) (int, bool) {
	l := m.layout()
	if x < cellGapX || y >= l.rows*l.blockH {
		return 0, false
	}
	col := (x - cellGapX) / l.blockW
	row := y / l.blockH
	if col >= l.cols {
		return 0, false
	}
	if (x-cellGapX)%l.blockW >= l.cellW+2 {
		return 0, false // in the gap
	}
	if y%l.blockH >= l.artH+labelHeight+2 {
		return 0, false
	}

	slot := row*l.cols + col
	slots := m.visibleSlots()
	if slot >= len(slots) {
		return 0, false
	}
	return m.photos[slots[slot]].ID, true
}

// renderGrid paints the grid at the given opacity. Terminals cannot blend,
// so opacity is discretized: nearly invisible grids render blank, partially
// faded ones render label placeholders, and the rest render full art.
func (m *Model) renderGrid(ctx transition.Context, opacity float64) string {
	if opacity < 0.35 {
		return strings.Repeat("\n", max(0, m.height-1))
	}

	l := m.layout()
	slots := m.visibleSlots()

	// Only the open photo's cell is the shared element of the morph; its
	// siblings keep the grid's fill crop regardless of the transition.
	detail, open := m.ctrl.Detail()

	gap := strings.Repeat(" ", cellGapX)
	var rowsOut []string
	for row := 0; row*l.cols < len(slots); row++ {
		var parts []string
		for col := 0; col < l.cols; col++ {
			slot := row*l.cols + col
			if slot >= len(slots) {
				break
			}
			idx := slots[slot]
			cellCtx := transition.Context{}
			if open && m.photos[idx].ID == detail {
				cellCtx = ctx
			}
			parts = append(parts, gap, m.renderCell(cellCtx, idx, l, opacity))
		}
		rowsOut = append(rowsOut, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	grid := strings.Join(rowsOut, "\n"+strings.Repeat("\n", cellGapY))
	return grid
}

// renderCell paints one grid cell: fill-cropped art with the filename under
// it. The shared element adapts to the transition context: while the morph
// is active the cell under it renders fit-cropped like the destination.
func (m *Model) renderCell(ctx transition.Context, idx int, l gridLayout, opacity float64) string {
	p := m.photos[idx]
	selected := m.cursor < len(m.visible) && m.visible[m.cursor] == idx

	label := runewidth.Truncate(p.Name, l.cellW, "…")
	labelStyle := m.theme.labelStyle()
	if selected {
		labelStyle = labelStyle.Foreground(m.theme.Primary).Bold(true)
	}
	label = labelStyle.Render(runewidth.FillRight(label, l.cellW))

	art := m.cellArt(ctx, p.ID, l.cellW, l.artH, opacity)
	frame := m.theme.cellStyle()
	if selected {
		frame = m.theme.cursorStyle()
	}
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, art, label))
}

// cellArt returns the thumbnail art for one cell, or a placeholder when the
// image is unavailable or the grid is mid-fade.
func (m *Model) cellArt(ctx transition.Context, id, w, h int, opacity float64) string {
	img, ok := m.images[id]
	if !ok || opacity < 0.75 {
		return m.placeholderArt(w, h)
	}

	if art, ok := m.arts.get(artKey{id: id, w: w, h: h, fit: ctx.Active}); ok {
		return art
	}

	crop := album.Fill
	if ctx.Active {
		crop = album.Fit
	}
	// Fit art can be smaller than its box; pad so the grid stays aligned.
	art := lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
		renderImage(m.theme.Renderer, crop(img, w, h*2)))
	m.arts.put(artKey{id: id, w: w, h: h, fit: ctx.Active}, art)
	return art
}

func (m *Model) placeholderArt(w, h int) string {
	line := m.theme.footerStyle().Render(strings.Repeat("░", w))
	lines := make([]string, h)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// artKey identifies one rendered thumbnail variant.
type artKey struct {
	id   int
	w, h int
	fit  bool
}

// artCache memoizes rendered art strings; re-rendering every cell on every
// frame is what actually costs time, not the state math.
type artCache struct {
	arts map[artKey]string
}

func (c *artCache) get(k artKey) (string, bool) {
	art, ok := c.arts[k]
	return art, ok
}

func (c *artCache) put(k artKey, art string) {
	if c.arts == nil {
		c.arts = make(map[artKey]string)
	}
	c.arts[k] = art
}

// invalidate clears in place: Model is copied through the Update loop and
// render paths, and every copy shares the one underlying map.
func (c *artCache) invalidate() {
	for k := range c.arts {
		delete(c.arts, k)
	}
}
