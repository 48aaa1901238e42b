// Package export renders an album to files outside the terminal.
package export

import (
	"fmt"
	"image/color"

	"git.sr.ht/~sbinet/gg"

	"github.com/pixelweaver/gallery_viewer/pkg/album"
)

// SheetOptions controls contact sheet layout.
type SheetOptions struct {
	Columns int // thumbnails per row
	CellPx  int // square cell edge in pixels
	GapPx   int // spacing between cells and around the border
}

// DefaultSheetOptions is a 4-across sheet of 320px cells.
var DefaultSheetOptions = SheetOptions{Columns: 4, CellPx: 320, GapPx: 16}

// WriteContactSheet decodes every photo, fills it into a uniform cell, and
// writes a single PNG grid to outPath. Photos that fail to decode leave an
// empty cell rather than aborting the sheet.
func WriteContactSheet(photos []album.Photo, outPath string, opts SheetOptions) error {
	if len(photos) == 0 {
		return fmt.Errorf("no photos to export")
	}
	if opts.Columns < 1 {
		opts = DefaultSheetOptions
	}

	cols := opts.Columns
	if cols > len(photos) {
		cols = len(photos)
	}
	rows := (len(photos) + cols - 1) / cols

	w := cols*opts.CellPx + (cols+1)*opts.GapPx
	h := rows*opts.CellPx + (rows+1)*opts.GapPx

	dc := gg.NewContext(w, h)
	dc.SetColor(color.Black)
	dc.Clear()

	for i, p := range photos {
		img, err := album.Load(p.Path)
		if err != nil {
			continue
		}
		cell := album.Fill(img, opts.CellPx, opts.CellPx)

		col := i % cols
		row := i / cols
		x := opts.GapPx + col*(opts.CellPx+opts.GapPx)
		y := opts.GapPx + row*(opts.CellPx+opts.GapPx)
		dc.DrawImage(cell, x, y)
	}

	if err := dc.SavePNG(outPath); err != nil {
		return fmt.Errorf("write contact sheet: %w", err)
	}
	return nil
}
