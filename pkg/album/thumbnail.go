package album

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// Fit downscales img to fill at most w×h while preserving aspect ratio.
// This is the detail view's crop mode: the whole photo stays visible.
func Fit(img image.Image, w, h int) image.Image {
	if w < 1 || h < 1 {
		return img
	}
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return img
	}

	scale := min(float64(w)/float64(sw), float64(h)/float64(sh))
	tw, th := max(1, int(float64(sw)*scale)), max(1, int(float64(sh)*scale))
	return transform.Resize(img, tw, th, transform.Linear)
}

// Fill downscales img to cover exactly w×h, center-cropping the overflow.
// This is the grid cell's crop mode: every cell is the same shape.
func Fill(img image.Image, w, h int) image.Image {
	if w < 1 || h < 1 {
		return img
	}
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return img
	}

	scale := max(float64(w)/float64(sw), float64(h)/float64(sh))
	tw, th := max(1, int(float64(sw)*scale+0.5)), max(1, int(float64(sh)*scale+0.5))
	scaled := transform.Resize(img, tw, th, transform.Linear)

	x := (tw - w) / 2
	y := (th - h) / 2
	return transform.Crop(scaled, image.Rect(x, y, x+w, y+h))
}
