package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/stat"
)

// renderImage converts an image to terminal art: each character cell shows
// two vertically stacked pixels via the upper-half block, foreground for the
// top pixel and background for the bottom. The image's pixel width maps to
// columns and its pixel height to 2x rows.
func renderImage(r *lipgloss.Renderer, img image.Image) string {
	img = stretchContrast(img)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return ""
	}

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top := hexColor(img.At(b.Min.X+x, b.Min.Y+y))
			style := r.NewStyle().Foreground(lipgloss.Color(top))
			if y+1 < h {
				bottom := hexColor(img.At(b.Min.X+x, b.Min.Y+y+1))
				style = style.Background(lipgloss.Color(bottom))
			}
			sb.WriteString(style.Render("▀"))
		}
	}
	return sb.String()
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// stretchContrast linearly remaps the image so that its luminance spans
// roughly the full range. Terminal color resolution is coarse; without the
// stretch dim photos collapse into a handful of indistinguishable shades.
func stretchContrast(img image.Image) image.Image {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return img
	}

	luma := make([]float64, 0, n)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			luma = append(luma, 0.2126*float64(r>>8)+0.7152*float64(g>>8)+0.0722*float64(bl>>8))
		}
	}

	mean := stat.Mean(luma, nil)
	sd := stat.StdDev(luma, nil)
	if sd == 0 || n == 1 {
		return img
	}

	lo := mean - 2*sd
	hi := mean + 2*sd
	if lo < 0 {
		lo = 0
	}
	if hi > 255 {
		hi = 255
	}
	if hi-lo < 1 {
		return img
	}
	gain := 255 / (hi - lo)

	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			out.Set(x, y, color.RGBA{
				R: stretchChannel(float64(r>>8), lo, gain),
				G: stretchChannel(float64(g>>8), lo, gain),
				B: stretchChannel(float64(bl>>8), lo, gain),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

func stretchChannel(v, lo, gain float64) uint8 {
	s := (v - lo) * gain
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return uint8(s)
}
