package export

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixelweaver/gallery_viewer/pkg/album"
)

func writeTestPhoto(t *testing.T, dir, name string, w, h int) album.Photo {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return album.Photo{Path: path, Name: name}
}

func TestWriteContactSheet(t *testing.T) {
	dir := t.TempDir()
	photos := []album.Photo{
		writeTestPhoto(t, dir, "a.png", 100, 60),
		writeTestPhoto(t, dir, "b.png", 60, 100),
		writeTestPhoto(t, dir, "c.png", 80, 80),
	}

	out := filepath.Join(dir, "sheet.png")
	opts := SheetOptions{Columns: 2, CellPx: 50, GapPx: 10}
	if err := WriteContactSheet(photos, out, opts); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheet, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	// 2 columns, 2 rows of 50px cells with 10px gaps.
	b := sheet.Bounds()
	if b.Dx() != 2*50+3*10 || b.Dy() != 2*50+3*10 {
		t.Errorf("sheet is %dx%d, want 130x130", b.Dx(), b.Dy())
	}
}

func TestWriteContactSheetSkipsBrokenPhotos(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	photos := []album.Photo{
		writeTestPhoto(t, dir, "a.png", 40, 40),
		{Path: bad, Name: "bad.png"},
	}

	out := filepath.Join(dir, "sheet.png")
	if err := WriteContactSheet(photos, out, DefaultSheetOptions); err != nil {
		t.Fatalf("broken photo aborted the sheet: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("sheet not written: %v", err)
	}
}

func TestWriteContactSheetEmptyAlbum(t *testing.T) {
	if err := WriteContactSheet(nil, filepath.Join(t.TempDir(), "s.png"), DefaultSheetOptions); err == nil {
		t.Error("empty album should be an error")
	}
}
