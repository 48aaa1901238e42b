package album

import (
	"image"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanFiltersSortsAndNumbers(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.jpg"))
	touch(t, filepath.Join(dir, "a.PNG"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "sub", "c.webp"))
	touch(t, filepath.Join(dir, ".hidden", "d.jpg"))
	touch(t, filepath.Join(dir, ".e.jpg"))

	photos, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}

	names := make([]string, len(photos))
	for i, p := range photos {
		names[i] = p.Name
		if p.ID != i {
			t.Errorf("photo %q id = %d, want %d", p.Name, p.ID, i)
		}
	}
	want := []string{"a.PNG", "b.jpg", "c.webp"}
	if len(names) != len(want) {
		t.Fatalf("scanned %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("photo %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestScanEmptyDir(t *testing.T) {
	photos, err := Scan(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(photos) != 0 {
		t.Errorf("scanned %d photos in empty dir", len(photos))
	}
}

func TestIsImagePath(t *testing.T) {
	yes := []string{"a.jpg", "B.JPEG", "c.png", "d.gif", "e.webp"}
	no := []string{"a.txt", "b", "c.jpg.part", "d.tiff"}
	for _, p := range yes {
		if !IsImagePath(p) {
			t.Errorf("IsImagePath(%q) = false", p)
		}
	}
	for _, p := range no {
		if IsImagePath(p) {
			t.Errorf("IsImagePath(%q) = true", p)
		}
	}
}

func TestFitPreservesAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100)) // 2:1
	got := Fit(src, 50, 50)
	b := got.Bounds()
	if b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("Fit bounds = %dx%d, want 50x25", b.Dx(), b.Dy())
	}
}

func TestFillCoversExactly(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	got := Fill(src, 40, 40)
	b := got.Bounds()
	if b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("Fill bounds = %dx%d, want 40x40", b.Dx(), b.Dy())
	}
}

func TestFitDegenerateTarget(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if got := Fit(src, 0, 5); got != src {
		t.Error("Fit with zero width should return the source unchanged")
	}
}
