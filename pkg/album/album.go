// Package album scans a directory for photos and prepares the images the
// grid and detail views render.
package album

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	// Decoders for everything Scan accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/karrick/godirwalk"
	_ "golang.org/x/image/webp"
)

// Photo is one image in the library. IDs are assigned in display order and
// are stable for the lifetime of a scan; a rescan renumbers.
type Photo struct {
	ID      int
	Path    string
	Name    string
	ModTime time.Time
	Bytes   int64
}

// imageExts are the file extensions Scan keeps, lower-cased with dot.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// IsImagePath reports whether path has a recognized image extension.
func IsImagePath(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// Scan walks root and returns the photos found, sorted by name with
// sequential ids. Dot-directories and dot-files are skipped.
func Scan(root string) ([]Photo, error) {
	var photos []Photo

	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			name := filepath.Base(path)
			if strings.HasPrefix(name, ".") && path != root {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}
			if de.IsDir() || !IsImagePath(path) {
				return nil
			}

			fi, err := os.Stat(path)
			if err != nil {
				// Unreadable entry; keep scanning the rest.
				return nil
			}
			photos = append(photos, Photo{
				Path:    path,
				Name:    name,
				ModTime: fi.ModTime(),
				Bytes:   fi.Size(),
			})
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Slice(photos, func(i, j int) bool { return photos[i].Name < photos[j].Name })
	for i := range photos {
		photos[i].ID = i
	}
	return photos, nil
}

// Load decodes the photo at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
