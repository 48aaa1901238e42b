// Package registry tracks the last-measured on-screen center of each grid
// cell so a dismiss gesture can land the photo back where it came from.
package registry

import "github.com/pixelweaver/gallery_viewer/pkg/geom"

// CellRegistry maps a photo id to the center point of that photo's grid cell
// as of the most recent layout measurement. Entries are never deleted: a
// cell scrolled out of view keeps its last known center until the next
// measurement overwrites it.
type CellRegistry struct {
	centers map[int]geom.Point
}

// New returns an empty registry.
func New() *CellRegistry {
	return &CellRegistry{centers: make(map[int]geom.Point)}
}

// Report records a cell's measured center, overwriting any earlier
// measurement for the same id.
func (r *CellRegistry) Report(id int, center geom.Point) {
	r.centers[id] = center
}

// Merge folds a later-produced partial report into this one. On key
// collision the entry from other wins; disjoint keys combine commutatively.
func (r *CellRegistry) Merge(other *CellRegistry) {
	if other == nil {
		return
	}
	for id, c := range other.centers {
		r.centers[id] = c
	}
}

// Lookup returns the last measured center for id. ok is false when the cell
// has never been measured; callers must treat that as "no close target" and
// fall back to snap-back.
func (r *CellRegistry) Lookup(id int) (center geom.Point, ok bool) {
	center, ok = r.centers[id]
	return center, ok
}

// Len returns the number of cells ever measured.
func (r *CellRegistry) Len() int {
	return len(r.centers)
}
