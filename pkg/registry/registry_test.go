package registry

import (
	"testing"

	"github.com/pixelweaver/gallery_viewer/pkg/geom"
)

func TestReportLastWriteWins(t *testing.T) {
	r := New()
	r.Report(3, geom.Pt(10, 10))
	r.Report(3, geom.Pt(40, 80))

	got, ok := r.Lookup(3)
	if !ok {
		t.Fatal("entry missing after report")
	}
	if got != geom.Pt(40, 80) {
		t.Errorf("Lookup = %+v, want the later measurement (40,80)", got)
	}
}

func TestLookupMissing(t *testing.T) {
	r := New()
	if _, ok := r.Lookup(99); ok {
		t.Error("Lookup reported ok for a never-measured cell")
	}
}

func TestMergeCommutativeForDisjointKeys(t *testing.T) {
	build := func(ids ...int) *CellRegistry {
		r := New()
		for _, id := range ids {
			r.Report(id, geom.Pt(float64(id), float64(id*2)))
		}
		return r
	}

	ab := build(1, 2)
	ab.Merge(build(3, 4))

	ba := build(3, 4)
	ba.Merge(build(1, 2))

	for id := 1; id <= 4; id++ {
		a, aok := ab.Lookup(id)
		b, bok := ba.Lookup(id)
		if !aok || !bok || a != b {
			t.Errorf("id %d: merge order changed result: %v/%v %v/%v", id, a, aok, b, bok)
		}
	}
}

func TestMergeCollisionLaterProducedWins(t *testing.T) {
	earlier := New()
	earlier.Report(7, geom.Pt(1, 1))

	later := New()
	later.Report(7, geom.Pt(5, 5))

	earlier.Merge(later)
	got, _ := earlier.Lookup(7)
	if got != geom.Pt(5, 5) {
		t.Errorf("collision resolved to %+v, want later measurement (5,5)", got)
	}
}

func TestMergeNil(t *testing.T) {
	r := New()
	r.Report(1, geom.Pt(0, 0))
	r.Merge(nil) // must not panic
	if r.Len() != 1 {
		t.Errorf("Len = %d after nil merge, want 1", r.Len())
	}
}
