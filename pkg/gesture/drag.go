// Package gesture models a pointer drag: velocity tracking across samples,
// the close-vs-snap-back decision at release, and the projection of release
// velocity onto the landing direction that seeds the settle spring.
package gesture

import (
	"time"

	"github.com/pixelweaver/gallery_viewer/pkg/geom"
)

// Sample is a single observed pointer reading.
type Sample struct {
	Location    geom.Point    // absolute pointer position
	Translation geom.Size     // offset from the gesture's start
	Time        time.Duration // monotonic, host-supplied (since app start)
}

// DragState tracks one in-progress or just-ended drag interaction. It is
// created on the first pointer move, mutated in place on every subsequent
// move, finalized once at release, and discarded when the triggered
// animation completes.
type DragState struct {
	// Sample is the latest pointer reading.
	Sample Sample

	// Origin is the detail view's on-screen center at drag start. Captured
	// once; immutable for the life of the drag.
	Origin geom.Point

	// Velocity is the translation delta between the two most recent samples
	// divided by their time delta, in points per second. Zero until a second
	// sample arrives.
	Velocity geom.Size

	// Target is the resolved landing position. Nil while dragging; set
	// exactly once by ResolveTarget when the gesture ends.
	Target *geom.Point
}

// Begin constructs the state for a new drag. origin must be the authoritative
// current position of the morphing element, not the grid cell's position.
func Begin(sample Sample, origin geom.Point) *DragState {
	return &DragState{Sample: sample, Origin: origin}
}

// Update folds in the next pointer reading and recomputes velocity. A sample
// whose timestamp does not advance past the current one is dropped: a zero or
// negative time delta has no meaningful velocity and must never reach the
// presentation layer as NaN or Inf.
func (d *DragState) Update(sample Sample) {
	dt := (sample.Time - d.Sample.Time).Seconds()
	if dt <= 0 {
		return
	}
	d.Velocity = sample.Translation.Sub(d.Sample.Translation).Div(dt)
	d.Sample = sample
}

// CurrentPosition returns where the dragged element's center is right now.
func (d *DragState) CurrentPosition() geom.Point {
	return d.Origin.Add(d.Sample.Translation)
}

// ShouldClose reports whether the gesture, released now, dismisses the detail
// view. The test is direction-only: any net downward motion closes, and a
// stationary release (velocity exactly zero) snaps back.
func (d *DragState) ShouldClose() bool {
	return d.Velocity.Height > 0
}

// ResolveTarget assigns the landing position, choosing closeTarget when the
// gesture's release direction dismisses and snapBackTarget otherwise. Called
// exactly once, at gesture end.
func (d *DragState) ResolveTarget(closeTarget, snapBackTarget geom.Point) {
	t := snapBackTarget
	if d.ShouldClose() {
		t = closeTarget
	}
	d.Target = &t
}

// InitialVelocity returns the spring seed: the release velocity projected
// onto the direction toward the target and normalized by that direction's
// length, giving the rate of closing the normalized current-to-target
// distance in crossings per second. ok is false until a target is resolved.
// A degenerate zero-length direction (already at the target) yields 0.
func (d *DragState) InitialVelocity() (v float64, ok bool) {
	if d.Target == nil {
		return 0, false
	}
	dir := d.Target.Sub(d.CurrentPosition())
	n := dir.Len()
	if n == 0 {
		return 0, true
	}
	return d.Velocity.Dot(dir) / (n * n), true
}
