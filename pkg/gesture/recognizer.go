package gesture

import (
	"math"
	"time"

	"github.com/pixelweaver/gallery_viewer/pkg/geom"
)

// DefaultDragThreshold is how far the pointer must travel from the press
// point before motion counts as a drag rather than a wobbly tap.
const DefaultDragThreshold = 1.0

// Recognizer arbitrates the tap-versus-drag race on a single pointer. Both
// outcomes stay live from the press: a release before motion exceeds the
// threshold is a tap; crossing the threshold commits the pointer to a drag
// and a tap can no longer win.
type Recognizer struct {
	threshold float64
	pressed   bool
	dragging  bool
	pressAt   geom.Point
	pressTime time.Duration
}

// NewRecognizer returns a recognizer with the given drag threshold.
// A non-positive threshold falls back to DefaultDragThreshold.
func NewRecognizer(threshold float64) *Recognizer {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	return &Recognizer{threshold: threshold}
}

// Press arms the recognizer at the given location.
func (r *Recognizer) Press(at geom.Point, t time.Duration) {
	r.pressed = true
	r.dragging = false
	r.pressAt = at
	r.pressTime = t
}

// Move feeds a pointer position while the button is held. It returns a
// Sample (translation measured from the press point) and whether the motion
// has been recognized as a drag. Motion without a preceding press is ignored.
func (r *Recognizer) Move(at geom.Point, t time.Duration) (Sample, bool) {
	if !r.pressed {
		return Sample{}, false
	}
	tr := at.Sub(r.pressAt)
	if !r.dragging && math.Hypot(tr.Width, tr.Height) >= r.threshold {
		r.dragging = true
	}
	return Sample{Location: at, Translation: tr, Time: t}, r.dragging
}

// Release disarms the recognizer and reports whether the completed gesture
// was a tap (never promoted to a drag). A release with no preceding press is
// a no-op and reports no tap.
func (r *Recognizer) Release() (tap bool) {
	if !r.pressed {
		return false
	}
	tap = !r.dragging
	r.pressed = false
	r.dragging = false
	return tap
}
