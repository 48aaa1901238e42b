// Package gallery owns the grid-to-detail interaction state machine: which
// photo is open, the lifecycle of the drag gesture over it, and the derived
// presentation values the host renders every frame.
package gallery

import (
	"github.com/pixelweaver/gallery_viewer/pkg/geom"
	"github.com/pixelweaver/gallery_viewer/pkg/gesture"
	"github.com/pixelweaver/gallery_viewer/pkg/registry"
	"github.com/pixelweaver/gallery_viewer/pkg/transition"
)

// Phase is the state machine's current state.
type Phase int

const (
	PhaseIdle       Phase = iota // no detail open
	PhaseDetailOpen              // a photo shown full-screen, no active drag
	PhaseDragging                // detail shown, drag in progress
	PhaseSettling                // drag ended, animating toward a resolved target
)

// String returns the phase's display name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDetailOpen:
		return "detail"
	case PhaseDragging:
		return "dragging"
	case PhaseSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// dragCollapseDistance is the downward travel, in points, at which the
// dragged detail image shrinks to nothing.
const dragCollapseDistance = 1000

// gridFadeOvershoot makes the grid reach full opacity before the detail
// image finishes collapsing.
const gridFadeOvershoot = 1.3

// Controller orchestrates the grid/detail transitions. It is the sole owner
// of the drag state; the cell registry is owned by the view layer and only
// read here when resolving a close target.
type Controller struct {
	phase        Phase
	detail       int
	hasDetail    bool
	drag         *gesture.DragState
	detailCenter geom.Point
	cells        *registry.CellRegistry
	spring       transition.SpringParams
	speed        float64
	closing      bool // outcome of the settle in flight
}

// NewController returns a controller in the idle phase. cells may not be
// nil; spring and speed fall back to defaults when unset.
func NewController(cells *registry.CellRegistry, spring transition.SpringParams, speed float64) *Controller {
	if !spring.Valid() {
		spring = transition.DefaultSpring
	}
	if speed <= 0 {
		speed = 1
	}
	return &Controller{phase: PhaseIdle, cells: cells, spring: spring, speed: speed}
}

// Phase returns the current state.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Detail returns the photo id shown in detail view, if any.
func (c *Controller) Detail() (int, bool) {
	return c.detail, c.hasDetail
}

// SetDetailCenter records the detail view's measured on-screen center. The
// view layer reports it on every layout pass, like any other measurement.
func (c *Controller) SetDetailCenter(p geom.Point) {
	c.detailCenter = p
}

// DetailCenter returns the last measured detail-view center.
func (c *Controller) DetailCenter() geom.Point {
	return c.detailCenter
}

// SetSpeed replaces the global animation-speed multiplier.
func (c *Controller) SetSpeed(speed float64) {
	if speed > 0 {
		c.speed = speed
	}
}

// Speed returns the global animation-speed multiplier.
func (c *Controller) Speed() float64 {
	return c.speed
}

// Select opens a photo full-screen. Only valid from idle; it reports whether
// the transition happened. The shared-geometry morph from cell to screen is
// the host's job, keyed off the transition context flag.
func (c *Controller) Select(id int) bool {
	if c.phase != PhaseIdle {
		return false
	}
	c.detail = id
	c.hasDetail = true
	c.phase = PhaseDetailOpen
	return true
}

// BeginDrag starts a drag from the detail view on the gesture's first
// recognized pointer move. The drag origin is the detail view's current
// center, the authoritative position of the morphing element.
func (c *Controller) BeginDrag(s gesture.Sample) {
	if c.phase != PhaseDetailOpen {
		return
	}
	c.drag = gesture.Begin(s, c.detailCenter)
	c.phase = PhaseDragging
}

// Drag folds a subsequent pointer move into the active drag.
func (c *Controller) Drag(s gesture.Sample) {
	if c.phase != PhaseDragging || c.drag == nil {
		return
	}
	c.drag.Update(s)
}

// EndDrag finalizes the gesture and returns the settle directive for the
// host animation driver, or nil when no drag is active (duplicate release
// events are a no-op, not an error).
//
// A downward release resolves the close target from the registry; a cell
// that was never measured falls back to the detail center, which turns the
// release into a snap-back. The directive's initial velocity is the release
// velocity projected onto the landing direction.
func (c *Controller) EndDrag() *transition.Animation {
	if c.phase != PhaseDragging || c.drag == nil {
		return nil
	}

	snapBack := c.detailCenter
	closeTarget, measured := snapBack, false
	if c.hasDetail {
		if p, ok := c.cells.Lookup(c.detail); ok {
			closeTarget, measured = p, true
		}
	}

	c.closing = c.drag.ShouldClose() && measured
	c.drag.ResolveTarget(closeTarget, snapBack)
	seed, _ := c.drag.InitialVelocity()

	to := geom.Size{}
	if c.closing {
		to = closeTarget.Sub(c.drag.Origin)
	}

	c.phase = PhaseSettling
	return &transition.Animation{
		From:            c.drag.Sample.Translation,
		To:              to,
		Spring:          c.spring,
		InitialVelocity: seed,
		Speed:           c.speed,
	}
}

// Tap handles a completed tap on the detail view. Taps race the drag
// recognizer and force an immediate close, discarding any in-progress drag
// without settling.
func (c *Controller) Tap() {
	if c.phase != PhaseDetailOpen && c.phase != PhaseDragging {
		return
	}
	c.Close()
}

// Close forces an immediate return to idle from any phase, discarding any
// drag and the outcome of any settle in flight. The host calls it when the
// open photo disappears out from under the view, e.g. an album reload
// removed it.
func (c *Controller) Close() {
	c.drag = nil
	c.hasDetail = false
	c.closing = false
	c.phase = PhaseIdle
}

// CancelDrag discards an in-progress drag with no side effects, returning to
// the open detail view. The host gesture system calls this when the drag is
// superseded before release.
func (c *Controller) CancelDrag() {
	if c.phase != PhaseDragging {
		return
	}
	c.drag = nil
	c.phase = PhaseDetailOpen
}

// FinishSettle is the completion callback for the settle animation. A
// closing settle clears the detail photo; a snap-back returns to the open
// detail view. Either way the drag state is done.
func (c *Controller) FinishSettle() {
	if c.phase != PhaseSettling {
		return
	}
	c.drag = nil
	if c.closing {
		c.hasDetail = false
		c.phase = PhaseIdle
	} else {
		c.phase = PhaseDetailOpen
	}
	c.closing = false
}

// Offset returns the detail element's current drag offset: the latest sample
// translation while a gesture is live or settling, zero at rest.
func (c *Controller) Offset() geom.Size {
	if (c.phase == PhaseDragging || c.phase == PhaseSettling) && c.drag != nil {
		return c.drag.Sample.Translation
	}
	return geom.Size{}
}

// DragScale returns the detail image scale for the current offset.
func (c *Controller) DragScale() float64 {
	return DragScale(c.Offset())
}

// GridOpacity returns the grid's fade-in for the current state.
func (c *Controller) GridOpacity() float64 {
	return GridOpacity(c.hasDetail, c.DragScale())
}

// DragScale maps a drag offset to the detail image's scale: 1 at or above
// rest, shrinking linearly to 0 at dragCollapseDistance of downward travel.
func DragScale(offset geom.Size) float64 {
	if offset.Height <= 0 {
		return 1
	}
	return 1 - offset.Height/dragCollapseDistance
}

// GridOpacity maps the detail scale to the grid's opacity. The grid is fully
// visible when nothing is open; during a drag it fades in ahead of the
// detail image's collapse by the overshoot factor. The caller clamps to
// [0,1] when applying it.
func GridOpacity(detailOpen bool, scale float64) float64 {
	if !detailOpen {
		return 1
	}
	return (1 - scale) * gridFadeOvershoot
}
