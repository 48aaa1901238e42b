package gallery

import (
	"math"
	"testing"
	"time"

	"github.com/pixelweaver/gallery_viewer/pkg/geom"
	"github.com/pixelweaver/gallery_viewer/pkg/gesture"
	"github.com/pixelweaver/gallery_viewer/pkg/registry"
	"github.com/pixelweaver/gallery_viewer/pkg/transition"
)

func newTestController(cells *registry.CellRegistry) *Controller {
	if cells == nil {
		cells = registry.New()
	}
	c := NewController(cells, transition.DefaultSpring, 1)
	c.SetDetailCenter(geom.Pt(100, 100))
	return c
}

func sampleAt(tr geom.Size, at time.Duration) gesture.Sample {
	return gesture.Sample{Translation: tr, Time: at}
}

// dragDownward puts the controller into Dragging with net downward velocity.
func dragDownward(c *Controller) {
	c.BeginDrag(sampleAt(geom.Sz(0, 0), 0))
	c.Drag(sampleAt(geom.Sz(0, 50), 100*time.Millisecond))
}

func TestSelectOpensDetail(t *testing.T) {
	c := newTestController(nil)
	if !c.Select(3) {
		t.Fatal("Select from idle failed")
	}
	if c.Phase() != PhaseDetailOpen {
		t.Errorf("phase = %v, want detail", c.Phase())
	}
	if id, ok := c.Detail(); !ok || id != 3 {
		t.Errorf("Detail = %d,%v, want 3,true", id, ok)
	}
	// A second select while open is rejected.
	if c.Select(4) {
		t.Error("Select accepted while detail open")
	}
}

func TestDragLifecycleClose(t *testing.T) {
	cells := registry.New()
	cells.Report(3, geom.Pt(20, 300))
	c := newTestController(cells)
	c.Select(3)

	dragDownward(c)
	if c.Phase() != PhaseDragging {
		t.Fatalf("phase = %v, want dragging", c.Phase())
	}
	if c.Offset() != geom.Sz(0, 50) {
		t.Errorf("offset = %+v, want (0,50)", c.Offset())
	}

	anim := c.EndDrag()
	if anim == nil {
		t.Fatal("EndDrag returned no directive")
	}
	if c.Phase() != PhaseSettling {
		t.Errorf("phase = %v, want settling", c.Phase())
	}
	if anim.From != geom.Sz(0, 50) {
		t.Errorf("anim.From = %+v, want (0,50)", anim.From)
	}
	// Close lands on the cell center: offset = cell - drag origin.
	if anim.To != geom.Sz(-80, 200) {
		t.Errorf("anim.To = %+v, want (-80,200)", anim.To)
	}
	if anim.InitialVelocity <= 0 {
		t.Errorf("downward release toward a lower target should seed a positive velocity, got %v", anim.InitialVelocity)
	}

	c.FinishSettle()
	if c.Phase() != PhaseIdle {
		t.Errorf("phase after closing settle = %v, want idle", c.Phase())
	}
	if _, ok := c.Detail(); ok {
		t.Error("detail still set after close")
	}
}

func TestDragLifecycleSnapBack(t *testing.T) {
	cells := registry.New()
	cells.Report(3, geom.Pt(20, 300))
	c := newTestController(cells)
	c.Select(3)

	// Upward release: snap back.
	c.BeginDrag(sampleAt(geom.Sz(0, 0), 0))
	c.Drag(sampleAt(geom.Sz(0, -30), 100*time.Millisecond))

	anim := c.EndDrag()
	if anim == nil {
		t.Fatal("EndDrag returned no directive")
	}
	if anim.To != (geom.Size{}) {
		t.Errorf("snap-back anim.To = %+v, want zero offset", anim.To)
	}

	c.FinishSettle()
	if c.Phase() != PhaseDetailOpen {
		t.Errorf("phase after snap-back settle = %v, want detail", c.Phase())
	}
	if _, ok := c.Detail(); !ok {
		t.Error("detail cleared by snap-back")
	}
}

func TestMissingRegistryEntryFallsBackToSnapBack(t *testing.T) {
	// shouldClose is true but the cell was never measured: the outcome is a
	// snap-back to the detail center, never a crash or a close to nowhere.
	c := newTestController(registry.New())
	c.Select(7)
	dragDownward(c)

	anim := c.EndDrag()
	if anim == nil {
		t.Fatal("EndDrag returned no directive")
	}
	if anim.To != (geom.Size{}) {
		t.Errorf("anim.To = %+v, want zero-offset snap-back", anim.To)
	}

	c.FinishSettle()
	if c.Phase() != PhaseDetailOpen {
		t.Errorf("phase = %v, want detail (snap-back outcome)", c.Phase())
	}
}

func TestTapWhileDraggingForcesIdle(t *testing.T) {
	cells := registry.New()
	cells.Report(1, geom.Pt(10, 10))
	c := newTestController(cells)
	c.Select(1)
	dragDownward(c)

	c.Tap()
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle immediately after tap", c.Phase())
	}
	if _, ok := c.Detail(); ok {
		t.Error("detail still set after tap")
	}
	// The discarded drag must not produce a late settle.
	if anim := c.EndDrag(); anim != nil {
		t.Error("EndDrag produced a directive after tap discarded the drag")
	}
}

func TestCloseForcesIdleFromAnyPhase(t *testing.T) {
	// Close is the host's escape hatch for when the open photo vanishes
	// (album reload); unlike Tap it works even mid-settle.
	cells := registry.New()
	cells.Report(2, geom.Pt(20, 300))
	c := newTestController(cells)
	c.Select(2)
	dragDownward(c)
	if c.EndDrag() == nil {
		t.Fatal("EndDrag returned no directive")
	}

	c.Close()
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle after Close", c.Phase())
	}
	if _, ok := c.Detail(); ok {
		t.Error("detail still set after Close")
	}

	// The abandoned settle's completion callback must not resurrect it.
	c.FinishSettle()
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v after late FinishSettle, want idle", c.Phase())
	}

	// And the controller is immediately usable again.
	if !c.Select(4) {
		t.Error("Select rejected after Close")
	}
}

func TestDuplicateEndDragIsNoOp(t *testing.T) {
	cells := registry.New()
	cells.Report(1, geom.Pt(10, 10))
	c := newTestController(cells)
	c.Select(1)
	dragDownward(c)

	if c.EndDrag() == nil {
		t.Fatal("first EndDrag returned nil")
	}
	if c.EndDrag() != nil {
		t.Error("duplicate EndDrag returned a second directive")
	}
	if c.Phase() != PhaseSettling {
		t.Errorf("phase = %v, want settling", c.Phase())
	}
}

func TestEndDragWithoutDragIsNoOp(t *testing.T) {
	c := newTestController(nil)
	c.Select(1)
	if anim := c.EndDrag(); anim != nil {
		t.Error("EndDrag with no active drag returned a directive")
	}
	if c.Phase() != PhaseDetailOpen {
		t.Errorf("phase = %v, want detail", c.Phase())
	}
}

func TestCancelDragRestoresDetail(t *testing.T) {
	c := newTestController(nil)
	c.Select(1)
	dragDownward(c)

	c.CancelDrag()
	if c.Phase() != PhaseDetailOpen {
		t.Errorf("phase = %v, want detail", c.Phase())
	}
	if c.Offset() != (geom.Size{}) {
		t.Errorf("offset = %+v after cancel, want zero", c.Offset())
	}
}

func TestOffsetZeroOutsideDrag(t *testing.T) {
	c := newTestController(nil)
	if c.Offset() != (geom.Size{}) {
		t.Errorf("idle offset = %+v, want zero", c.Offset())
	}
	c.Select(1)
	if c.Offset() != (geom.Size{}) {
		t.Errorf("detail offset = %+v, want zero", c.Offset())
	}
}

func TestDragScale(t *testing.T) {
	if got := DragScale(geom.Sz(0, 0)); got != 1 {
		t.Errorf("scale at rest = %v, want 1", got)
	}
	if got := DragScale(geom.Sz(0, -200)); got != 1 {
		t.Errorf("scale for upward drag = %v, want 1", got)
	}
	if got := DragScale(geom.Sz(300, 0)); got != 1 {
		t.Errorf("scale for sideways-only drag = %v, want 1", got)
	}
	if got := DragScale(geom.Sz(0, 1000)); got != 0 {
		t.Errorf("scale at full travel = %v, want 0", got)
	}

	// Strictly decreasing for downward travel.
	prev := DragScale(geom.Sz(0, 1))
	for h := 2.0; h <= 1000; h += 50 {
		cur := DragScale(geom.Sz(0, h))
		if cur >= prev {
			t.Fatalf("scale not strictly decreasing at height %v: %v >= %v", h, cur, prev)
		}
		prev = cur
	}
}

func TestGridOpacity(t *testing.T) {
	if got := GridOpacity(false, 0.4); got != 1 {
		t.Errorf("opacity with no detail = %v, want 1", got)
	}
	if got := GridOpacity(true, 1); got != 0 {
		t.Errorf("opacity at full scale = %v, want 0", got)
	}

	// Full opacity is reached before the detail image collapses: at
	// scale = 1 - 1/1.3 the raw value crosses 1.
	threshold := 1 - 1/1.3
	if got := GridOpacity(true, threshold); math.Abs(got-1) > 1e-12 {
		t.Errorf("opacity at threshold scale = %v, want 1", got)
	}
	if got := GridOpacity(true, threshold-0.01); got <= 1 {
		t.Errorf("opacity past threshold = %v, want > 1 (clamped by the host)", got)
	}
}

func TestSettleDrivenByDirective(t *testing.T) {
	// End-to-end: the directive the controller emits converges under the
	// host's settle integrator, and completion lands the state machine in
	// the right phase.
	cells := registry.New()
	cells.Report(5, geom.Pt(30, 240))
	c := newTestController(cells)
	c.Select(5)
	dragDownward(c)

	anim := c.EndDrag()
	s := transition.NewSettle(*anim, 60)
	for i := 0; i < 900 && !s.Done(); i++ {
		s.Step()
	}
	if !s.Done() {
		t.Fatal("settle never converged")
	}
	if s.Offset().Sub(anim.To).Len() > 1 {
		t.Errorf("settled offset %+v far from target %+v", s.Offset(), anim.To)
	}

	c.FinishSettle()
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle after closing settle", c.Phase())
	}
}

func TestPhaseString(t *testing.T) {
	want := map[Phase]string{
		PhaseIdle:       "idle",
		PhaseDetailOpen: "detail",
		PhaseDragging:   "dragging",
		PhaseSettling:   "settling",
	}
	for p, s := range want {
		if p.String() != s {
			t.Errorf("Phase(%d).String() = %q, want %q", p, p.String(), s)
		}
	}
}
