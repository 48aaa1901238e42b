package gesture

import (
	"math"
	"testing"
	"time"

	"github.com/pixelweaver/gallery_viewer/pkg/geom"
)

func sampleAt(tr geom.Size, at time.Duration) Sample {
	return Sample{Translation: tr, Time: at}
}

func TestVelocityFromConsecutiveSamples(t *testing.T) {
	// Drag begins at origin (100,100); two samples 100ms apart.
	d := Begin(sampleAt(geom.Sz(0, 0), 0), geom.Pt(100, 100))
	if !d.Velocity.IsZero() {
		t.Fatalf("velocity before second sample = %+v, want zero", d.Velocity)
	}

	d.Update(sampleAt(geom.Sz(0, 50), 100*time.Millisecond))
	if d.Velocity != geom.Sz(0, 500) {
		t.Errorf("velocity = %+v, want (0,500)", d.Velocity)
	}
	if !d.ShouldClose() {
		t.Error("downward release velocity should close")
	}
}

func TestVelocityLawAcrossSequence(t *testing.T) {
	// For strictly increasing timestamps, velocity after each update is
	// exactly the delta of translations over the delta of times.
	translations := []geom.Size{
		{Width: 0, Height: 0},
		{Width: 2, Height: 10},
		{Width: -1, Height: 14},
		{Width: -1, Height: 14}, // no motion, time still advances
		{Width: 5, Height: 3},
	}
	times := []time.Duration{
		0,
		16 * time.Millisecond,
		48 * time.Millisecond,
		64 * time.Millisecond,
		90 * time.Millisecond,
	}

	d := Begin(sampleAt(translations[0], times[0]), geom.Pt(0, 0))
	for i := 1; i < len(translations); i++ {
		prev := d.Sample
		d.Update(sampleAt(translations[i], times[i]))

		dt := (times[i] - prev.Time).Seconds()
		want := translations[i].Sub(prev.Translation).Div(dt)
		if math.Abs(d.Velocity.Width-want.Width) > 1e-9 ||
			math.Abs(d.Velocity.Height-want.Height) > 1e-9 {
			t.Errorf("sample %d: velocity = %+v, want %+v", i, d.Velocity, want)
		}
	}
}

func TestUpdateIgnoresNonAdvancingTime(t *testing.T) {
	d := Begin(sampleAt(geom.Sz(0, 0), time.Second), geom.Pt(0, 0))
	d.Update(sampleAt(geom.Sz(0, 10), 1100*time.Millisecond))
	v := d.Velocity

	// Duplicate timestamp: dropped, velocity unchanged, sample unchanged.
	d.Update(sampleAt(geom.Sz(0, 99), 1100*time.Millisecond))
	if d.Velocity != v {
		t.Errorf("velocity changed on zero dt: %+v", d.Velocity)
	}
	if d.Sample.Translation != geom.Sz(0, 10) {
		t.Errorf("sample replaced on zero dt: %+v", d.Sample.Translation)
	}

	// Time going backwards is likewise dropped.
	d.Update(sampleAt(geom.Sz(0, 99), time.Millisecond))
	if d.Velocity != v {
		t.Errorf("velocity changed on negative dt: %+v", d.Velocity)
	}
}

func TestShouldCloseBoundary(t *testing.T) {
	cases := []struct {
		name string
		vy   float64
		want bool
	}{
		{"downward", 0.001, true},
		{"stationary", 0, false},
		{"upward", -50, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Begin(sampleAt(geom.Sz(0, 0), 0), geom.Pt(0, 0))
			d.Velocity = geom.Sz(0, tc.vy)
			if got := d.ShouldClose(); got != tc.want {
				t.Errorf("ShouldClose with vy=%v = %v, want %v", tc.vy, got, tc.want)
			}
		})
	}
}

func TestSingleSampleDragSnapsBack(t *testing.T) {
	// One sample, no motion: zero velocity, never closes.
	d := Begin(sampleAt(geom.Sz(0, 0), 0), geom.Pt(40, 60))
	if d.ShouldClose() {
		t.Error("stationary drag must not close")
	}
	d.ResolveTarget(geom.Pt(10, 200), geom.Pt(40, 60))
	if d.Target == nil || *d.Target != geom.Pt(40, 60) {
		t.Errorf("target = %+v, want snap-back (40,60)", d.Target)
	}
}

func TestResolveTargetChoosesCloseOnDownwardRelease(t *testing.T) {
	d := Begin(sampleAt(geom.Sz(0, 0), 0), geom.Pt(100, 100))
	d.Update(sampleAt(geom.Sz(0, 50), 100*time.Millisecond))

	close := geom.Pt(20, 300)
	back := geom.Pt(100, 100)
	d.ResolveTarget(close, back)
	if d.Target == nil || *d.Target != close {
		t.Errorf("target = %+v, want close target %+v", d.Target, close)
	}
}

func TestInitialVelocityRequiresTarget(t *testing.T) {
	d := Begin(sampleAt(geom.Sz(0, 0), 0), geom.Pt(0, 0))
	if _, ok := d.InitialVelocity(); ok {
		t.Error("InitialVelocity reported ok with no target")
	}
}

func TestInitialVelocityProjection(t *testing.T) {
	d := Begin(sampleAt(geom.Sz(0, 0), 0), geom.Pt(100, 100))
	d.Update(sampleAt(geom.Sz(10, 40), 100*time.Millisecond))
	// velocity = (100, 400)

	target := geom.Pt(110, 190) // direction from (110,140) is (0,50)
	d.Target = &target

	dir := target.Sub(d.CurrentPosition())
	want := d.Velocity.Dot(dir) / (dir.Len() * dir.Len())

	got, ok := d.InitialVelocity()
	if !ok {
		t.Fatal("InitialVelocity not ok with target set")
	}
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("InitialVelocity = %v, want %v", got, want)
	}
	// Moving straight at a target 50 away at 400/s closes 8 distances/s.
	if math.Abs(got-8) > 1e-12 {
		t.Errorf("InitialVelocity = %v, want 8", got)
	}
}

func TestInitialVelocityDegenerateDirection(t *testing.T) {
	d := Begin(sampleAt(geom.Sz(0, 0), 0), geom.Pt(100, 100))
	d.Velocity = geom.Sz(0, 900)
	target := d.CurrentPosition() // zero-length direction
	d.Target = &target

	got, ok := d.InitialVelocity()
	if !ok {
		t.Fatal("InitialVelocity not ok for degenerate direction")
	}
	if got != 0 {
		t.Errorf("InitialVelocity = %v, want 0 for zero-length direction", got)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("InitialVelocity produced non-finite value %v", got)
	}
}
