package transition

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/pixelweaver/gallery_viewer/pkg/geom"
)

// SpringParams are the physical constants of the settle spring.
type SpringParams struct {
	Mass      float64
	Stiffness float64
	Damping   float64
}

// DefaultSpring gives a quick settle with a slight overshoot.
var DefaultSpring = SpringParams{Mass: 1, Stiffness: 170, Damping: 22}

// AngularFrequency returns ω = √(k/m).
func (p SpringParams) AngularFrequency() float64 {
	return math.Sqrt(p.Stiffness / p.Mass)
}

// DampingRatio returns ζ = c / (2√(km)). Below 1 the spring overshoots.
func (p SpringParams) DampingRatio() float64 {
	return p.Damping / (2 * math.Sqrt(p.Stiffness*p.Mass))
}

// Valid reports whether all constants are positive.
func (p SpringParams) Valid() bool {
	return p.Mass > 0 && p.Stiffness > 0 && p.Damping > 0
}

// Animation is a start-animation directive: interpolate the detail element's
// offset from From to To along a spring seeded with the gesture's release
// velocity. Speed is a global animation-speed multiplier (1 = normal).
type Animation struct {
	From            geom.Size
	To              geom.Size
	Spring          SpringParams
	InitialVelocity float64
	Speed           float64
}

// settleEpsilon bounds the normalized distance and velocity below which the
// spring is considered at rest.
const settleEpsilon = 1e-3

// Settle integrates an Animation. The spring acts on a normalized progress
// scalar (0 at From, 1 at To), which is the same unit the drag model's
// initial velocity is expressed in, so the motion continues seamlessly from
// the release.
type Settle struct {
	anim     Animation
	spring   harmonica.Spring
	progress float64
	velocity float64
}

// NewSettle builds the integrator for one directive, stepped at the given
// frame rate. The animation's speed multiplier scales the spring time step.
func NewSettle(anim Animation, fps int) *Settle {
	if fps <= 0 {
		fps = 60
	}
	speed := anim.Speed
	if speed <= 0 {
		speed = 1
	}
	p := anim.Spring
	if !p.Valid() {
		p = DefaultSpring
	}
	return &Settle{
		anim:     anim,
		spring:   harmonica.NewSpring(harmonica.FPS(fps)*speed, p.AngularFrequency(), p.DampingRatio()),
		velocity: anim.InitialVelocity,
	}
}

// Step advances one frame and returns the new offset.
func (s *Settle) Step() geom.Size {
	s.progress, s.velocity = s.spring.Update(s.progress, s.velocity, 1)
	return s.Offset()
}

// Offset returns the current interpolated offset without advancing.
func (s *Settle) Offset() geom.Size {
	return s.anim.From.Add(s.anim.To.Sub(s.anim.From).Mul(s.progress))
}

// Done reports whether the spring has come to rest at the target.
func (s *Settle) Done() bool {
	return math.Abs(s.progress-1) < settleEpsilon && math.Abs(s.velocity) < settleEpsilon
}
