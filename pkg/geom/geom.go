// Package geom provides the small amount of 2D vector math the gesture and
// transition code needs. Point is a position, Size a displacement; keeping
// them distinct makes the drag arithmetic read the way it is meant.
package geom

import "math"

// Point represents an absolute 2D position.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the point displaced by a size.
func (p Point) Add(s Size) Point {
	return Point{X: p.X + s.Width, Y: p.Y + s.Height}
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Size {
	return Size{Width: p.X - q.X, Height: p.Y - q.Y}
}

// Size represents a 2D displacement or extent.
type Size struct {
	Width, Height float64
}

// Sz is a convenience function to create a Size.
func Sz(w, h float64) Size {
	return Size{Width: w, Height: h}
}

// Add returns the sum of two sizes.
func (s Size) Add(t Size) Size {
	return Size{Width: s.Width + t.Width, Height: s.Height + t.Height}
}

// Sub returns the difference of two sizes.
func (s Size) Sub(t Size) Size {
	return Size{Width: s.Width - t.Width, Height: s.Height - t.Height}
}

// Mul returns the size scaled by a scalar.
func (s Size) Mul(k float64) Size {
	return Size{Width: s.Width * k, Height: s.Height * k}
}

// Div returns the size divided by a scalar.
func (s Size) Div(k float64) Size {
	return Size{Width: s.Width / k, Height: s.Height / k}
}

// Dot returns the dot product of two sizes.
func (s Size) Dot(t Size) float64 {
	return s.Width*t.Width + s.Height*t.Height
}

// Len returns the Euclidean length of the size.
func (s Size) Len() float64 {
	return math.Hypot(s.Width, s.Height)
}

// IsZero reports whether both components are exactly zero.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}
