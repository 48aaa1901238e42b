// Package transition carries the shared-element morph plumbing: the ambient
// flag telling nested render code which representation it is drawing, and
// the spring-driven settle animation that finishes a drag.
package transition

// Context is passed by value down a render call chain. Because callees
// receive a copy, a flag set for one subtree cannot leak to siblings or
// escape the scope it was set in.
type Context struct {
	// Active is true while the shared element is rendered as the animating
	// destination (detail view, mid-transition). Renderers use it to switch
	// between the grid's fill crop and the detail's fit crop.
	Active bool
}

// WithActive returns a copy of the context with the flag set, for handing to
// the subtree that renders the morphing element.
func (c Context) WithActive(active bool) Context {
	c.Active = active
	return c
}
