package component

import "image/color"

// Visual is an entity's drawable body. Inactive visuals are skipped by the
// renderer.
type Visual struct {
	Active bool
	Width  float64
	Height float64
	Color  color.RGBA
}

var VisualComponent = NewComponent[Visual]()
