package component

import "github.com/jakecoffman/cp"

// Collider is a character collider. The physics system owns Body and Shape.
type Collider struct {
	Enabled bool
	Radius  float64
	Height  float64

	Body  *cp.Body
	Shape *cp.Shape
}

var ColliderComponent = NewComponent[Collider]()

// Terrain is a static side-profile polyline in the x/y plane.
type Terrain struct {
	Points    [][2]float64
	Thickness float64
	Friction  float64
}

var TerrainComponent = NewComponent[Terrain]()
