package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is an entity's pose. Y is up; Yaw is degrees around Y.
type Transform struct {
	Position mgl64.Vec3
	Yaw      float64
}

var TransformComponent = NewComponent[Transform]()
