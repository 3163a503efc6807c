package component

import "github.com/go-gl/mathgl/mgl64"

// Respawn returns an entity to Spawn once it falls below KillY.
type Respawn struct {
	Spawn mgl64.Vec3
	KillY float64
}

var RespawnComponent = NewComponent[Respawn]()
