package stack

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stackers/common"
)

const lookThreshold = 0.01

// Orbit is a third-person camera's yaw and pitch in degrees.
type Orbit struct {
	Yaw   float64
	Pitch float64
}

// Apply accumulates look input. Pointer devices report per-frame deltas and
// use a flat multiplier; sticks report rates and are scaled by dt. Returns
// false when the input was below the dead zone or the camera is locked.
func (o *Orbit) Apply(look mgl64.Vec2, pointer bool, t Tuning, dt float64) bool {
	if t.LockCamera || look.Dot(look) < lookThreshold {
		return false
	}
	multiplier := t.PointerSensitivity
	if !pointer {
		multiplier = dt * t.DirectionalSensitivity
	}
	o.Yaw = common.WrapAngle(o.Yaw + look.X()*multiplier)
	o.Pitch = common.ClampAngle(o.Pitch+look.Y()*multiplier, t.BottomClamp, t.TopClamp)
	return true
}
