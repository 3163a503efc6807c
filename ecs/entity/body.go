package entity

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/stack"
)

// Physics resolves character movement against the level.
type Physics interface {
	// Move displaces e by delta and writes the resolved position to its
	// transform.
	Move(w *ecs.World, e ecs.Entity, delta mgl64.Vec3)
	// Probe looks for ground inside a sphere, ignoring e's own collider.
	Probe(w *ecs.World, e ecs.Entity, origin mgl64.Vec3, radius float64) stack.GroundHit
	// Release drops any physics state held for e.
	Release(e ecs.Entity)
}

// Body exposes an entity's transform to the stacking core. It does not own
// the entity.
type Body struct {
	w *ecs.World
	e ecs.Entity
}

func NewBody(w *ecs.World, e ecs.Entity) Body {
	return Body{w: w, e: e}
}

func (b Body) Entity() ecs.Entity {
	return b.e
}

func (b Body) Alive() bool {
	return b.w.IsAlive(b.e) && ecs.Has(b.w, b.e, component.TransformComponent)
}

func (b Body) Position() mgl64.Vec3 {
	if t, ok := ecs.Get(b.w, b.e, component.TransformComponent); ok {
		return t.Position
	}
	return mgl64.Vec3{}
}

func (b Body) SetPosition(p mgl64.Vec3) {
	if t, ok := ecs.Get(b.w, b.e, component.TransformComponent); ok {
		t.Position = p
	}
}

// CharacterBody is a Body that can be driven by a stack.Motor.
type CharacterBody struct {
	Body
	physics Physics
}

func NewCharacterBody(w *ecs.World, e ecs.Entity, physics Physics) CharacterBody {
	return CharacterBody{Body: NewBody(w, e), physics: physics}
}

func (c CharacterBody) Yaw() float64 {
	if t, ok := ecs.Get(c.w, c.e, component.TransformComponent); ok {
		return t.Yaw
	}
	return 0
}

func (c CharacterBody) SetYaw(deg float64) {
	if t, ok := ecs.Get(c.w, c.e, component.TransformComponent); ok {
		t.Yaw = deg
	}
}

func (c CharacterBody) Move(delta mgl64.Vec3) {
	if c.physics == nil {
		c.SetPosition(c.Position().Add(delta))
		return
	}
	c.physics.Move(c.w, c.e, delta)
}

func (c CharacterBody) Probe(origin mgl64.Vec3, radius float64) stack.GroundHit {
	if c.physics == nil {
		return stack.GroundHit{}
	}
	return c.physics.Probe(c.w, c.e, origin, radius)
}

func (c CharacterBody) SetCameraRotation(pitch, yaw float64) {
	if cam, ok := ecs.Get(c.w, c.e, component.CameraComponent); ok {
		cam.Pitch = pitch
		cam.Yaw = yaw
	}
}

type VisualSwitch struct {
	w *ecs.World
	e ecs.Entity
}

func (s VisualSwitch) SetEnabled(on bool) {
	if v, ok := ecs.Get(s.w, s.e, component.VisualComponent); ok {
		v.Active = on
	}
}

type ControllerSwitch struct {
	w *ecs.World
	e ecs.Entity
}

func (s ControllerSwitch) SetEnabled(on bool) {
	if c, ok := ecs.Get(s.w, s.e, component.ControllerComponent); ok {
		c.Enabled = on
		if !on {
			// drop momentum so the player does not lurch on release
			c.Motor = stack.Motor{}
		}
	}
}

type ColliderSwitch struct {
	w *ecs.World
	e ecs.Entity
}

func (s ColliderSwitch) SetEnabled(on bool) {
	if c, ok := ecs.Get(s.w, s.e, component.ColliderComponent); ok {
		c.Enabled = on
	}
}

// InputSource reads the sample the input system stored on an entity.
type InputSource struct {
	w *ecs.World
	e ecs.Entity
}

func (s InputSource) Sample() stack.InputSample {
	if in, ok := ecs.Get(s.w, s.e, component.InputComponent); ok {
		return in.Sample
	}
	return stack.InputSample{}
}

func (s InputSource) PointerDevice() bool {
	if in, ok := ecs.Get(s.w, s.e, component.InputComponent); ok {
		return in.Device.Pointer()
	}
	return false
}

// Capabilities resolves the handles the stacking core toggles on a player.
// Missing components leave the matching handle nil.
func Capabilities(w *ecs.World, e ecs.Entity) stack.Capabilities {
	var caps stack.Capabilities
	if ecs.Has(w, e, component.InputComponent) {
		caps.Input = InputSource{w: w, e: e}
	}
	if ecs.Has(w, e, component.VisualComponent) {
		caps.Visuals = VisualSwitch{w: w, e: e}
	}
	if ecs.Has(w, e, component.ControllerComponent) {
		caps.Controller = ControllerSwitch{w: w, e: e}
	}
	if ecs.Has(w, e, component.ColliderComponent) {
		caps.Collider = ColliderSwitch{w: w, e: e}
	}
	return caps
}
