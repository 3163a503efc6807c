package stack

import "github.com/go-gl/mathgl/mgl64"

// Role is a slot's part in the active stack.
type Role int

const (
	RoleUnassigned Role = iota
	// RoleBottom drives locomotion (move, sprint, jump).
	RoleBottom
	// RoleTop drives the camera.
	RoleTop
)

func (r Role) String() string {
	switch r {
	case RoleBottom:
		return "bottom"
	case RoleTop:
		return "top"
	default:
		return "unassigned"
	}
}

// Body is a non-owning handle to an engine entity.
type Body interface {
	Alive() bool
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
}

// Switch enables or disables one engine-side capability of an entity.
type Switch interface {
	SetEnabled(enabled bool)
}

// Capabilities are the handles a slot needs, resolved once at registration.
// Any of them may be nil; the matching side effect is then skipped.
type Capabilities struct {
	Input      InputSource
	Visuals    Switch
	Controller Switch
	Collider   Switch
}

// Slot is a registered player.
type Slot struct {
	index             int
	body              Body
	caps              Capabilities
	role              Role
	controllerEnabled bool
}

func (s *Slot) Index() int { return s.index }
func (s *Slot) Body() Body { return s.body }
func (s *Slot) Input() InputSource { return s.caps.Input }
func (s *Slot) Role() Role { return s.role }
func (s *Slot) ControllerEnabled() bool { return s.controllerEnabled }
func (s *Slot) Capabilities() Capabilities { return s.caps }

// Active reports whether the slot is an independent, live player.
func (s *Slot) Active() bool {
	return s.controllerEnabled && s.alive()
}

func (s *Slot) alive() bool {
	return s != nil && s.body != nil && s.body.Alive()
}

// sample returns the slot's input, or a neutral sample when the entity or
// its source is gone.
func (s *Slot) sample() (InputSample, bool) {
	if !s.alive() || s.caps.Input == nil {
		return InputSample{}, false
	}
	return s.caps.Input.Sample(), s.caps.Input.PointerDevice()
}

func (s *Slot) setVisuals(on bool) {
	if s.caps.Visuals != nil {
		s.caps.Visuals.SetEnabled(on)
	}
}

func (s *Slot) setControl(on bool) {
	if s.caps.Controller != nil {
		s.caps.Controller.SetEnabled(on)
	}
	if s.caps.Collider != nil {
		s.caps.Collider.SetEnabled(on)
	}
}
