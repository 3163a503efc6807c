package stack

import "github.com/go-gl/mathgl/mgl64"

// CompositeBody is the engine entity that represents a stack.
type CompositeBody interface {
	Body
	Mover
	SetCameraRotation(pitch, yaw float64)
}

// Composite drives a stacked character from two players: the bottom slot's
// move, sprint and jump, and the top slot's look. It owns no input state.
type Composite struct {
	body   CompositeBody
	bottom *Slot
	top    *Slot
	tuning Tuning

	motor Motor
	orbit Orbit
}

func NewComposite(body CompositeBody, bottom, top *Slot, tuning Tuning) *Composite {
	return &Composite{
		body:   body,
		bottom: bottom,
		top:    top,
		tuning: tuning,
	}
}

func (c *Composite) Body() CompositeBody { return c.body }
func (c *Composite) Bottom() *Slot { return c.bottom }
func (c *Composite) Top() *Slot { return c.top }
func (c *Composite) Motor() Motor { return c.motor }
func (c *Composite) Orbit() Orbit { return c.orbit }
func (c *Composite) Grounded() bool { return c.motor.Grounded }

func (c *Composite) SetTuning(t Tuning) {
	c.tuning = t
}

// Teleport moves the composite and clears its momentum.
func (c *Composite) Teleport(p mgl64.Vec3) {
	if c.body == nil || !c.body.Alive() {
		return
	}
	c.body.SetPosition(p)
	c.motor = Motor{}
}

// Tick is the fixed-rate locomotion update.
func (c *Composite) Tick(dt float64) {
	if c.body == nil || !c.body.Alive() {
		return
	}
	in, _ := c.bottom.sample()
	drive := Drive{Move: in.Move, Sprint: in.Sprint, Jump: in.Jump}
	c.motor.Step(c.body, drive, c.orbit.Yaw, c.tuning, dt)
}

// LateTick is the camera update, run after locomotion.
func (c *Composite) LateTick(dt float64) {
	if c.body == nil || !c.body.Alive() {
		return
	}
	in, pointer := c.top.sample()
	c.orbit.Apply(in.Look, pointer, c.tuning, dt)
	c.body.SetCameraRotation(c.orbit.Pitch, c.orbit.Yaw)
}
