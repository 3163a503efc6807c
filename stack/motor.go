package stack

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stackers/common"
)

const (
	speedOffset           = 0.1
	groundedStickVelocity = -2.0
	flatSlopeEpsilon      = 0.01
)

var worldUp = mgl64.Vec3{0, 1, 0}

// GroundHit is the answer of a grounded probe.
type GroundHit struct {
	Hit    bool
	Normal mgl64.Vec3
}

// Mover is the engine side of a character controller: the motor reads the
// pose and probes, then hands back one displacement per tick.
type Mover interface {
	Position() mgl64.Vec3
	Yaw() float64
	SetYaw(deg float64)
	// Move displaces the body, letting the engine resolve collisions.
	Move(delta mgl64.Vec3)
	// Probe tests for ground inside a sphere at origin.
	Probe(origin mgl64.Vec3, radius float64) GroundHit
}

// Drive is the locomotion part of an InputSample.
type Drive struct {
	Move   mgl64.Vec2
	Sprint bool
	Jump   bool
}

// Motor integrates third-person locomotion: smoothed speed, damped turning,
// jump and gravity. The zero value is ready to use.
type Motor struct {
	Speed            float64
	TargetRotation   float64
	VerticalVelocity float64
	Grounded         bool
	// OnSlope is walkable tilted ground; Steep is ground too tilted to
	// stand on, which the body slides down.
	OnSlope          bool
	Steep            bool
	GroundNormal     mgl64.Vec3

	rotationVelocity float64
	jumpHeld         bool
}

// Step runs one locomotion tick. cameraYaw makes the move input camera
// relative. All reads happen before the single write to body.
func (m *Motor) Step(body Mover, in Drive, cameraYaw float64, t Tuning, dt float64) {
	if body == nil || dt <= 0 {
		return
	}

	m.groundedCheck(body, t)
	m.jumpAndGravity(in, t, dt)
	yaw, delta := m.move(body, in, cameraYaw, t, dt)

	body.SetYaw(yaw)
	body.Move(delta)
}

func (m *Motor) groundedCheck(body Mover, t Tuning) {
	pos := body.Position()
	hit := body.Probe(mgl64.Vec3{pos.X(), pos.Y() - t.GroundedOffset, pos.Z()}, t.GroundedRadius)

	m.Grounded = hit.Hit
	m.OnSlope = false
	m.Steep = false
	m.GroundNormal = worldUp
	if !hit.Hit {
		return
	}
	if hit.Normal.Len() > 0 {
		m.GroundNormal = hit.Normal.Normalize()
	}
	angle := mgl64.RadToDeg(math.Acos(common.Clamp(m.GroundNormal.Dot(worldUp), -1, 1)))
	m.OnSlope = angle > flatSlopeEpsilon && angle < t.MaxSlopeAngle
	m.Steep = angle >= t.MaxSlopeAngle
}

func (m *Motor) jumpAndGravity(in Drive, t Tuning, dt float64) {
	jumpEdge := in.Jump && !m.jumpHeld
	m.jumpHeld = in.Jump

	if m.Grounded {
		if m.VerticalVelocity < 0 {
			m.VerticalVelocity = groundedStickVelocity
		}
		if jumpEdge {
			m.VerticalVelocity = math.Sqrt(t.JumpHeight * -2 * t.Gravity)
			return
		}
		if m.VerticalVelocity <= 0 {
			// no gravity on the ground; steep ground slides in move
			return
		}
	}

	m.VerticalVelocity += t.Gravity * dt
	if m.VerticalVelocity < -t.TerminalVelocity {
		m.VerticalVelocity = -t.TerminalVelocity
	}
}

func (m *Motor) move(body Mover, in Drive, cameraYaw float64, t Tuning, dt float64) (float64, mgl64.Vec3) {
	targetSpeed := t.MoveSpeed
	if in.Sprint {
		targetSpeed = t.SprintSpeed
	}
	if in.Move == (mgl64.Vec2{}) {
		targetSpeed = 0
	}

	current := m.Speed
	if current < targetSpeed-speedOffset || current > targetSpeed+speedOffset {
		m.Speed = common.RoundTo(common.Lerp(current, targetSpeed, dt*t.SpeedChangeRate), 3)
	} else {
		m.Speed = targetSpeed
	}

	yaw := body.Yaw()
	if in.Move != (mgl64.Vec2{}) {
		dir := in.Move.Normalize()
		m.TargetRotation = mgl64.RadToDeg(math.Atan2(dir.X(), dir.Y())) + cameraYaw
		maxTurn := t.MaxTurnSpeed
		if maxTurn <= 0 {
			maxTurn = math.Inf(1)
		}
		yaw = common.SmoothDampAngle(yaw, m.TargetRotation, &m.rotationVelocity, t.RotationSmoothTime, maxTurn, dt)
	}

	heading := mgl64.DegToRad(m.TargetRotation)
	forward := mgl64.Vec3{math.Sin(heading), 0, math.Cos(heading)}
	if m.OnSlope {
		if along := projectOnPlane(forward, m.GroundNormal); along.Len() > 0 {
			forward = along.Normalize()
		}
	}

	delta := forward.Mul(m.Speed * dt)
	delta[1] += m.VerticalVelocity * dt
	if m.Steep {
		if downhill := projectOnPlane(worldUp.Mul(-1), m.GroundNormal); downhill.Len() > 0 {
			delta = delta.Add(downhill.Normalize().Mul(t.SlopeSlideSpeed * dt))
		}
	}
	return yaw, delta
}

func projectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(normal.Mul(v.Dot(normal)))
}
