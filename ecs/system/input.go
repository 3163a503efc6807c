package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/stack"
)

const (
	stickDeadzone  = 0.2
	mouseLookScale = 0.1
)

// InputSystem polls every player's device once per frame and stores the
// result on the player's Input component.
type InputSystem struct {
	gamepads []ebiten.GamepadID

	cursorX, cursorY int
	cursorReady      bool
	mouseDelta       mgl64.Vec2
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (s *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	s.gamepads = ebiten.AppendGamepadIDs(s.gamepads[:0])
	s.sampleMouse()

	ecs.ForEach(w, component.InputComponent, func(e ecs.Entity, in *component.Input) {
		switch in.Device {
		case component.DeviceKeyboardMouse:
			in.Sample = s.keyboardMouse()
		case component.DeviceKeyboardArrows:
			in.Sample = keyboardArrows()
		case component.DeviceGamepad:
			in.Sample = s.gamepad(in.Gamepad)
		default:
			in.Sample = stack.InputSample{}
		}
	})
}

func (s *InputSystem) sampleMouse() {
	x, y := ebiten.CursorPosition()
	if !s.cursorReady {
		s.cursorX, s.cursorY = x, y
		s.cursorReady = true
	}
	s.mouseDelta = mgl64.Vec2{float64(x - s.cursorX), float64(y - s.cursorY)}
	s.cursorX, s.cursorY = x, y
}

func (s *InputSystem) keyboardMouse() stack.InputSample {
	return stack.InputSample{
		Move: axis(
			ebiten.IsKeyPressed(ebiten.KeyW),
			ebiten.IsKeyPressed(ebiten.KeyS),
			ebiten.IsKeyPressed(ebiten.KeyA),
			ebiten.IsKeyPressed(ebiten.KeyD),
		),
		Look:        s.mouseDelta.Mul(mouseLookScale),
		Jump:        ebiten.IsKeyPressed(ebiten.KeySpace),
		Sprint:      ebiten.IsKeyPressed(ebiten.KeyShiftLeft),
		StackToggle: inpututil.IsKeyJustPressed(ebiten.KeyE),
	}
}

func keyboardArrows() stack.InputSample {
	return stack.InputSample{
		Move: axis(
			ebiten.IsKeyPressed(ebiten.KeyArrowUp),
			ebiten.IsKeyPressed(ebiten.KeyArrowDown),
			ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
			ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		),
		// look keys behave like a stick: a rate, not a delta
		Look: axis(
			ebiten.IsKeyPressed(ebiten.KeyK),
			ebiten.IsKeyPressed(ebiten.KeyI),
			ebiten.IsKeyPressed(ebiten.KeyJ),
			ebiten.IsKeyPressed(ebiten.KeyL),
		),
		Jump:        ebiten.IsKeyPressed(ebiten.KeyEnter),
		Sprint:      ebiten.IsKeyPressed(ebiten.KeyControlRight),
		StackToggle: inpututil.IsKeyJustPressed(ebiten.KeyShiftRight),
	}
}

func (s *InputSystem) gamepad(slot int) stack.InputSample {
	if slot < 0 || slot >= len(s.gamepads) {
		return stack.InputSample{}
	}
	id := s.gamepads[slot]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return stack.InputSample{}
	}

	move := mgl64.Vec2{
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
		-ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
	}
	look := mgl64.Vec2{
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal),
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical),
	}

	return stack.InputSample{
		Move:        deadzone(move, stickDeadzone),
		Look:        deadzone(look, stickDeadzone),
		Jump:        ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom),
		Sprint:      ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftStick),
		StackToggle: inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop),
	}
}

// axis turns four direction keys into a vector no longer than 1. Forward is
// +y.
func axis(up, down, left, right bool) mgl64.Vec2 {
	var v mgl64.Vec2
	if up {
		v[1]++
	}
	if down {
		v[1]--
	}
	if left {
		v[0]--
	}
	if right {
		v[0]++
	}
	if l := v.Len(); l > 1 {
		v = v.Mul(1 / l)
	}
	return v
}

// deadzone zeroes small stick values and clamps the rest to unit length.
func deadzone(v mgl64.Vec2, dz float64) mgl64.Vec2 {
	l := v.Len()
	if l < dz {
		return mgl64.Vec2{}
	}
	if l > 1 {
		return v.Mul(1 / l)
	}
	return v
}
