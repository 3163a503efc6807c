package component

import "github.com/milk9111/stackers/stack"

type DeviceKind int

const (
	DeviceKeyboardMouse DeviceKind = iota
	DeviceKeyboardArrows
	DeviceGamepad
)

func (d DeviceKind) String() string {
	switch d {
	case DeviceKeyboardMouse:
		return "keyboard_mouse"
	case DeviceKeyboardArrows:
		return "keyboard_arrows"
	case DeviceGamepad:
		return "gamepad"
	default:
		return "unknown"
	}
}

// Pointer reports whether look input comes as per-frame deltas.
func (d DeviceKind) Pointer() bool {
	return d == DeviceKeyboardMouse
}

// Input stores the latest sample polled for a player's device.
type Input struct {
	Device DeviceKind
	// Gamepad is the join slot among connected gamepads, used when Device
	// is DeviceGamepad.
	Gamepad int
	Sample  stack.InputSample
}

var InputComponent = NewComponent[Input]()
