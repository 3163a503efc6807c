package stack

import "github.com/go-gl/mathgl/mgl64"

// InputSample is one player's logical input for the current frame.
// StackToggle is only true on the frame the stack button goes down.
type InputSample struct {
	Move        mgl64.Vec2
	Look        mgl64.Vec2
	Jump        bool
	Sprint      bool
	StackToggle bool
}

// InputSource exposes the latest sample written by the input layer.
type InputSource interface {
	Sample() InputSample
	// PointerDevice reports whether look input comes from a mouse-like
	// device (per-frame deltas) rather than a stick (rates).
	PointerDevice() bool
}
