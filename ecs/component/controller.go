package component

import "github.com/milk9111/stackers/stack"

// Controller is the individual third-person controller of an unstacked
// player. It shares Motor and Orbit with the composite.
type Controller struct {
	Enabled bool
	Motor   stack.Motor
	Orbit   stack.Orbit
}

var ControllerComponent = NewComponent[Controller]()
