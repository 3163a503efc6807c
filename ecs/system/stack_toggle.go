package system

import (
	"errors"
	"log"

	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/stack"
)

const (
	// EventStackChanged carries the stack.ToggleResult of a toggle that
	// stacked or unstacked.
	EventStackChanged ecs.EventType = "stack_changed"
	EventStackFailed  ecs.EventType = "stack_failed"
)

// StackToggleSystem feeds this frame's stack button presses to the
// coordinator and reports the outcome as world events.
type StackToggleSystem struct {
	coord *stack.Coordinator
	debug bool
}

func NewStackToggleSystem(coord *stack.Coordinator, debug bool) *StackToggleSystem {
	return &StackToggleSystem{coord: coord, debug: debug}
}

func (s *StackToggleSystem) Update(w *ecs.World) {
	if s == nil || s.coord == nil || w == nil {
		return
	}

	for _, res := range s.coord.HandleToggles() {
		switch {
		case res.Err == nil:
			w.Events().Push(ecs.Event{Type: EventStackChanged, Data: res})
		case errors.Is(res.Err, stack.ErrToggleDeferred), errors.Is(res.Err, stack.ErrInvalidSession):
			if s.debug {
				log.Printf("stack toggle: player %d: %v", res.Index, res.Err)
			}
		default:
			w.Events().Push(ecs.Event{Type: EventStackFailed, Data: res})
		}
	}
}
