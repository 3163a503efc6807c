package system

import (
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/stack"
)

// CompositeSystem runs the stacked character's locomotion tick.
type CompositeSystem struct {
	coord *stack.Coordinator
	dt    float64
}

func NewCompositeSystem(coord *stack.Coordinator, dt float64) *CompositeSystem {
	return &CompositeSystem{coord: coord, dt: dt}
}

func (s *CompositeSystem) Update(_ *ecs.World) {
	if s == nil || s.coord == nil {
		return
	}
	s.coord.FixedUpdate(s.dt)
}
