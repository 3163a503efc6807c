package system

import (
	"log"

	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/stack"
)

// RespawnSystem returns anything that fell below its kill plane to its
// spawn point.
type RespawnSystem struct {
	coord *stack.Coordinator
}

func NewRespawnSystem(coord *stack.Coordinator) *RespawnSystem {
	return &RespawnSystem{coord: coord}
}

func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.RespawnComponent, component.TransformComponent, func(e ecs.Entity, r *component.Respawn, t *component.Transform) {
		if t.Position.Y() >= r.KillY {
			return
		}

		if s.isComposite(e) {
			s.coord.Session().Controller.Teleport(r.Spawn)
			log.Printf("respawn: composite fell below %.1f", r.KillY)
			return
		}

		t.Position = r.Spawn
		if ctrl, ok := ecs.Get(w, e, component.ControllerComponent); ok {
			ctrl.Motor = stack.Motor{}
		}
		log.Printf("respawn: entity %s fell below %.1f", e, r.KillY)
	})
}

func (s *RespawnSystem) isComposite(e ecs.Entity) bool {
	if s.coord == nil {
		return false
	}
	sess := s.coord.Session()
	if sess == nil || sess.Body == nil {
		return false
	}
	owned, ok := sess.Body.(interface{ Entity() ecs.Entity })
	return ok && owned.Entity() == e
}
