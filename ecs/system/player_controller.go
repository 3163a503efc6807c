package system

import (
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/ecs/entity"
	"github.com/milk9111/stackers/stack"
)

// PlayerControllerSystem drives unstacked players with the same motor the
// composite uses.
type PlayerControllerSystem struct {
	coord   *stack.Coordinator
	physics entity.Physics
	dt      float64
}

func NewPlayerControllerSystem(coord *stack.Coordinator, physics entity.Physics, dt float64) *PlayerControllerSystem {
	return &PlayerControllerSystem{coord: coord, physics: physics, dt: dt}
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	tuning := stack.DefaultTuning()
	if s.coord != nil {
		tuning = s.coord.Tuning()
	}

	ecs.ForEach3(w, component.ControllerComponent, component.InputComponent, component.TransformComponent, func(e ecs.Entity, ctrl *component.Controller, in *component.Input, _ *component.Transform) {
		if !ctrl.Enabled {
			return
		}
		body := entity.NewCharacterBody(w, e, s.physics)
		drive := stack.Drive{Move: in.Sample.Move, Sprint: in.Sample.Sprint, Jump: in.Sample.Jump}
		ctrl.Motor.Step(body, drive, ctrl.Orbit.Yaw, tuning, s.dt)
	})
}
