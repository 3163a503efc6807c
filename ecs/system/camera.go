package system

import (
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/stack"
)

// CameraSystem applies look input after locomotion: unstacked players orbit
// their own camera, and the coordinator updates the composite's.
type CameraSystem struct {
	coord *stack.Coordinator
	dt    float64
}

func NewCameraSystem(coord *stack.Coordinator, dt float64) *CameraSystem {
	return &CameraSystem{coord: coord, dt: dt}
}

func (s *CameraSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	tuning := stack.DefaultTuning()
	if s.coord != nil {
		tuning = s.coord.Tuning()
	}

	ecs.ForEach3(w, component.ControllerComponent, component.InputComponent, component.CameraComponent, func(_ ecs.Entity, ctrl *component.Controller, in *component.Input, cam *component.Camera) {
		if !ctrl.Enabled {
			return
		}
		ctrl.Orbit.Apply(in.Sample.Look, in.Device.Pointer(), tuning, s.dt)
		cam.Pitch = ctrl.Orbit.Pitch
		cam.Yaw = ctrl.Orbit.Yaw
	})

	if s.coord != nil {
		s.coord.LateUpdate(s.dt)
	}
}
