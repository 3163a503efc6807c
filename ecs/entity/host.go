package entity

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/stack"
)

var errForeignBody = errors.New("host: body was not created by this host")

// Host creates and removes the composite entity for the stacking
// coordinator and owns the screen layout.
type Host struct {
	w       *ecs.World
	physics Physics
	respawn component.Respawn
	prefab  string
}

// NewHost returns a host that builds composites from stacked.yaml. A fallen
// composite respawns at respawn.Spawn.
func NewHost(w *ecs.World, physics Physics, respawn component.Respawn) *Host {
	return &Host{w: w, physics: physics, respawn: respawn, prefab: "stacked.yaml"}
}

func (h *Host) SpawnComposite(position mgl64.Vec3) (stack.CompositeBody, error) {
	e, err := BuildEntity(h.w, h.prefab)
	if err != nil {
		return nil, fmt.Errorf("host: spawn composite: %w", err)
	}
	if err := SetEntityPosition(h.w, e, position); err != nil {
		ecs.DestroyEntity(h.w, e)
		return nil, fmt.Errorf("host: spawn composite: %w", err)
	}
	respawn := h.respawn
	if err := ecs.Add(h.w, e, component.RespawnComponent, &respawn); err != nil {
		ecs.DestroyEntity(h.w, e)
		return nil, fmt.Errorf("host: spawn composite: %w", err)
	}
	return NewCharacterBody(h.w, e, h.physics), nil
}

func (h *Host) DestroyComposite(body stack.CompositeBody) {
	owned, ok := body.(interface{ Entity() ecs.Entity })
	if !ok {
		log.Printf("host: destroy composite: %v", errForeignBody)
		return
	}
	e := owned.Entity()
	if h.physics != nil {
		h.physics.Release(e)
	}
	ecs.DestroyEntity(h.w, e)
}

func (h *Host) SetSplitScreen(enabled bool) {
	e, ok := h.w.First(component.ViewLayoutComponent.Kind())
	if !ok {
		e = ecs.CreateEntity(h.w)
		if err := ecs.Add(h.w, e, component.ViewLayoutComponent, &component.ViewLayout{}); err != nil {
			log.Printf("host: view layout: %v", err)
			return
		}
	}
	if layout, ok := ecs.Get(h.w, e, component.ViewLayoutComponent); ok {
		layout.Split = enabled
	}
}

// SplitScreen reports the current layout.
func (h *Host) SplitScreen() bool {
	e, ok := h.w.First(component.ViewLayoutComponent.Kind())
	if !ok {
		return true
	}
	layout, ok := ecs.Get(h.w, e, component.ViewLayoutComponent)
	return !ok || layout.Split
}
