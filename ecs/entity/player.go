package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/prefabs"
)

// NewPlayerAt builds player.yaml for a joining player and places it at its
// spawn point.
func NewPlayerAt(w *ecs.World, index int, join prefabs.PlayerJoinSpec, spawn mgl64.Vec3, killY float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, "player.yaml")
	if err != nil {
		return 0, err
	}

	device, err := ParseDevice(join.Device)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("player %d: %w", index, err)
	}
	in, ok := ecs.Get(w, e, component.InputComponent)
	if !ok {
		in = &component.Input{}
		if err := ecs.Add(w, e, component.InputComponent, in); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("player %d: add input: %w", index, err)
		}
	}
	in.Device = device
	in.Gamepad = join.Gamepad

	name := join.Name
	if name == "" {
		name = fmt.Sprintf("P%d", index+1)
	}
	col := join.Color.Or(playerColors[index%len(playerColors)])
	if err := ecs.Add(w, e, component.PlayerComponent, &component.Player{Index: index, Name: name, Color: col}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("player %d: add player: %w", index, err)
	}
	if v, ok := ecs.Get(w, e, component.VisualComponent); ok {
		v.Color = col
	}

	if err := SetEntityPosition(w, e, spawn); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("player %d: set position: %w", index, err)
	}
	if err := ecs.Add(w, e, component.RespawnComponent, &component.Respawn{Spawn: spawn, KillY: killY}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("player %d: add respawn: %w", index, err)
	}
	return e, nil
}
