package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/prefabs"
)

var playerColors = []color.RGBA{
	{R: 0x4f, G: 0xa3, B: 0xff, A: 0xff},
	{R: 0xff, G: 0x6f, B: 0x61, A: 0xff},
	{R: 0x7c, G: 0xd9, B: 0x6b, A: 0xff},
	{R: 0xf2, G: 0xc9, B: 0x4c, A: 0xff},
}

// LoadLevelToWorld creates the terrain entities of a level and the view
// layout singleton, starting in split-screen.
func LoadLevelToWorld(w *ecs.World, lvl *prefabs.LevelSpec) error {
	if w == nil || lvl == nil {
		return fmt.Errorf("level: world and level are required")
	}
	for i, t := range lvl.Terrain {
		if len(t.Points) < 2 {
			return fmt.Errorf("level %q: terrain %d needs at least two points", lvl.Name, i)
		}
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.TerrainComponent, &component.Terrain{
			Points:    t.Points,
			Thickness: t.Thickness,
			Friction:  t.Friction,
		}); err != nil {
			return fmt.Errorf("level %q: terrain %d: %w", lvl.Name, i, err)
		}
	}

	layout := ecs.CreateEntity(w)
	if err := ecs.Add(w, layout, component.ViewLayoutComponent, &component.ViewLayout{Split: true}); err != nil {
		return fmt.Errorf("level %q: view layout: %w", lvl.Name, err)
	}
	return nil
}
