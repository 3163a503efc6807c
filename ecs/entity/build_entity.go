package entity

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":    addPlayerTag,
	"composite_tag": addCompositeTag,
	"transform":     addTransform,
	"input":         addInput,
	"controller":    addController,
	"collider":      addCollider,
	"visual":        addVisual,
	"camera":        addCamera,
	"hud":           addHUD,
}

var componentBuildOrder = []string{
	"player_tag",
	"composite_tag",
	"transform",
	"input",
	"controller",
	"collider",
	"visual",
	"camera",
	"hud",
}

// BuildEntity creates an entity from a prefab. A failed build leaves no
// entity behind.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for components %v", prefabPath, names)
	}

	return e, nil
}

// SetEntityPosition moves e, adding a transform if it has none.
func SetEntityPosition(w *ecs.World, e ecs.Entity, p mgl64.Vec3) error {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return ecs.Add(w, e, component.TransformComponent, &component.Transform{Position: p})
	}
	t.Position = p
	return nil
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent, &component.PlayerTag{})
}

func addCompositeTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CompositeTagComponent, &component.CompositeTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent, &component.Transform{
		Position: mgl64.Vec3{spec.X, spec.Y, spec.Z},
		Yaw:      spec.Yaw,
	})
}

type inputSpec = prefabs.InputComponentSpec

func addInput(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[inputSpec](raw)
	if err != nil {
		return fmt.Errorf("decode input spec: %w", err)
	}
	device, err := ParseDevice(spec.Device)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.InputComponent, &component.Input{
		Device:  device,
		Gamepad: spec.Gamepad,
	})
}

// ParseDevice maps a device name from yaml to its kind. Empty means
// keyboard and mouse.
func ParseDevice(name string) (component.DeviceKind, error) {
	switch name {
	case "", "keyboard_mouse":
		return component.DeviceKeyboardMouse, nil
	case "keyboard_arrows":
		return component.DeviceKeyboardArrows, nil
	case "gamepad":
		return component.DeviceGamepad, nil
	default:
		return 0, fmt.Errorf("unknown input device %q", name)
	}
}

type controllerSpec = prefabs.ControllerComponentSpec

func addController(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[controllerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode controller spec: %w", err)
	}
	enabled := true
	if spec.Enabled != nil {
		enabled = *spec.Enabled
	}
	return ecs.Add(w, e, component.ControllerComponent, &component.Controller{Enabled: enabled})
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	if spec.Radius <= 0 {
		return fmt.Errorf("collider radius must be positive, got %v", spec.Radius)
	}
	enabled := true
	if spec.Enabled != nil {
		enabled = *spec.Enabled
	}
	return ecs.Add(w, e, component.ColliderComponent, &component.Collider{
		Enabled: enabled,
		Radius:  spec.Radius,
		Height:  spec.Height,
	})
}

type visualSpec = prefabs.VisualComponentSpec

func addVisual(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[visualSpec](raw)
	if err != nil {
		return fmt.Errorf("decode visual spec: %w", err)
	}
	col := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if spec.Color != "" {
		parsed, err := prefabs.ParseHexColor(spec.Color)
		if err != nil {
			return err
		}
		col = color.RGBAModel.Convert(parsed).(color.RGBA)
	}
	active := true
	if spec.Active != nil {
		active = *spec.Active
	}
	return ecs.Add(w, e, component.VisualComponent, &component.Visual{
		Active: active,
		Width:  spec.Width,
		Height: spec.Height,
		Color:  col,
	})
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.Distance == 0 {
		spec.Distance = 6
	}
	if spec.Zoom == 0 {
		spec.Zoom = 48
	}
	return ecs.Add(w, e, component.CameraComponent, &component.Camera{
		Pitch:    spec.Pitch,
		Distance: spec.Distance,
		Zoom:     spec.Zoom,
	})
}

func addHUD(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.HUDComponent, &component.HUD{})
}
