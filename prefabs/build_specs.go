package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

type VisualComponentSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Color  string  `yaml:"color"`
	Active *bool   `yaml:"active"`
}

type ColliderComponentSpec struct {
	Radius  float64 `yaml:"radius"`
	Height  float64 `yaml:"height"`
	Enabled *bool   `yaml:"enabled"`
}

type ControllerComponentSpec struct {
	Enabled *bool `yaml:"enabled"`
}

type CameraComponentSpec struct {
	Distance float64 `yaml:"distance"`
	Zoom     float64 `yaml:"zoom"`
	Pitch    float64 `yaml:"pitch"`
}

type InputComponentSpec struct {
	Device  string `yaml:"device"`
	Gamepad int    `yaml:"gamepad"`
}
