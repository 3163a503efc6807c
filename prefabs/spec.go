package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stackers/stack"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// StackSpec is stack.yaml: the coordinator's design values and the
// locomotion tuning shared by every controller.
type StackSpec struct {
	Coordinator stack.Config `yaml:"coordinator"`
	Tuning      stack.Tuning `yaml:"tuning"`
}

// LoadStackSpec reads stack.yaml over the built-in defaults, so keys left
// out of the file keep their default value.
func LoadStackSpec() (*StackSpec, error) {
	data, err := Load("stack.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load stack.yaml: %w", err)
	}
	spec := StackSpec{
		Coordinator: stack.DefaultConfig(),
		Tuning:      stack.DefaultTuning(),
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal stack.yaml: %w", err)
	}
	spec.Coordinator = spec.Coordinator.WithDefaults()
	spec.Tuning = spec.Tuning.WithDefaults()
	return &spec, nil
}

type LevelSpec struct {
	Name       string        `yaml:"name"`
	Spawns     []Vec3Spec    `yaml:"spawns"`
	Terrain    []TerrainSpec `yaml:"terrain"`
	KillY      float64       `yaml:"kill_y"`
	Background *YAMLColor    `yaml:"background"`
}

type TerrainSpec struct {
	Points    [][2]float64 `yaml:"points"`
	Thickness float64      `yaml:"thickness"`
	Friction  float64      `yaml:"friction"`
}

func LoadLevelSpec(filename string) (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](filename)
	if err != nil {
		return nil, err
	}
	if len(spec.Spawns) == 0 {
		return nil, fmt.Errorf("prefabs: %s: level has no spawn points", filename)
	}
	return &spec, nil
}

// SpawnFor returns the spawn point for the player that joined in position
// order. Extra players reuse the last spawn.
func (l *LevelSpec) SpawnFor(order int) mgl64.Vec3 {
	if l == nil || len(l.Spawns) == 0 {
		return mgl64.Vec3{}
	}
	if order < 0 {
		order = 0
	}
	if order >= len(l.Spawns) {
		order = len(l.Spawns) - 1
	}
	return l.Spawns[order].Vec()
}

type PlayersSpec struct {
	Players []PlayerJoinSpec `yaml:"players"`
}

type PlayerJoinSpec struct {
	Name    string     `yaml:"name"`
	Device  string     `yaml:"device"`
	Gamepad int        `yaml:"gamepad"`
	Color   *YAMLColor `yaml:"color"`
}

func LoadPlayersSpec() (*PlayersSpec, error) {
	spec, err := LoadSpec[PlayersSpec]("players.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type YAMLColor struct {
	color.Color
}

// Or converts the color, falling back to def when unset.
func (c *YAMLColor) Or(def color.RGBA) color.RGBA {
	if c == nil || c.Color == nil {
		return def
	}
	return color.RGBAModel.Convert(c.Color).(color.RGBA)
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// ParseHexColor parses #rrggbb or #rrggbbaa.
func ParseHexColor(raw string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", raw)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.NRGBA{}, err
		}
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
