package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stackers/stack"
)

func TestLoadStackSpecMatchesDefaults(t *testing.T) {
	spec, err := LoadStackSpec()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Coordinator != stack.DefaultConfig() {
		t.Fatalf("coordinator = %+v, want %+v", spec.Coordinator, stack.DefaultConfig())
	}
	if spec.Tuning != stack.DefaultTuning() {
		t.Fatalf("tuning = %+v, want %+v", spec.Tuning, stack.DefaultTuning())
	}
}

func TestLoadLevelSpec(t *testing.T) {
	level, err := LoadLevelSpec("level.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(level.Spawns) < 2 || len(level.Terrain) == 0 {
		t.Fatalf("level needs two spawns and terrain, got %d/%d", len(level.Spawns), len(level.Terrain))
	}
	if level.KillY >= 0 {
		t.Fatalf("kill plane should be below ground, got %v", level.KillY)
	}
	if got := level.Background.Or(color.RGBA{}); got != (color.RGBA{R: 0x1b, G: 0x1f, B: 0x2a, A: 0xff}) {
		t.Fatalf("background = %v", got)
	}

	if _, err := LoadLevelSpec("missing.yaml"); err == nil {
		t.Fatalf("expected error for missing level")
	}
}

func TestSpawnFor(t *testing.T) {
	level := &LevelSpec{Spawns: []Vec3Spec{{X: 1}, {X: 2}}}
	tests := []struct {
		order int
		want  mgl64.Vec3
	}{
		{order: -1, want: mgl64.Vec3{1, 0, 0}},
		{order: 0, want: mgl64.Vec3{1, 0, 0}},
		{order: 1, want: mgl64.Vec3{2, 0, 0}},
		{order: 5, want: mgl64.Vec3{2, 0, 0}},
	}
	for _, tc := range tests {
		if got := level.SpawnFor(tc.order); got != tc.want {
			t.Fatalf("SpawnFor(%d) = %v, want %v", tc.order, got, tc.want)
		}
	}

	var empty *LevelSpec
	if got := empty.SpawnFor(0); got != (mgl64.Vec3{}) {
		t.Fatalf("nil level spawn = %v", got)
	}
}

func TestLoadPlayersSpec(t *testing.T) {
	spec, err := LoadPlayersSpec()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(spec.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(spec.Players))
	}
	if spec.Players[0].Device != "keyboard_mouse" || spec.Players[1].Device != "gamepad" {
		t.Fatalf("unexpected devices: %+v", spec.Players)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#ff8000", want: color.NRGBA{R: 255, G: 128, A: 255}},
		{in: " 10203040 ", want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: "#fff", wantErr: true},
		{in: "#gg0000", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseHexColor(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseHexColor(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseHexColor(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestEntityBuildSpecs(t *testing.T) {
	for _, name := range []string{"player.yaml", "stacked.yaml"} {
		spec, err := LoadEntityBuildSpec(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		collider, err := DecodeComponentSpec[ColliderComponentSpec](spec.Components["collider"])
		if err != nil {
			t.Fatalf("%s collider: %v", name, err)
		}
		if collider.Radius <= 0 || collider.Height <= 0 {
			t.Fatalf("%s collider has no size: %+v", name, collider)
		}
	}

	none, err := DecodeComponentSpec[CameraComponentSpec](nil)
	if err != nil || none != (CameraComponentSpec{}) {
		t.Fatalf("nil component should decode to zero value")
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"hud.tengo", "scripts/hud.tengo", "prefabs/scripts/hud.tengo"} {
		data, err := LoadScript(name)
		if err != nil || len(data) == 0 {
			t.Fatalf("LoadScript(%q): %v", name, err)
		}
	}
}

func TestLoadPrefersDiskCopy(t *testing.T) {
	old := Dir
	t.Cleanup(func() { Dir = old })
	Dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(Dir, "stack.yaml"), []byte("override"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := Load("prefabs/stack.yaml")
	if err != nil || string(data) != "override" {
		t.Fatalf("Load = %q, %v; want disk copy", data, err)
	}
	if _, err := Load("player.yaml"); err != nil {
		t.Fatalf("embedded fallback: %v", err)
	}
	if got := WatchDirs(); len(got) != 2 || got[0] != Dir {
		t.Fatalf("WatchDirs = %v", got)
	}
}
