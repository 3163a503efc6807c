package system

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/ecs/entity"
	"github.com/milk9111/stackers/prefabs"
	"github.com/milk9111/stackers/stack"
)

const testDT = 1.0 / 60

type stackWorld struct {
	w       *ecs.World
	physics *PhysicsSystem
	host    *entity.Host
	coord   *stack.Coordinator
	players []ecs.Entity
}

var testDevices = []string{"keyboard_mouse", "gamepad", "keyboard_arrows"}

func newStackWorld(t *testing.T, positions ...mgl64.Vec3) *stackWorld {
	t.Helper()
	w := ecs.NewWorld()
	level := &prefabs.LevelSpec{
		Name:    "flat",
		KillY:   -10,
		Terrain: []prefabs.TerrainSpec{{Points: [][2]float64{{-30, 0}, {30, 0}}, Thickness: 0.1, Friction: 1}},
	}
	if err := entity.LoadLevelToWorld(w, level); err != nil {
		t.Fatalf("load level: %v", err)
	}

	physics := NewPhysicsSystem(testDT)
	host := entity.NewHost(w, physics, component.Respawn{Spawn: mgl64.Vec3{0, 3, 0}, KillY: level.KillY})
	reg := stack.NewRegistry()
	sw := &stackWorld{
		w:       w,
		physics: physics,
		host:    host,
		coord:   stack.NewCoordinator(reg, host, stack.WithLogger(log.New(io.Discard, "", 0))),
	}
	for i, p := range positions {
		join := prefabs.PlayerJoinSpec{Name: fmt.Sprintf("P%d", i+1), Device: testDevices[i%len(testDevices)]}
		e, err := entity.NewPlayerAt(w, i, join, p, level.KillY)
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		if _, err := reg.Register(i, entity.NewBody(w, e), entity.Capabilities(w, e)); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		sw.players = append(sw.players, e)
	}
	physics.Update(w)
	return sw
}

func (sw *stackWorld) press(i int, on bool) {
	in, _ := ecs.Get(sw.w, sw.players[i], component.InputComponent)
	in.Sample.StackToggle = on
}

func (sw *stackWorld) hud(i int) *component.HUD {
	h, _ := ecs.Get(sw.w, sw.players[i], component.HUDComponent)
	return h
}

func TestStackToggleFlow(t *testing.T) {
	sw := newStackWorld(t, mgl64.Vec3{-1, 0.1, 0}, mgl64.Vec3{1, 0.1, 0})
	toggles := NewStackToggleSystem(sw.coord, false)
	hud := NewHUDSystem(sw.coord)

	hud.Update(sw.w)
	if got := sw.hud(0).Prompt; got != "[E] stack with P2" {
		t.Fatalf("idle prompt = %q", got)
	}

	sw.press(1, true)
	toggles.Update(sw.w)
	events := sw.w.Events().Drain()
	if len(events) != 1 || events[0].Type != EventStackChanged {
		t.Fatalf("expected one stack_changed event, got %+v", events)
	}
	if !sw.coord.IsStacked() {
		t.Fatalf("expected stacked")
	}
	sess := sw.coord.Session()
	if sess.Bottom.Index() != 1 || sess.Top.Index() != 0 {
		t.Fatalf("requester should be the bottom: bottom=%d top=%d", sess.Bottom.Index(), sess.Top.Index())
	}
	for _, e := range sw.players {
		if v, _ := ecs.Get(sw.w, e, component.VisualComponent); v.Active {
			t.Fatalf("stacked player still visible")
		}
		if c, _ := ecs.Get(sw.w, e, component.ControllerComponent); c.Enabled {
			t.Fatalf("stacked player still controlled")
		}
	}
	if sw.host.SplitScreen() {
		t.Fatalf("expected shared view while stacked")
	}
	if got := len(sw.w.Query(component.CompositeTagComponent.Kind())); got != 1 {
		t.Fatalf("expected one composite, got %d", got)
	}

	hud.Update(sw.w)
	if got := sw.hud(1).Prompt; got != "[Y] unstack  -  you walk" {
		t.Fatalf("bottom prompt = %q", got)
	}
	if got := sw.hud(0).Prompt; got != "[E] unstack  -  you look" {
		t.Fatalf("top prompt = %q", got)
	}

	sw.press(1, false)
	sw.press(0, true)
	toggles.Update(sw.w)
	if sw.coord.IsStacked() {
		t.Fatalf("expected unstacked")
	}
	if got := len(sw.w.Query(component.CompositeTagComponent.Kind())); got != 0 {
		t.Fatalf("composite not destroyed")
	}
	if !sw.host.SplitScreen() {
		t.Fatalf("expected split view")
	}
	for _, e := range sw.players {
		if v, _ := ecs.Get(sw.w, e, component.VisualComponent); !v.Active {
			t.Fatalf("released player still hidden")
		}
	}
}

func TestStackToggleFailureToast(t *testing.T) {
	sw := newStackWorld(t, mgl64.Vec3{-5, 0.1, 0}, mgl64.Vec3{5, 0.1, 0})
	toggles := NewStackToggleSystem(sw.coord, false)
	hud := NewHUDSystem(sw.coord)

	sw.press(0, true)
	toggles.Update(sw.w)
	hud.Update(sw.w)

	if sw.coord.IsStacked() {
		t.Fatalf("players too far apart stacked")
	}
	if got := sw.hud(0).Toast; got != "too far apart to stack" {
		t.Fatalf("toast = %q", got)
	}
	if sw.hud(1).Toast != "" {
		t.Fatalf("toast shown to the wrong player")
	}
	if sw.hud(0).Prompt != "" {
		t.Fatalf("no prompt expected without a partner nearby, got %q", sw.hud(0).Prompt)
	}

	sw.press(0, false)
	for i := 0; i < toastFrames; i++ {
		hud.Update(sw.w)
	}
	if sw.hud(0).Toast != "" {
		t.Fatalf("toast did not expire")
	}
}

func TestHUDPromptMatchesToggleTarget(t *testing.T) {
	sw := newStackWorld(t, mgl64.Vec3{0, 0.1, 0}, mgl64.Vec3{10, 0.1, 0}, mgl64.Vec3{1, 0.1, 0})
	toggles := NewStackToggleSystem(sw.coord, false)
	hud := NewHUDSystem(sw.coord)

	hud.Update(sw.w)
	if got := sw.hud(0).Prompt; got != "" {
		t.Fatalf("P1 targets the far P2, prompt = %q", got)
	}
	if got := sw.hud(1).Prompt; got != "" {
		t.Fatalf("P2 targets the far P1, prompt = %q", got)
	}
	if got := sw.hud(2).Prompt; got != "[Right Shift] stack with P1" {
		t.Fatalf("P3 prompt = %q", got)
	}

	sw.press(0, true)
	toggles.Update(sw.w)
	hud.Update(sw.w)
	if sw.coord.IsStacked() || sw.hud(0).Toast != "too far apart to stack" {
		t.Fatalf("P1 toggle should fail against P2, toast %q", sw.hud(0).Toast)
	}
	sw.press(0, false)

	sw.press(2, true)
	toggles.Update(sw.w)
	if !sw.coord.IsStacked() {
		t.Fatalf("P3 toggle should stack with the advertised P1")
	}
	if sess := sw.coord.Session(); sess.Bottom.Index() != 2 || sess.Top.Index() != 0 {
		t.Fatalf("stacked %d under %d", sess.Top.Index(), sess.Bottom.Index())
	}
}

func TestStackClearsFailureToast(t *testing.T) {
	sw := newStackWorld(t, mgl64.Vec3{-5, 0.1, 0}, mgl64.Vec3{5, 0.1, 0})
	scheduler := ecs.NewScheduler(NewStackToggleSystem(sw.coord, false), NewHUDSystem(sw.coord))

	sw.press(0, true)
	scheduler.Update(sw.w)
	if sw.hud(0).Toast == "" {
		t.Fatalf("expected a failure toast")
	}

	other, _ := ecs.Get(sw.w, sw.players[1], component.TransformComponent)
	other.Position = mgl64.Vec3{-4, 0.1, 0}
	scheduler.Update(sw.w)

	if !sw.coord.IsStacked() {
		t.Fatalf("expected stacked")
	}
	if sw.hud(0).Toast != "" || sw.hud(0).ToastFrames != 0 {
		t.Fatalf("stacking should clear the failure toast, got %q", sw.hud(0).Toast)
	}
	if sw.w.Events().Len() != 0 {
		t.Fatalf("scheduler left %d events behind", sw.w.Events().Len())
	}
}

func TestCompositeWalksOnTerrain(t *testing.T) {
	sw := newStackWorld(t, mgl64.Vec3{0, 0.1, 0}, mgl64.Vec3{1, 0.1, 0})
	if err := sw.coord.AttemptStack(0, 1); err != nil {
		t.Fatalf("stack: %v", err)
	}
	composite := NewCompositeSystem(sw.coord, testDT)
	in, _ := ecs.Get(sw.w, sw.players[0], component.InputComponent)
	in.Sample.Move = mgl64.Vec2{0, 1}

	for i := 0; i < 120; i++ {
		sw.physics.Update(sw.w)
		composite.Update(sw.w)
	}

	sess := sw.coord.Session()
	pos := sess.Body.Position()
	if pos.Z() <= 1 {
		t.Fatalf("composite did not walk forward: %v", pos)
	}
	if pos.Y() < 0 || pos.Y() > 0.2 {
		t.Fatalf("composite should rest on the terrain, y=%v", pos.Y())
	}
	if !sess.Controller.Grounded() {
		t.Fatalf("composite should be grounded")
	}
	if p, _ := ecs.Get(sw.w, sw.players[0], component.TransformComponent); p.Position != (mgl64.Vec3{0, 0.1, 0}) {
		t.Fatalf("hidden player moved to %v", p.Position)
	}
}

func TestPlayerControllerSkipsStackedPlayers(t *testing.T) {
	sw := newStackWorld(t, mgl64.Vec3{0, 0.1, 0}, mgl64.Vec3{1, 0.1, 0}, mgl64.Vec3{-1, 0.1, 0})
	controllers := NewPlayerControllerSystem(sw.coord, sw.physics, testDT)
	if err := sw.coord.AttemptStack(0, 1); err != nil {
		t.Fatalf("stack: %v", err)
	}
	for _, e := range sw.players {
		in, _ := ecs.Get(sw.w, e, component.InputComponent)
		in.Sample.Move = mgl64.Vec2{1, 0}
	}

	for i := 0; i < 30; i++ {
		sw.physics.Update(sw.w)
		controllers.Update(sw.w)
	}

	for i, e := range sw.players {
		tr, _ := ecs.Get(sw.w, e, component.TransformComponent)
		moved := tr.Position.X() != entityStart(i).X()
		if moved != (i == 2) {
			t.Fatalf("player %d moved=%v", i, moved)
		}
	}
}

func entityStart(i int) mgl64.Vec3 {
	return []mgl64.Vec3{{0, 0.1, 0}, {1, 0.1, 0}, {-1, 0.1, 0}}[i]
}

func TestRespawn(t *testing.T) {
	sw := newStackWorld(t, mgl64.Vec3{0, 0.1, 0}, mgl64.Vec3{1, 0.1, 0}, mgl64.Vec3{-1, 0.1, 0})
	respawn := NewRespawnSystem(sw.coord)

	if err := sw.coord.AttemptStack(0, 1); err != nil {
		t.Fatalf("stack: %v", err)
	}
	body := sw.coord.Session().Body
	body.SetPosition(mgl64.Vec3{4, -20, 0})

	loner, _ := ecs.Get(sw.w, sw.players[2], component.TransformComponent)
	loner.Position = mgl64.Vec3{-1, -11, 0}
	ctrl, _ := ecs.Get(sw.w, sw.players[2], component.ControllerComponent)
	ctrl.Motor.VerticalVelocity = -30

	respawn.Update(sw.w)

	if got := body.Position(); got != (mgl64.Vec3{0, 3, 0}) {
		t.Fatalf("composite respawned at %v", got)
	}
	if loner.Position != entityStart(2) || ctrl.Motor.VerticalVelocity != 0 {
		t.Fatalf("player not reset: %v %v", loner.Position, ctrl.Motor.VerticalVelocity)
	}
	if !sw.coord.IsStacked() {
		t.Fatalf("respawn should not break the stack")
	}
}

func TestPhysicsProbe(t *testing.T) {
	sw := newStackWorld(t, mgl64.Vec3{0, 0.1, 0})
	e := sw.players[0]

	hit := sw.physics.Probe(sw.w, e, mgl64.Vec3{0, 0.24, 0}, 0.28)
	if !hit.Hit {
		t.Fatalf("expected ground under the player")
	}
	if math.Abs(hit.Normal.Y()-1) > 1e-6 {
		t.Fatalf("flat ground normal = %v", hit.Normal)
	}
	if sw.physics.Probe(sw.w, e, mgl64.Vec3{0, 3, 0}, 0.28).Hit {
		t.Fatalf("probe in the air hit something")
	}
	if sw.physics.Probe(sw.w, e, mgl64.Vec3{50, 0.24, 0}, 0.28).Hit {
		t.Fatalf("probe past the terrain hit something")
	}
}

func TestPhysicsMove(t *testing.T) {
	tests := []struct {
		name  string
		start mgl64.Vec3
		delta mgl64.Vec3
		wantY float64
	}{
		{name: "snaps_to_ground", start: mgl64.Vec3{0, 0.1, 0}, delta: mgl64.Vec3{0.1, -0.5, 0}, wantY: 0.1},
		{name: "rising_not_snapped", start: mgl64.Vec3{0, 0.1, 0}, delta: mgl64.Vec3{0.1, 0.2, 0}, wantY: 0.3},
		{name: "falls_past_edge", start: mgl64.Vec3{50, 1, 0}, delta: mgl64.Vec3{0, -0.5, 0}, wantY: 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sw := newStackWorld(t, tc.start)
			e := sw.players[0]
			sw.physics.Move(sw.w, e, tc.delta)

			tr, _ := ecs.Get(sw.w, e, component.TransformComponent)
			if math.Abs(tr.Position.Y()-tc.wantY) > 1e-3 {
				t.Fatalf("y = %v, want %v", tr.Position.Y(), tc.wantY)
			}
			if math.Abs(tr.Position.X()-(tc.start.X()+tc.delta.X())) > 1e-9 {
				t.Fatalf("x = %v", tr.Position.X())
			}
		})
	}
}

func TestPhysicsReleasesDisabledColliders(t *testing.T) {
	sw := newStackWorld(t, mgl64.Vec3{0, 0.1, 0}, mgl64.Vec3{1, 0.1, 0})
	if got := len(sw.physics.characters); got != 2 {
		t.Fatalf("expected 2 characters, got %d", got)
	}
	if err := sw.coord.AttemptStack(0, 1); err != nil {
		t.Fatalf("stack: %v", err)
	}
	sw.physics.Update(sw.w)
	for _, e := range sw.players {
		if sw.physics.characters[e].inside {
			t.Fatalf("stacked player's collider still in the space")
		}
	}
	if err := sw.coord.Unstack(); err != nil {
		t.Fatalf("unstack: %v", err)
	}
	sw.physics.Update(sw.w)
	if got := len(sw.physics.characters); got != 2 {
		t.Fatalf("composite collider not released, %d characters", got)
	}
}

func TestHUDScriptPrompt(t *testing.T) {
	s := &HUDSystem{}
	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	tests := []struct {
		device  string
		role    string
		near    bool
		partner string
		want    string
	}{
		{device: "keyboard_mouse", role: "unassigned", near: true, partner: "P2", want: "[E] stack with P2"},
		{device: "keyboard_arrows", role: "unassigned", near: true, partner: "P1", want: "[Right Shift] stack with P1"},
		{device: "gamepad", role: "unassigned", want: ""},
		{device: "gamepad", role: "bottom", want: "[Y] unstack  -  you walk"},
		{device: "keyboard_mouse", role: "top", want: "[E] unstack  -  you look"},
	}
	for _, tc := range tests {
		got := s.prompt(map[string]any{
			"index":        0,
			"name":         "P1",
			"device":       tc.device,
			"role":         tc.role,
			"partner":      tc.partner,
			"partner_near": tc.near,
		})
		if got != tc.want {
			t.Fatalf("prompt(%s, %s) = %q, want %q", tc.device, tc.role, got, tc.want)
		}
	}
}

func TestCompileHUDScriptError(t *testing.T) {
	if _, err := compileHUDScript([]byte("prompt := func(")); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: fmt.Errorf("wrapped: %w", stack.ErrTooFar), want: "too far apart to stack"},
		{err: stack.ErrNoPartner, want: "no one to stack with"},
		{err: stack.ErrAlreadyStacked, want: "someone is already stacked"},
		{err: errors.New("boom"), want: "can't stack right now"},
	}
	for _, tc := range tests {
		if got := failureMessage(tc.err); got != tc.want {
			t.Fatalf("failureMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestViewports(t *testing.T) {
	tests := []struct {
		n    int
		want []image.Rectangle
	}{
		{n: 0},
		{n: 1, want: []image.Rectangle{image.Rect(0, 0, 1280, 720)}},
		{n: 2, want: []image.Rectangle{image.Rect(0, 0, 640, 720), image.Rect(640, 0, 1280, 720)}},
		{n: 3, want: []image.Rectangle{image.Rect(0, 0, 640, 360), image.Rect(640, 0, 1280, 360), image.Rect(0, 360, 640, 720)}},
		{n: 6, want: []image.Rectangle{
			image.Rect(0, 0, 640, 360), image.Rect(640, 0, 1280, 360),
			image.Rect(0, 360, 640, 720), image.Rect(640, 360, 1280, 720),
		}},
	}
	for _, tc := range tests {
		got := Viewports(tc.n, 1280, 720)
		if len(got) != len(tc.want) {
			t.Fatalf("Viewports(%d) returned %d rects", tc.n, len(got))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("Viewports(%d)[%d] = %v, want %v", tc.n, i, got[i], tc.want[i])
			}
		}
	}
}

func TestAxisAndDeadzone(t *testing.T) {
	if got := axis(true, false, false, true); math.Abs(got.Len()-1) > 1e-9 || got.X() <= 0 || got.Y() <= 0 {
		t.Fatalf("diagonal axis = %v", got)
	}
	if got := axis(true, true, true, true); got != (mgl64.Vec2{}) {
		t.Fatalf("opposing keys should cancel, got %v", got)
	}
	if got := deadzone(mgl64.Vec2{0.1, 0.1}, 0.2); got != (mgl64.Vec2{}) {
		t.Fatalf("small stick value not zeroed: %v", got)
	}
	if got := deadzone(mgl64.Vec2{1, 1}, 0.2); math.Abs(got.Len()-1) > 1e-9 {
		t.Fatalf("stick not clamped: %v", got)
	}
	if got := deadzone(mgl64.Vec2{0.5, 0}, 0.2); got != (mgl64.Vec2{0.5, 0}) {
		t.Fatalf("stick value changed: %v", got)
	}
}
