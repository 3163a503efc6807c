package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/stackers/common"
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/ecs/entity"
	"github.com/milk9111/stackers/ecs/system"
	"github.com/milk9111/stackers/prefabs"
	"github.com/milk9111/stackers/stack"
	"go.opentelemetry.io/otel/trace"
)

const tickRate = 60

var defaultBackground = color.RGBA{R: 0x1b, G: 0x1f, B: 0x2a, A: 0xff}

type Options struct {
	Debug  bool
	Level  string
	Watch  bool
	Tracer trace.Tracer
}

type Game struct {
	opts Options

	world     *ecs.World
	scheduler *ecs.Scheduler
	coord     *stack.Coordinator
	hud       *system.HUDSystem
	render    *system.RenderSystem

	watcher *prefabs.Watcher
	pauseUI *ebitenui.UI
	paused  bool
	restart bool
	pointer bool
}

func NewGame(opts Options) (*Game, error) {
	g := &Game{opts: opts}
	if err := g.load(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.WatchDirs()...)
		if err != nil {
			log.Printf("prefabs: watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// load builds a fresh world from the prefabs: level, players in join order,
// and the systems that drive them.
func (g *Game) load() error {
	stackSpec, err := prefabs.LoadStackSpec()
	if err != nil {
		return err
	}
	lvl, err := prefabs.LoadLevelSpec(g.opts.Level)
	if err != nil {
		return err
	}
	players, err := prefabs.LoadPlayersSpec()
	if err != nil {
		return err
	}

	world := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(world, lvl); err != nil {
		return err
	}

	dt := 1.0 / float64(tickRate)
	physics := system.NewPhysicsSystem(dt)
	host := entity.NewHost(world, physics, component.Respawn{Spawn: lvl.SpawnFor(0), KillY: lvl.KillY})

	registry := stack.NewRegistry()
	coord := stack.NewCoordinator(registry, host,
		stack.WithConfig(stackSpec.Coordinator),
		stack.WithTuning(stackSpec.Tuning),
		stack.WithLogger(log.Default()),
		stack.WithTracer(g.opts.Tracer),
		stack.WithDebug(g.opts.Debug),
	)

	pointer := false
	for i, join := range players.Players {
		e, err := entity.NewPlayerAt(world, i, join, lvl.SpawnFor(i), lvl.KillY)
		if err != nil {
			return fmt.Errorf("join player %d: %w", i, err)
		}
		if _, err := registry.Register(i, entity.NewBody(world, e), entity.Capabilities(world, e)); err != nil {
			return fmt.Errorf("join player %d: %w", i, err)
		}
		if in, ok := ecs.Get(world, e, component.InputComponent); ok && in.Device.Pointer() {
			pointer = true
		}
		log.Printf("game: %s joined at %v", join.Name, lvl.SpawnFor(i))
	}

	hud := system.NewHUDSystem(coord)
	g.world = world
	g.coord = coord
	g.hud = hud
	g.pointer = pointer
	g.scheduler = ecs.NewScheduler()
	g.scheduler.AddStage("input", system.NewInputSystem(), system.NewStackToggleSystem(coord, g.opts.Debug))
	g.scheduler.AddStage("simulate",
		system.NewPlayerControllerSystem(coord, physics, dt),
		system.NewCompositeSystem(coord, dt),
		physics,
	)
	g.scheduler.AddStage("late", system.NewCameraSystem(coord, dt), system.NewRespawnSystem(coord))
	g.scheduler.AddStage("ui", hud)
	if g.opts.Debug {
		log.Printf("stages: %v", g.scheduler.Stages())
	}
	g.render = system.NewRenderSystem(coord, lvl.Background.Or(defaultBackground), g.opts.Debug)
	g.render.SetDebugSpace(physics.Space())
	g.updateCursor()
	return nil
}

func (g *Game) Update() error {
	g.applyPrefabChanges()

	if pausePressed() {
		g.setPaused(!g.paused)
	}

	if g.paused {
		g.pauseUI.Update()
		if g.restart {
			g.restart = false
			if err := g.load(); err != nil {
				return fmt.Errorf("restart: %w", err)
			}
			g.setPaused(false)
		}
		return nil
	}

	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	g.updateCursor()
}

// updateCursor captures the mouse for mouse-look while playing and frees
// it for the pause menu.
func (g *Game) updateCursor() {
	if g.pointer && !g.paused {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
}

func pausePressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return true
	}
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight) {
			return true
		}
	}
	return false
}

func (g *Game) applyPrefabChanges() {
	if g.watcher == nil {
		return
	}
	for _, change := range g.watcher.Drain() {
		switch change.Kind {
		case prefabs.ChangeStack:
			spec, err := prefabs.LoadStackSpec()
			if err != nil {
				log.Printf("prefabs: reload %s: %v", change.Path, err)
				continue
			}
			g.coord.SetConfig(spec.Coordinator)
			g.coord.SetTuning(spec.Tuning)
			log.Printf("prefabs: reloaded %s", change.Path)
		case prefabs.ChangeScript:
			if err := g.hud.Reload(); err != nil {
				log.Printf("prefabs: reload %s: %v", change.Path, err)
				continue
			}
			log.Printf("prefabs: reloaded %s", change.Path)
		default:
			log.Printf("prefabs: %s changed, restart from the pause menu to apply", change.Path)
		}
	}
}
