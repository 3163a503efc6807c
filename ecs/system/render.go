package system

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/stack"
)

// terrain is drawn as rails at these depths so the extrusion along z reads
var terrainRails = []float64{-6, -3, 0, 3, 6}

var (
	terrainColor = color.RGBA{R: 0x8a, G: 0x9b, B: 0x68, A: 0xff}
	dividerColor = color.RGBA{A: 0xff}
)

// RenderSystem draws one view per player while split, or a single view of
// the composite while stacked.
type RenderSystem struct {
	coord      *stack.Coordinator
	background color.Color
	debug      bool
	space      *cp.Space
}

func NewRenderSystem(coord *stack.Coordinator, background color.Color, debug bool) *RenderSystem {
	if background == nil {
		background = color.RGBA{R: 0x1b, G: 0x1f, B: 0x2a, A: 0xff}
	}
	return &RenderSystem{coord: coord, background: background, debug: debug}
}

// SetDebugSpace makes debug views outline the colliders in space.
func (r *RenderSystem) SetDebugSpace(space *cp.Space) {
	r.space = space
}

// view is a camera pose: a target entity seen from an orbit.
type view struct {
	target mgl64.Vec3
	yaw    float64
	pitch  float64
	zoom   float64
	rect   image.Rectangle
}

func (v view) project(p mgl64.Vec3) (float32, float32, float64) {
	rel := p.Sub(v.target)
	yaw := mgl64.DegToRad(v.yaw)
	pitch := mgl64.DegToRad(v.pitch)

	right := rel.X()*math.Cos(yaw) - rel.Z()*math.Sin(yaw)
	depth := rel.X()*math.Sin(yaw) + rel.Z()*math.Cos(yaw)
	up := rel.Y()*math.Cos(pitch) + depth*math.Sin(pitch)

	cx := float64(v.rect.Min.X+v.rect.Max.X) / 2
	cy := float64(v.rect.Min.Y+v.rect.Max.Y)/2 + float64(v.rect.Dy())/6
	return float32(cx + right*v.zoom), float32(cy - up*v.zoom), depth
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(r.background)

	bounds := screen.Bounds()
	followed := r.followed(w)
	rects := Viewports(len(followed), bounds.Dx(), bounds.Dy())
	for i, e := range followed {
		if i >= len(rects) {
			break
		}
		v, ok := r.viewFor(w, e, rects[i])
		if !ok {
			continue
		}
		sub := screen.SubImage(rects[i]).(*ebiten.Image)
		r.drawWorld(w, sub, v)
		if r.debug {
			drawPhysicsDebug(r.space, sub, v)
			drawMotorDebug(w, r.coord, e, sub, rects[i].Max.X-140, rects[i].Min.Y+8)
		}
		r.drawHUD(w, sub, e, rects[i])
	}
	for i := 1; i < len(rects); i++ {
		rc := rects[i]
		vector.StrokeRect(screen, float32(rc.Min.X), float32(rc.Min.Y), float32(rc.Dx()), float32(rc.Dy()), 2, dividerColor, false)
	}

	if r.debug && r.coord != nil {
		ebitenutil.DebugPrintAt(screen, "stack: "+r.coord.State().String(), 8, bounds.Dy()-20)
	}
}

// followed lists the entities that get a view: every player while split,
// otherwise the composite.
func (r *RenderSystem) followed(w *ecs.World) []ecs.Entity {
	split := true
	if e, ok := w.First(component.ViewLayoutComponent.Kind()); ok {
		if layout, ok := ecs.Get(w, e, component.ViewLayoutComponent); ok {
			split = layout.Split
		}
	}
	if !split {
		if e, ok := w.First(component.CompositeTagComponent.Kind()); ok {
			return []ecs.Entity{e}
		}
	}

	players := w.Query(component.PlayerComponent.Kind(), component.CameraComponent.Kind())
	order := make([]ecs.Entity, len(players))
	copy(order, players)
	if r.coord != nil {
		// registration order, so views stay put when entities are rebuilt
		order = order[:0]
		for _, slot := range r.coord.Registry().Slots() {
			for _, e := range players {
				if p, ok := ecs.Get(w, e, component.PlayerComponent); ok && p.Index == slot.Index() {
					order = append(order, e)
				}
			}
		}
	}
	return order
}

func (r *RenderSystem) viewFor(w *ecs.World, e ecs.Entity, rect image.Rectangle) (view, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return view{}, false
	}
	cam, ok := ecs.Get(w, e, component.CameraComponent)
	if !ok {
		return view{}, false
	}
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 48
	}
	// smaller views zoom out so players keep the same context
	zoom *= float64(rect.Dy()) / 720
	return view{target: t.Position, yaw: cam.Yaw, pitch: cam.Pitch, zoom: zoom, rect: rect}, true
}

func (r *RenderSystem) drawWorld(w *ecs.World, dst *ebiten.Image, v view) {
	ecs.ForEach(w, component.TerrainComponent, func(_ ecs.Entity, t *component.Terrain) {
		for _, z := range terrainRails {
			for i := 1; i < len(t.Points); i++ {
				a := mgl64.Vec3{t.Points[i-1][0], t.Points[i-1][1], z}
				b := mgl64.Vec3{t.Points[i][0], t.Points[i][1], z}
				ax, ay, _ := v.project(a)
				bx, by, _ := v.project(b)
				vector.StrokeLine(dst, ax, ay, bx, by, 2, terrainColor, true)
			}
		}
	})

	ecs.ForEach2(w, component.VisualComponent, component.TransformComponent, func(_ ecs.Entity, vis *component.Visual, t *component.Transform) {
		if !vis.Active {
			return
		}
		x, y, _ := v.project(t.Position)
		width := float32(vis.Width * v.zoom)
		height := float32(vis.Height * v.zoom)
		vector.DrawFilledRect(dst, x-width/2, y-height, width, height, vis.Color, false)

		// facing marker
		heading := mgl64.DegToRad(t.Yaw)
		nose := t.Position.Add(mgl64.Vec3{math.Sin(heading), vis.Height / 2, math.Cos(heading)}.Mul(0.6))
		nx, ny, _ := v.project(nose)
		vector.StrokeLine(dst, x, y-height/2, nx, ny, 2, color.White, true)
	})
}

func (r *RenderSystem) drawHUD(w *ecs.World, dst *ebiten.Image, e ecs.Entity, rect image.Rectangle) {
	x, y := rect.Min.X+8, rect.Min.Y+8

	players := []ecs.Entity{e}
	if ecs.Has(w, e, component.CompositeTagComponent) && r.coord != nil {
		players = players[:0]
		if sess := r.coord.Session(); sess != nil {
			for _, slot := range []*stack.Slot{sess.Bottom, sess.Top} {
				if pe, ok := playerEntity(w, slot.Index()); ok {
					players = append(players, pe)
				}
			}
		}
	}

	for i, pe := range players {
		p, ok := ecs.Get(w, pe, component.PlayerComponent)
		if !ok {
			continue
		}
		hud, ok := ecs.Get(w, pe, component.HUDComponent)
		if !ok {
			continue
		}
		line := p.Name
		if hud.Toast != "" {
			line += ": " + hud.Toast
		}
		ebitenutil.DebugPrintAt(dst, line, x, y+i*16)
		if hud.Prompt != "" {
			ebitenutil.DebugPrintAt(dst, hud.Prompt, x, rect.Max.Y-24-i*16)
		}
	}
}

func playerEntity(w *ecs.World, index int) (ecs.Entity, bool) {
	for _, e := range w.Query(component.PlayerComponent.Kind()) {
		if p, ok := ecs.Get(w, e, component.PlayerComponent); ok && p.Index == index {
			return e, true
		}
	}
	return 0, false
}

// Viewports splits a screen for n views: one full view, two side by side,
// or a 2x2 grid.
func Viewports(n, width, height int) []image.Rectangle {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []image.Rectangle{image.Rect(0, 0, width, height)}
	case n == 2:
		half := width / 2
		return []image.Rectangle{
			image.Rect(0, 0, half, height),
			image.Rect(half, 0, width, height),
		}
	}
	hw, hh := width/2, height/2
	cells := []image.Rectangle{
		image.Rect(0, 0, hw, hh),
		image.Rect(hw, 0, width, hh),
		image.Rect(0, hh, hw, height),
		image.Rect(hw, hh, width, height),
	}
	if n > len(cells) {
		n = len(cells)
	}
	return cells[:n]
}
