package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/stackers/ecs"
	"github.com/milk9111/stackers/ecs/component"
	"github.com/milk9111/stackers/stack"
)

const (
	collisionTypeCharacter cp.CollisionType = iota + 1
	collisionTypeTerrain
)

const (
	categoryTerrain uint = 1 << iota
	categoryCharacter
)

// stepUp is how far above its feet a character looks for ground when
// snapping down, so it can walk up gentle slopes.
const stepUp = 0.5

// PhysicsSystem keeps a chipmunk space in sync with the level terrain and
// the character colliders, and answers the ground queries the motors need.
// The side profile lives in the x/y plane; z is free.
type PhysicsSystem struct {
	space *cp.Space
	dt    float64

	terrain    map[ecs.Entity][]*cp.Shape
	characters map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	radius float64
	inside bool
}

func NewPhysicsSystem(dt float64) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 10
	// motors integrate gravity themselves
	space.SetGravity(cp.Vector{})
	return &PhysicsSystem{
		space:      space,
		dt:         dt,
		terrain:    make(map[ecs.Entity][]*cp.Shape),
		characters: make(map[ecs.Entity]*bodyInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.syncTerrain(w)
	ps.syncCharacters(w)
	ps.space.Step(ps.dt)
}

func (ps *PhysicsSystem) syncTerrain(w *ecs.World) {
	ecs.ForEach(w, component.TerrainComponent, func(e ecs.Entity, t *component.Terrain) {
		if _, ok := ps.terrain[e]; ok {
			return
		}
		thickness := t.Thickness
		if thickness <= 0 {
			thickness = 0.05
		}
		shapes := make([]*cp.Shape, 0, len(t.Points))
		for i := 1; i < len(t.Points); i++ {
			a := cp.Vector{X: t.Points[i-1][0], Y: t.Points[i-1][1]}
			b := cp.Vector{X: t.Points[i][0], Y: t.Points[i][1]}
			shape := cp.NewSegment(ps.space.StaticBody, a, b, thickness)
			shape.SetFriction(t.Friction)
			shape.SetCollisionType(collisionTypeTerrain)
			shape.SetFilter(cp.NewShapeFilter(0, categoryTerrain, categoryCharacter))
			ps.space.AddShape(shape)
			shapes = append(shapes, shape)
		}
		ps.terrain[e] = shapes
	})
}

func (ps *PhysicsSystem) syncCharacters(w *ecs.World) {
	seen := make(map[ecs.Entity]struct{})
	ecs.ForEach2(w, component.ColliderComponent, component.TransformComponent, func(e ecs.Entity, c *component.Collider, t *component.Transform) {
		seen[e] = struct{}{}
		info := ps.ensureCharacter(e, c)
		ps.setInside(info, c.Enabled)
		info.body.SetPosition(cp.Vector{X: t.Position.X(), Y: t.Position.Y() + info.radius})
		if info.inside {
			ps.space.ReindexShapesForBody(info.body)
		}
	})

	for e := range ps.characters {
		if _, ok := seen[e]; !ok {
			ps.Release(e)
		}
	}
}

func (ps *PhysicsSystem) ensureCharacter(e ecs.Entity, c *component.Collider) *bodyInfo {
	if info, ok := ps.characters[e]; ok {
		return info
	}
	body := cp.NewKinematicBody()
	shape := cp.NewCircle(body, c.Radius, cp.Vector{})
	shape.SetCollisionType(collisionTypeCharacter)
	// one group per entity so queries can skip the caller's own shape
	shape.SetFilter(cp.NewShapeFilter(uint(e), categoryCharacter, categoryTerrain|categoryCharacter))
	c.Body = body
	c.Shape = shape

	info := &bodyInfo{body: body, shape: shape, radius: c.Radius}
	ps.characters[e] = info
	return info
}

func (ps *PhysicsSystem) setInside(info *bodyInfo, on bool) {
	if info.inside == on {
		return
	}
	if on {
		ps.space.AddBody(info.body)
		ps.space.AddShape(info.shape)
	} else {
		ps.space.RemoveShape(info.shape)
		ps.space.RemoveBody(info.body)
	}
	info.inside = on
}

// Release removes e's collider from the space.
func (ps *PhysicsSystem) Release(e ecs.Entity) {
	info, ok := ps.characters[e]
	if !ok {
		return
	}
	ps.setInside(info, false)
	delete(ps.characters, e)
}

// Move displaces e and snaps its feet onto the terrain when it would end
// up inside or just above the ground while falling.
func (ps *PhysicsSystem) Move(w *ecs.World, e ecs.Entity, delta mgl64.Vec3) {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return
	}
	from := t.Position
	to := from.Add(delta)

	if delta.Y() <= 0 {
		top := cp.Vector{X: to.X(), Y: math.Max(from.Y(), to.Y()) + stepUp}
		bottom := cp.Vector{X: to.X(), Y: to.Y()}
		hit := ps.space.SegmentQueryFirst(top, bottom, 0, ps.queryFilter(e))
		if hit.Shape != nil {
			to[1] = hit.Point.Y
		}
	}
	t.Position = to

	if info, ok := ps.characters[e]; ok {
		info.body.SetPosition(cp.Vector{X: to.X(), Y: to.Y() + info.radius})
		if info.inside {
			ps.space.ReindexShapesForBody(info.body)
		}
	}
}

// Probe reports the nearest terrain within radius of origin and the
// surface normal there.
func (ps *PhysicsSystem) Probe(_ *ecs.World, e ecs.Entity, origin mgl64.Vec3, radius float64) stack.GroundHit {
	info := ps.space.PointQueryNearest(cp.Vector{X: origin.X(), Y: origin.Y()}, radius, ps.queryFilter(e))
	if info == nil || info.Shape == nil {
		return stack.GroundHit{}
	}
	normal := mgl64.Vec3{info.Gradient.X, info.Gradient.Y, 0}
	if normal.Len() == 0 || normal.Y() < 0 {
		normal = mgl64.Vec3{0, 1, 0}
	}
	return stack.GroundHit{Hit: true, Normal: normal.Normalize()}
}

func (ps *PhysicsSystem) queryFilter(e ecs.Entity) cp.ShapeFilter {
	return cp.NewShapeFilter(uint(e), categoryCharacter, categoryTerrain)
}
