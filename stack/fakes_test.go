package stack

import (
	"errors"
	"io"
	"log"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeBody struct {
	alive bool
	pos   mgl64.Vec3
	yaw   float64

	ground      GroundHit
	probeOrigin mgl64.Vec3
	probeRadius float64
	moves       []mgl64.Vec3

	camPitch, camYaw float64
}

func newFakeBody(p mgl64.Vec3) *fakeBody {
	return &fakeBody{alive: true, pos: p}
}

func (b *fakeBody) Alive() bool { return b.alive }
func (b *fakeBody) Position() mgl64.Vec3 { return b.pos }
func (b *fakeBody) SetPosition(p mgl64.Vec3) { b.pos = p }
func (b *fakeBody) Yaw() float64 { return b.yaw }
func (b *fakeBody) SetYaw(deg float64) { b.yaw = deg }

func (b *fakeBody) Move(delta mgl64.Vec3) {
	b.moves = append(b.moves, delta)
	b.pos = b.pos.Add(delta)
}

func (b *fakeBody) Probe(origin mgl64.Vec3, radius float64) GroundHit {
	b.probeOrigin = origin
	b.probeRadius = radius
	return b.ground
}

func (b *fakeBody) SetCameraRotation(pitch, yaw float64) {
	b.camPitch = pitch
	b.camYaw = yaw
}

type fakeSwitch struct {
	on    bool
	calls int
}

func (s *fakeSwitch) SetEnabled(on bool) {
	s.on = on
	s.calls++
}

type fakeInput struct {
	sample  InputSample
	pointer bool
}

func (f *fakeInput) Sample() InputSample { return f.sample }
func (f *fakeInput) PointerDevice() bool { return f.pointer }

type fakeHost struct {
	spawnErr  error
	spawned   []*fakeBody
	destroyed []CompositeBody
	split     []bool

	// called back from inside the host calls, like engine callbacks would
	onDestroy func()
	onSplit   func(enabled bool)
}

func (h *fakeHost) SpawnComposite(p mgl64.Vec3) (CompositeBody, error) {
	if h.spawnErr != nil {
		return nil, h.spawnErr
	}
	b := newFakeBody(p)
	h.spawned = append(h.spawned, b)
	return b, nil
}

func (h *fakeHost) DestroyComposite(body CompositeBody) {
	h.destroyed = append(h.destroyed, body)
	if b, ok := body.(*fakeBody); ok {
		b.alive = false
	}
	if h.onDestroy != nil {
		h.onDestroy()
	}
}

func (h *fakeHost) SetSplitScreen(enabled bool) {
	h.split = append(h.split, enabled)
	if h.onSplit != nil {
		h.onSplit(enabled)
	}
}

func (h *fakeHost) lastSplit() (bool, bool) {
	if len(h.split) == 0 {
		return false, false
	}
	return h.split[len(h.split)-1], true
}

// player bundles one registered slot with its fakes.
type player struct {
	slot       *Slot
	body       *fakeBody
	input      *fakeInput
	visuals    *fakeSwitch
	controller *fakeSwitch
	collider   *fakeSwitch
}

func (p *player) switchCalls() int {
	return p.visuals.calls + p.controller.calls + p.collider.calls
}

func (p *player) switchesOn() bool {
	return p.visuals.on && p.controller.on && p.collider.on
}

type fixture struct {
	host    *fakeHost
	reg     *Registry
	coord   *Coordinator
	players []*player
}

var errSpawn = errors.New("out of entities")

func newFixture(positions ...mgl64.Vec3) *fixture {
	f := &fixture{host: &fakeHost{}, reg: NewRegistry()}
	for i, p := range positions {
		pl := &player{
			body:       newFakeBody(p),
			input:      &fakeInput{},
			visuals:    &fakeSwitch{on: true},
			controller: &fakeSwitch{on: true},
			collider:   &fakeSwitch{on: true},
		}
		slot, err := f.reg.Register(i, pl.body, Capabilities{
			Input:      pl.input,
			Visuals:    pl.visuals,
			Controller: pl.controller,
			Collider:   pl.collider,
		})
		if err != nil {
			panic(err)
		}
		pl.slot = slot
		f.players = append(f.players, pl)
	}
	f.coord = NewCoordinator(f.reg, f.host, WithLogger(log.New(io.Discard, "", 0)))
	return f
}

func (f *fixture) press(indices ...int) {
	for _, p := range f.players {
		p.input.sample.StackToggle = false
	}
	for _, i := range indices {
		f.players[i].input.sample.StackToggle = true
	}
}

func (f *fixture) checkPairing() bool {
	return (f.coord.Session() != nil) == (f.coord.State() == StateStacked)
}

func vecNear(a, b mgl64.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-9)
}
