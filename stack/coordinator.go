// Package stack implements two-player stacking: merging two independently
// controlled characters into one composite driven by both players, and
// splitting them apart again.
package stack

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Host is the engine surface the coordinator needs to create and remove the
// composite entity.
type Host interface {
	SpawnComposite(position mgl64.Vec3) (CompositeBody, error)
	DestroyComposite(body CompositeBody)
	// SetSplitScreen switches between one view per player and a single
	// shared view of the stack.
	SetSplitScreen(enabled bool)
}

// State is the coordinator's state.
type State int

const (
	StateIdle State = iota
	StateStacked
	// StateUnstacking guards teardown against re-entrant Unstack calls.
	StateUnstacking
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStacked:
		return "stacked"
	case StateUnstacking:
		return "unstacking"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the active stack.
type Session struct {
	Bottom     *Slot
	Top        *Slot
	Body       CompositeBody
	Controller *Composite

	lastPosition mgl64.Vec3
}

func (s *Session) includes(slot *Slot) bool {
	return s != nil && (s.Bottom == slot || s.Top == slot)
}

// ToggleAction is what a stack toggle resolved to.
type ToggleAction int

const (
	ToggleNone ToggleAction = iota
	ToggleStack
	ToggleUnstack
)

// ToggleResult reports one processed stack toggle.
type ToggleResult struct {
	Index   int
	Action  ToggleAction
	Partner int
	Err     error
}

type Option func(*Coordinator)

func WithConfig(cfg Config) Option {
	return func(c *Coordinator) { c.config = cfg.WithDefaults() }
}

func WithTuning(t Tuning) Option {
	return func(c *Coordinator) { c.tuning = t.WithDefaults() }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithDebug(debug bool) Option {
	return func(c *Coordinator) { c.debug = debug }
}

// Coordinator is the stacking state machine. There is at most one stack at
// a time. It is not safe for concurrent use; every call runs to completion
// on the simulation goroutine.
type Coordinator struct {
	registry *Registry
	host     Host
	config   Config
	tuning   Tuning
	logger   *log.Logger
	tracer   trace.Tracer
	debug    bool

	state   State
	session *Session
}

func NewCoordinator(registry *Registry, host Host, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry: registry,
		host:     host,
		config:   DefaultConfig(),
		tuning:   DefaultTuning(),
		logger:   log.Default(),
		tracer:   noop.NewTracerProvider().Tracer("stack"),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) State() State { return c.state }
func (c *Coordinator) IsStacked() bool { return c.state == StateStacked }
func (c *Coordinator) Session() *Session { return c.session }
func (c *Coordinator) Registry() *Registry { return c.registry }
func (c *Coordinator) Config() Config { return c.config }
func (c *Coordinator) Tuning() Tuning { return c.tuning }

func (c *Coordinator) SetConfig(cfg Config) {
	c.config = cfg.WithDefaults()
}

// SetTuning applies new tuning, including to an active composite.
func (c *Coordinator) SetTuning(t Tuning) {
	c.tuning = t.WithDefaults()
	if c.session != nil && c.session.Controller != nil {
		c.session.Controller.SetTuning(c.tuning)
	}
}

// AttemptStack merges requester (bottom) and other (top) into a composite.
// On any error the coordinator is left exactly as it was.
func (c *Coordinator) AttemptStack(requester, other int) (err error) {
	_, span := c.tracer.Start(context.Background(), "stack.attempt", trace.WithAttributes(
		attribute.Int("stack.requester", requester),
		attribute.Int("stack.other", other),
	))
	defer func() { endSpan(span, err) }()

	if c.state != StateIdle {
		c.logger.Printf("stack: player %d cannot stack with %d: state is %s", requester, other, c.state)
		return fmt.Errorf("stack: attempt %d with %d: %w", requester, other, ErrAlreadyStacked)
	}
	if requester == other {
		return fmt.Errorf("stack: attempt %d with %d: %w", requester, other, ErrSamePlayer)
	}

	bottom, err := c.resolve(requester)
	if err != nil {
		c.logger.Printf("stack: could not find both players for stacking: %v", err)
		return err
	}
	top, err := c.resolve(other)
	if err != nil {
		c.logger.Printf("stack: could not find both players for stacking: %v", err)
		return err
	}

	distance := bottom.body.Position().Sub(top.body.Position()).Len()
	span.SetAttributes(attribute.Float64("stack.distance", distance))
	if distance > c.config.ProximityThreshold {
		if c.debug {
			c.logger.Printf("stack: players %d and %d are too far apart (%.2f > %.2f)", requester, other, distance, c.config.ProximityThreshold)
		}
		return fmt.Errorf("stack: attempt %d with %d: distance %.2f: %w", requester, other, distance, ErrTooFar)
	}

	return c.performStack(bottom, top)
}

func (c *Coordinator) resolve(index int) (*Slot, error) {
	s, ok := c.registry.Lookup(index)
	if !ok {
		return nil, fmt.Errorf("stack: player %d: %w", index, ErrUnknownPlayer)
	}
	if !s.alive() {
		return nil, fmt.Errorf("stack: player %d entity is gone: %w", index, ErrUnknownPlayer)
	}
	return s, nil
}

func (c *Coordinator) performStack(bottom, top *Slot) error {
	position := bottom.body.Position().Add(mgl64.Vec3{0, c.config.StackHeightOffset, 0})

	bottom.setVisuals(false)
	top.setVisuals(false)
	bottom.setControl(false)
	top.setControl(false)
	c.host.SetSplitScreen(false)

	body, err := c.host.SpawnComposite(position)
	if err != nil || body == nil {
		bottom.setVisuals(true)
		top.setVisuals(true)
		bottom.setControl(true)
		top.setControl(true)
		c.host.SetSplitScreen(true)
		if err == nil {
			err = errors.New("host returned no body")
		}
		c.logger.Printf("stack: spawn composite for %d/%d: %v", bottom.index, top.index, err)
		return fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}

	bottom.role = RoleBottom
	top.role = RoleTop
	bottom.controllerEnabled = false
	top.controllerEnabled = false

	c.session = &Session{
		Bottom:       bottom,
		Top:          top,
		Body:         body,
		Controller:   NewComposite(body, bottom, top, c.tuning),
		lastPosition: position,
	}
	c.state = StateStacked
	c.logger.Printf("stack: formed, bottom=%d top=%d", bottom.index, top.index)
	return nil
}

// Unstack splits the active stack. Calling it with no active stack, or from
// inside a teardown, is a no-op that returns ErrInvalidSession.
func (c *Coordinator) Unstack() (err error) {
	if c.state != StateStacked {
		if c.debug {
			c.logger.Printf("stack: unstack ignored in state %s", c.state)
		}
		return ErrInvalidSession
	}
	c.state = StateUnstacking

	sess := c.session
	_, span := c.tracer.Start(context.Background(), "stack.unstack", trace.WithAttributes(
		attribute.Int("stack.bottom", sess.Bottom.index),
		attribute.Int("stack.top", sess.Top.index),
	))
	defer func() { endSpan(span, err) }()

	bodyAlive := sess.Body != nil && sess.Body.Alive()
	base := sess.lastPosition
	if bodyAlive {
		base = sess.Body.Position()
	}
	offset := mgl64.Vec3{c.config.Separation, 0, 0}

	release(sess.Bottom, base.Sub(offset))
	release(sess.Top, base.Add(offset))
	c.host.SetSplitScreen(true)

	if bodyAlive {
		c.host.DestroyComposite(sess.Body)
	} else {
		c.logger.Printf("stack: composite already destroyed, players restored at last known position")
	}

	c.session = nil
	c.state = StateIdle
	c.logger.Printf("stack: unstacked, bottom=%d top=%d", sess.Bottom.index, sess.Top.index)
	return nil
}

func release(s *Slot, position mgl64.Vec3) {
	s.role = RoleUnassigned
	s.controllerEnabled = true
	if !s.alive() {
		return
	}
	s.setVisuals(true)
	s.setControl(true)
	s.body.SetPosition(position)
}

// HandleToggles resolves this frame's stack toggles in registration order.
// The button is an overloaded toggle: merged players unstack, idle players
// stack with the first other active player. Only the first toggle that
// changes state is honoured each frame.
func (c *Coordinator) HandleToggles() []ToggleResult {
	var results []ToggleResult
	transitioned := false
	for _, s := range c.registry.Slots() {
		in, _ := s.sample()
		if !in.StackToggle {
			continue
		}
		if transitioned {
			results = append(results, ToggleResult{Index: s.index, Err: ErrToggleDeferred})
			continue
		}
		res := c.toggle(s)
		if res.Err == nil && res.Action != ToggleNone {
			transitioned = true
		}
		results = append(results, res)
	}
	return results
}

func (c *Coordinator) toggle(s *Slot) ToggleResult {
	res := ToggleResult{Index: s.index}
	switch c.state {
	case StateStacked:
		if !c.session.includes(s) {
			res.Err = fmt.Errorf("stack: toggle from player %d: %w", s.index, ErrAlreadyStacked)
			return res
		}
		res.Action = ToggleUnstack
		res.Err = c.Unstack()
	case StateIdle:
		partner := c.partnerFor(s)
		if partner == nil {
			res.Err = fmt.Errorf("stack: toggle from player %d: %w", s.index, ErrNoPartner)
			return res
		}
		res.Action = ToggleStack
		res.Partner = partner.index
		res.Err = c.AttemptStack(s.index, partner.index)
	default:
		res.Err = fmt.Errorf("stack: toggle from player %d during %s: %w", s.index, c.state, ErrAlreadyStacked)
	}
	return res
}

// PartnerFor is the slot a stack toggle from index would pair with, or
// false when there is none. Distance is not considered.
func (c *Coordinator) PartnerFor(index int) (*Slot, bool) {
	s, ok := c.registry.Lookup(index)
	if !ok {
		return nil, false
	}
	partner := c.partnerFor(s)
	return partner, partner != nil
}

// partnerFor is the first other active slot in registration order, not the
// spatially nearest one.
func (c *Coordinator) partnerFor(s *Slot) *Slot {
	for _, other := range c.registry.Slots() {
		if other != s && other.Active() {
			return other
		}
	}
	return nil
}

// FixedUpdate runs the composite's locomotion tick.
func (c *Coordinator) FixedUpdate(dt float64) {
	if c.state != StateStacked || c.session == nil {
		return
	}
	c.session.Controller.Tick(dt)
	if c.session.Body.Alive() {
		c.session.lastPosition = c.session.Body.Position()
	}
}

// LateUpdate runs the composite's camera tick.
func (c *Coordinator) LateUpdate(dt float64) {
	if c.state != StateStacked || c.session == nil {
		return
	}
	c.session.Controller.LateTick(dt)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
