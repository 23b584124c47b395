// Package sandbox is the live demo stage: a sky and a ground kept in the
// store-backed scene, a target circle and a player square in the world
// arena, and a node graph rooted at start.
package sandbox

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/clock"
	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/controls"
	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/nodes"
	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/render"
	"github.com/vovakirdan/tui-stage/internal/scene"
	"github.com/vovakirdan/tui-stage/internal/shape"
	"github.com/vovakirdan/tui-stage/internal/signal"
	"github.com/vovakirdan/tui-stage/internal/state"
	"github.com/vovakirdan/tui-stage/internal/world"
)

// Tags the sandbox looks up.
const (
	TagPlayer = "player"
	TagTarget = "target"
	TagGround = "ground"
)

// ErrNoPlayer is returned when no world object is tagged player.
var ErrNoPlayer = errors.New("sandbox: no player object")

// ErrNoSpawned is returned by Despawn when nothing is left to remove.
var ErrNoSpawned = errors.New("sandbox: no spawned nodes")

// Sandbox owns one independent stage. It is driven from a single
// goroutine: the host calls Tick, the key and mouse methods, and Render.
type Sandbox struct {
	cfg    config.StageConfig
	width  int
	height int

	clock    *clock.Clock
	controls *controls.Controls
	store    *state.Store
	world    *world.World
	scene    *scene.Scene
	defs     *registry.Registry
	graph    *nodes.Graph
	root     state.NodeID
	spawned  []state.NodeID

	player  *world.Handle
	target  *world.Handle
	palette []core.Color
	rng     *rand.Rand

	clicks signal.Subject[world.ClickEvent]
	screen *core.Screen
	subs   signal.Group
	bus    *state.Bus
	logger *log.Logger
}

// Option configures a Sandbox.
type Option func(*Sandbox)

// WithLogger routes stage diagnostics to l. Components get prefixed
// children of it.
func WithLogger(l *log.Logger) Option {
	return func(s *Sandbox) { s.logger = l }
}

// WithBus makes the store publish on b, so subscribers attached before New
// see the actions that build the stage.
func WithBus(b *state.Bus) Option {
	return func(s *Sandbox) { s.bus = b }
}

// New builds the stage described by cfg on an rt.ScreenW x rt.ScreenH screen.
func New(cfg config.StageConfig, rt core.RuntimeConfig, opts ...Option) (*Sandbox, error) {
	s := &Sandbox{
		cfg:    cfg,
		width:  rt.ScreenW,
		height: rt.ScreenH,
		rng:    rand.New(rand.NewSource(rt.Seed)),
		screen: core.NewScreen(rt.ScreenW, rt.ScreenH),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	for _, name := range cfg.Player.Palette {
		s.palette = append(s.palette, config.Color(name))
	}

	reducers := state.NewRegistry()
	state.RegisterPhysics(reducers)
	storeOpts := []state.Option{
		state.WithReducers(reducers),
		state.WithLogger(s.logger.WithPrefix("store")),
	}
	if s.bus != nil {
		storeOpts = append(storeOpts, state.WithBus(s.bus))
	}
	s.store = state.NewStore(state.InitialState(), storeOpts...)
	s.clock = clock.New()
	s.controls = controls.New(cfg.HoldFrames)
	s.world = world.New(s.clock, world.WithLogger(s.logger.WithPrefix("world")))
	s.scene = scene.New(s.store, scene.WithLogger(s.logger.WithPrefix("scene")))

	s.defs = registry.New()
	nodes.RegisterBuiltins(s.defs, s.store, s.world)
	s.graph = nodes.New(s.store, s.defs, nodes.WithLogger(s.logger.WithPrefix("graph")))

	if err := s.store.Dispatch(state.ConfigurePhysics.New(state.Physics{
		Gravity:    cfg.Physics.Gravity,
		Drag:       cfg.Physics.Drag,
		GroundDrag: cfg.Physics.GroundDrag,
	})); err != nil {
		return nil, err
	}

	if err := s.populate(); err != nil {
		return nil, err
	}

	root, err := s.graph.Add(0, nodes.CodeRoot)
	if err != nil {
		return nil, fmt.Errorf("sandbox: mount root: %w", err)
	}
	s.root = root

	s.player.OnClick(func(*shape.Shape) { s.recolorPlayer() })
	if s.target != nil {
		s.subs.Add(world.Colliding(s.player, s.target, s.recolorTarget))
	}
	s.subs.Add(s.clock.OnFrame(s.step))

	s.logger.Info("stage ready", "width", s.width, "height", s.height,
		"objects", s.world.Len(), "scene", len(s.scene.Shapes()))
	return s, nil
}

func (s *Sandbox) populate() error {
	for _, o := range s.cfg.Objects {
		sh := Build(o, s.width, s.height)
		switch o.Owner {
		case config.OwnerScene:
			if _, err := s.scene.Add(sh, o.Tags...); err != nil {
				return fmt.Errorf("sandbox: object %q: %w", o.Name, err)
			}
		default:
			s.world.AddObject(sh, o.Tags...)
		}
	}
	s.player = s.world.ObjectByTag(TagPlayer)
	if s.player == nil {
		return ErrNoPlayer
	}
	s.target = s.world.ObjectByTag(TagTarget)
	return nil
}

// step runs once per visible frame.
func (s *Sandbox) step(uint64) {
	speed := s.cfg.Player.Speed
	var dx, dy float64
	if s.controls.Held(core.KeyLeft) {
		dx -= speed
	}
	if s.controls.Held(core.KeyRight) {
		dx += speed
	}
	if s.controls.Held(core.KeyUp) {
		dy -= speed
	}
	if s.controls.Held(core.KeyDown) {
		dy += speed
	}
	if dx != 0 {
		s.tryMove(dx, 0)
	}
	if dy != 0 {
		s.tryMove(0, dy)
	}
	s.controls.Frame()
}

// tryMove moves the player, stopping it flush at the screen edge. A move
// that would sink it into the ground is undone.
func (s *Sandbox) tryMove(dx, dy float64) {
	p := s.player.Get()
	before := p.Position()
	p.Move(dx, dy)
	b := p.Bounds()
	p.Move(
		core.ClampF(b.X, 0, float64(s.width)-b.W)-b.X,
		core.ClampF(b.Y, 0, float64(s.height)-b.H)-b.Y,
	)
	if s.grounded(p) {
		p.At(before.X, before.Y)
	}
}

func (s *Sandbox) grounded(p *shape.Shape) bool {
	ground := make(map[shape.ID]bool)
	for _, n := range s.scene.ObjectsByTag(TagGround) {
		if !n.Removed() {
			ground[n.Get().ID()] = true
		}
	}
	for _, c := range s.scene.Collisions(p) {
		if ground[c.Target.ID()] {
			return true
		}
	}
	return false
}

func (s *Sandbox) recolorPlayer() {
	if len(s.palette) == 0 {
		return
	}
	c := s.palette[s.rng.Intn(len(s.palette))]
	s.player.Get().Fill(c)
	s.logger.Debug("player recolored", "color", c)
}

func (s *Sandbox) recolorTarget(c world.Collision) {
	name := s.cfg.Collision.Other
	switch {
	case c.Horizontal == world.Left && c.Vertical == world.Top:
		name = s.cfg.Collision.LeftTop
	case c.Horizontal == world.Left && c.Vertical == world.Bottom:
		name = s.cfg.Collision.LeftBottom
	case c.Horizontal == world.Right && c.Vertical == world.Bottom:
		name = s.cfg.Collision.RightBottom
	}
	c.Target.Fill(config.Color(name))
}

// Tick advances the clock one frame. It reports whether the frame was
// emitted, which it is not while the stage is hidden.
func (s *Sandbox) Tick() bool {
	return s.clock.Tick()
}

// SetVisible pauses or resumes frame emission.
func (s *Sandbox) SetVisible(visible bool) {
	s.clock.SetVisible(visible)
}

// Press marks k held. Space recolors the player once per press.
func (s *Sandbox) Press(k core.Key) {
	s.controls.Press(k)
	if k == core.KeySpace {
		s.recolorPlayer()
	}
}

// Release drops k from the held set.
func (s *Sandbox) Release(k core.Key) {
	s.controls.Release(k)
}

// MouseDown records the press and clicks at.
// It reports whether a shape was hit.
func (s *Sandbox) MouseDown(at core.Coord) bool {
	s.controls.MouseDown(at)
	return s.Click(at)
}

// MouseUp records the release.
func (s *Sandbox) MouseUp(at core.Coord) {
	s.controls.MouseUp(at)
}

// MouseMove records the pointer position.
func (s *Sandbox) MouseMove(at core.Coord) {
	s.controls.MouseMove(at)
}

// Click resolves at against both the world and the scene and routes the
// topmost hit to both.
func (s *Sandbox) Click(at core.Coord) bool {
	hit := world.TopmostAt(s.Shapes(), at)
	if hit == nil {
		return false
	}
	ev := world.ClickEvent{Shape: hit, At: at}
	s.world.Route(ev)
	s.scene.Route(ev)
	s.clicks.Emit(ev)
	return true
}

// OnClick subscribes to every resolved click, whichever object it hit.
func (s *Sandbox) OnClick(fn func(world.ClickEvent)) signal.Subscription {
	return s.clicks.Subscribe(fn)
}

// Shapes returns the scene shapes followed by the world shapes.
func (s *Sandbox) Shapes() []*shape.Shape {
	return slices.Concat(s.scene.Shapes(), s.world.Shapes())
}

// Spawn mounts a shape node under the root node.
func (s *Sandbox) Spawn() (state.NodeID, error) {
	id, err := s.graph.Add(s.root, nodes.CodeShape)
	if err != nil {
		return 0, err
	}
	s.spawned = append(s.spawned, id)
	return id, nil
}

// Despawn removes the most recently spawned node.
func (s *Sandbox) Despawn() error {
	if len(s.spawned) == 0 {
		return ErrNoSpawned
	}
	id := s.spawned[len(s.spawned)-1]
	if err := s.graph.Remove(id); err != nil {
		return err
	}
	s.spawned = s.spawned[:len(s.spawned)-1]
	return nil
}

// Render draws the stage into its screen buffer and returns it.
func (s *Sandbox) Render() *core.Screen {
	s.screen.Clear()
	render.Draw(s.screen, s.Shapes())
	return s.screen
}

// Resize changes the screen buffer. Objects keep the layout they were
// built with.
func (s *Sandbox) Resize(width, height int) {
	s.screen.Resize(width, height)
}

// Status is a snapshot for the host's status bar.
type Status struct {
	Frame       uint64
	Visible     bool
	Player      core.Coord
	PlayerColor core.Color
	Objects     int
	SceneNodes  int
	GraphNodes  int
	Physics     state.Physics
	Held        []core.Key
}

// Status reports the current stage status.
func (s *Sandbox) Status() Status {
	p := s.player.Get()
	st := s.store.State()
	return Status{
		Frame:       s.clock.Frame(),
		Visible:     s.clock.Visible(),
		Player:      p.Position(),
		PlayerColor: p.FillColor(),
		Objects:     s.world.Len(),
		SceneNodes:  len(st.Scene),
		GraphNodes:  len(st.Nodes),
		Physics:     st.Physics,
		Held:        s.controls.HeldKeys(),
	}
}

// Store returns the stage's store, for journaling and metrics.
func (s *Sandbox) Store() *state.Store { return s.store }

// Controls returns the held-key and mouse state.
func (s *Sandbox) Controls() *controls.Controls { return s.controls }

// Clock returns the stage's frame clock.
func (s *Sandbox) Clock() *clock.Clock { return s.clock }

// World returns the live object arena.
func (s *Sandbox) World() *world.World { return s.world }

// Scene returns the store-backed scene.
func (s *Sandbox) Scene() *scene.Scene { return s.scene }

// Graph returns the node graph.
func (s *Sandbox) Graph() *nodes.Graph { return s.graph }

// Definitions returns the node definitions the graph builds from.
func (s *Sandbox) Definitions() *registry.Registry { return s.defs }

// Root returns the id of the root node.
func (s *Sandbox) Root() state.NodeID { return s.root }

// Player returns the player's handle.
func (s *Sandbox) Player() *world.Handle { return s.player }

// Target returns the target's handle, or nil when the stage has none.
func (s *Sandbox) Target() *world.Handle { return s.target }

// Close stops the stage's subscriptions.
func (s *Sandbox) Close() {
	s.subs.Unsubscribe()
	s.clicks.Close()
	s.graph.Close()
	s.scene.Close()
}
