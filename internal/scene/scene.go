// Package scene keeps shapes in the store instead of a private arena.
// Adding and removing go through dispatched actions, so every change shows
// up as a new state snapshot and on the action bus.
package scene

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/shape"
	"github.com/vovakirdan/tui-stage/internal/signal"
	"github.com/vovakirdan/tui-stage/internal/state"
	"github.com/vovakirdan/tui-stage/internal/tags"
	"github.com/vovakirdan/tui-stage/internal/world"
)

// ErrRemoved is returned when a node, or its shape, is already gone.
var ErrRemoved = errors.New("scene node already removed")

// Scene actions.
var (
	AddShape    = state.NewAction[*shape.Shape]("[scene node] add node")
	RemoveShape = state.NewAction[*shape.Shape]("[scene node] remove node")
)

// Register installs the scene reducers into reg.
func Register(reg *state.Registry) {
	state.ReduceHere(reg, state.ScenePath).
		On(state.When(AddShape, func(shapes *[]*shape.Shape, s *shape.Shape) error {
			*shapes = append(*shapes, s)
			return nil
		})).
		On(state.When(RemoveShape, func(shapes *[]*shape.Shape, s *shape.Shape) error {
			for i, candidate := range *shapes {
				if candidate == s {
					*shapes = append((*shapes)[:i], (*shapes)[i+1:]...)
					return nil
				}
			}
			return fmt.Errorf("scene: shape %d: %w", s.ID(), ErrRemoved)
		}))
}

// Scene coordinates the nodes backed by one store.
type Scene struct {
	store   *state.Store
	commit  signal.Subscription
	removed signal.Subject[int]
	clicks  signal.Subject[world.ClickEvent]
	tags    tags.Index[*Node]
	logger  *log.Logger
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger routes scene diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) { s.logger = l }
}

// New creates a scene on store, registering the scene reducers if the
// store does not have them yet.
func New(store *state.Store, opts ...Option) *Scene {
	sc := &Scene{store: store}
	for _, opt := range opts {
		opt(sc)
	}
	if sc.logger == nil {
		sc.logger = log.New(io.Discard)
	}
	if len(store.Reducers().Paths(AddShape.Type())) == 0 {
		Register(store.Reducers())
	}
	sc.commit = store.OnCommit(sc.rebase)
	return sc
}

// rebase shifts the surviving nodes down before anyone sees the shorter
// scene. It runs while State still holds the snapshot with s in it.
func (sc *Scene) rebase(a state.Action) {
	s, ok := RemoveShape.Match(a)
	if !ok {
		return
	}
	for i, candidate := range sc.store.State().Scene {
		if candidate == s {
			sc.removed.Emit(i)
			return
		}
	}
}

// Close detaches the scene from its store. Nodes keep their last index.
func (sc *Scene) Close() {
	sc.commit.Unsubscribe()
}

// Add dispatches s into the scene and returns its node.
func (sc *Scene) Add(s *shape.Shape, tagList ...string) (*Node, error) {
	if err := sc.store.Dispatch(AddShape.New(s)); err != nil {
		return nil, err
	}
	n := &Node{
		scene: sc,
		index: len(sc.store.State().Scene) - 1,
		tags:  append([]string(nil), tagList...),
	}
	n.removedSub = sc.removed.Subscribe(func(i int) {
		if i < n.index {
			n.index--
		}
	})
	for _, tag := range n.tags {
		sc.tags.Add(tag, n)
	}
	sc.logger.Debug("scene node added", "shape", s.ID(), "index", n.index)
	return n, nil
}

// Shapes returns the scene shapes from the current snapshot.
func (sc *Scene) Shapes() []*shape.Shape {
	return append([]*shape.Shape(nil), sc.store.State().Scene...)
}

// ShapeAt returns the topmost scene shape under at, or nil.
func (sc *Scene) ShapeAt(at core.Coord) *shape.Shape {
	return world.TopmostAt(sc.store.State().Scene, at)
}

// Route delivers a resolved click to the node whose shape it hit.
func (sc *Scene) Route(ev world.ClickEvent) {
	if ev.Shape == nil {
		return
	}
	sc.clicks.Emit(ev)
}

// Click resolves at against the scene and routes the hit, if any.
func (sc *Scene) Click(at core.Coord) bool {
	s := sc.ShapeAt(at)
	if s == nil {
		return false
	}
	sc.Route(world.ClickEvent{Shape: s, At: at})
	return true
}

// Collisions reports which scene shapes overlap s.
func (sc *Scene) Collisions(s *shape.Shape) []world.Collision {
	return world.Detect(s, sc.store.State().Scene)
}

// ObjectsByTag returns the live nodes carrying tag, oldest first.
func (sc *Scene) ObjectsByTag(tag string) []*Node {
	return sc.tags.All(tag)
}

// ObjectByTag returns the oldest live node carrying tag, or nil.
func (sc *Scene) ObjectByTag(tag string) *Node {
	n, _ := sc.tags.First(tag)
	return n
}

// Node is one shape in the scene.
type Node struct {
	scene      *Scene
	index      int
	tags       []string
	removed    bool
	removedSub signal.Subscription
	scope      signal.Group
	onRemove   signal.Once[*shape.Shape]
}

// Get returns the node's shape from the current snapshot.
// It panics on a removed node.
func (n *Node) Get() *shape.Shape {
	if n.removed {
		panic(fmt.Sprintf("scene: Get on removed node (index %d)", n.index))
	}
	return n.scene.store.State().Scene[n.index]
}

// Index returns the node's position in the scene.
func (n *Node) Index() int { return n.index }

// Removed reports whether Remove has succeeded.
func (n *Node) Removed() bool { return n.removed }

// Remove dispatches the node's shape out of the scene.
func (n *Node) Remove() error {
	if n.removed {
		return ErrRemoved
	}
	sc := n.scene
	s := n.Get()
	if err := sc.store.Dispatch(RemoveShape.New(s)); err != nil {
		return err
	}

	n.removedSub.Unsubscribe()
	n.removed = true
	n.onRemove.Fire(s)
	n.scope.Unsubscribe()
	for _, tag := range n.tags {
		sc.tags.Remove(tag, n)
	}
	sc.logger.Debug("scene node removed", "shape", s.ID(), "index", n.index)
	return nil
}

// OnRemove subscribes fn to the removal.
func (n *Node) OnRemove(fn func(*shape.Shape)) signal.Subscription {
	return n.onRemove.Subscribe(fn)
}

// OnClick calls fn each time a routed click hits the node, until removal.
func (n *Node) OnClick(fn func(*shape.Shape)) signal.Subscription {
	sub := n.scene.clicks.Subscribe(func(ev world.ClickEvent) {
		if n.removed {
			return
		}
		if s := n.Get(); s.ID() == ev.Shape.ID() {
			fn(s)
		}
	})
	n.scope.Add(sub)
	return sub
}

// Collisions reports which other scene shapes overlap this node.
func (n *Node) Collisions() []world.Collision {
	return n.scene.Collisions(n.Get())
}
