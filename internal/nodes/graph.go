// Package nodes is the graph node subsystem: a tree of nodes recorded in
// the store, each backed by an instance built from a registry definition
// with its dependencies resolved from its own providers and its ancestors'.
package nodes

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/signal"
	"github.com/vovakirdan/tui-stage/internal/state"
)

// Destroyer is implemented by node values that need to release resources
// when their node is removed.
type Destroyer interface {
	OnDestroy()
}

// Graph instantiates nodes as AddNode actions go through the store and
// destroys them on RemoveNode. Instantiation is driven by the action bus,
// so nodes dispatched directly on the store are built too.
type Graph struct {
	store     *state.Store
	defs      *registry.Registry
	instances map[state.NodeID]*Instance
	failures  map[state.NodeID]error
	subs      signal.Group
	logger    *log.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger routes graph diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// New attaches a graph to store, building nodes from defs.
func New(store *state.Store, defs *registry.Registry, opts ...Option) *Graph {
	g := &Graph{
		store:     store,
		defs:      defs,
		instances: make(map[state.NodeID]*Instance),
		failures:  make(map[state.NodeID]error),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	if len(store.Reducers().Paths(AddNode.Type())) == 0 {
		Register(store.Reducers())
	}
	g.subs.Add(
		state.OfType(store.Bus(), AddNode, g.onAdd),
		state.OfType(store.Bus(), RemoveNode, g.onRemove),
	)
	return g
}

// Close detaches the graph from the bus. Existing instances are kept.
func (g *Graph) Close() {
	g.subs.Unsubscribe()
}

// Add creates a node of code under parent (zero for a top-level node) and
// returns its id once it is instantiated. If instantiation fails the node
// is taken out of the state again and the error is returned.
func (g *Graph) Add(parent state.NodeID, code string) (state.NodeID, error) {
	if !g.defs.Exists(code) {
		return 0, fmt.Errorf("nodes: %q: %w", code, ErrUnknownCode)
	}
	a := AddNode.New(AddPayload{To: parent, Code: code})
	id := a.Payload.ID
	if err := g.store.Dispatch(a); err != nil {
		return 0, err
	}
	if err, failed := g.failures[id]; failed {
		delete(g.failures, id)
		if rmErr := g.store.Dispatch(RemoveNode.New(RemovePayload{ID: id})); rmErr != nil {
			return 0, errors.Join(err, rmErr)
		}
		return 0, err
	}
	return id, nil
}

// Remove removes the node and its whole subtree, deepest nodes first.
func (g *Graph) Remove(id state.NodeID) error {
	if _, ok := g.store.State().Node(id); !ok {
		return fmt.Errorf("nodes: remove %d: %w", id, ErrNodeNotFound)
	}
	for _, child := range g.Children(id) {
		if err := g.Remove(child); err != nil {
			return err
		}
	}
	return g.store.Dispatch(RemoveNode.New(RemovePayload{ID: id}))
}

// Instance returns the built node for id.
func (g *Graph) Instance(id state.NodeID) (*Instance, bool) {
	in, ok := g.instances[id]
	return in, ok
}

// Ancestors returns the ids above id, nearest first.
func (g *Graph) Ancestors(id state.NodeID) []state.NodeID {
	return g.store.State().Ancestors(id)
}

// Children returns the direct children of id in insertion order.
func (g *Graph) Children(id state.NodeID) []state.NodeID {
	return append([]state.NodeID(nil), g.store.State().Children[id]...)
}

// Len returns the number of live instances.
func (g *Graph) Len() int {
	return len(g.instances)
}

func (g *Graph) onAdd(p AddPayload) {
	in, err := g.build(p)
	if err != nil {
		g.failures[p.ID] = err
		g.logger.Error("node not built", "id", p.ID, "code", p.Code, "error", err)
		return
	}
	g.instances[p.ID] = in
	g.logger.Debug("node built", "id", p.ID, "code", p.Code, "class", in.Class)
}

func (g *Graph) build(p AddPayload) (*Instance, error) {
	def, ok := g.defs.Lookup(p.Code)
	if !ok {
		return nil, fmt.Errorf("nodes: %q: %w", p.Code, ErrUnknownCode)
	}
	var ancestors []*Instance
	for _, id := range g.Ancestors(p.ID) {
		a, ok := g.instances[id]
		if !ok {
			return nil, fmt.Errorf("nodes: ancestor %d of %d: %w", id, p.ID, ErrNodeNotFound)
		}
		ancestors = append(ancestors, a)
	}

	r := newResolver(def, ancestors)
	value, err := r.build(def)
	if err != nil {
		return nil, err
	}
	return &Instance{
		ID:       p.ID,
		Code:     p.Code,
		Class:    def.Class.Name,
		Value:    value,
		provided: r.resolved,
	}, nil
}

func (g *Graph) onRemove(p RemovePayload) {
	in, ok := g.instances[p.ID]
	if !ok {
		return
	}
	delete(g.instances, p.ID)
	if d, ok := in.Value.(Destroyer); ok {
		d.OnDestroy()
	}
	g.logger.Debug("node destroyed", "id", p.ID, "code", in.Code)
}
