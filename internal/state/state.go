// Package state holds the stage's global state as immutable snapshots.
//
// A Store owns the current *GameState. Dispatching an action runs every
// reducer registered for its type, in registration order, against a
// copy-on-write draft: each reducer detaches (deep-copies) only the subtree
// its Path addresses, so the previous snapshot is never touched and
// unrelated subtrees are shared between snapshots.
package state

import (
	"maps"
	"slices"

	"github.com/vovakirdan/tui-stage/internal/shape"
)

// NodeID identifies a graph node. Zero means "no node".
type NodeID uint64

// NodeRef is a graph node as recorded in the state.
type NodeRef struct {
	ID   NodeID `json:"id"`
	Code string `json:"code"`
}

// Physics holds the global movement constants.
type Physics struct {
	Gravity    float64 `json:"gravity"`
	Drag       float64 `json:"drag"`
	GroundDrag float64 `json:"groundDrag"`
}

// GameState is one snapshot. Treat values reached from a *GameState handed
// out by a Store as read-only.
type GameState struct {
	Physics  Physics
	Nodes    []NodeRef
	Parents  map[NodeID]NodeID
	Children map[NodeID][]NodeID
	Scene    []*shape.Shape
}

// DefaultPhysics returns the stock movement constants.
func DefaultPhysics() Physics {
	return Physics{Gravity: 0.2, Drag: 0.999, GroundDrag: 0.9}
}

// InitialState returns an empty state with default physics.
func InitialState() GameState {
	return GameState{
		Physics:  DefaultPhysics(),
		Parents:  map[NodeID]NodeID{},
		Children: map[NodeID][]NodeID{},
	}
}

// Clone deep-copies the state. Shapes are shared: they are entities with
// their own identity, not state values.
func (g GameState) Clone() GameState {
	return GameState{
		Physics:  g.Physics,
		Nodes:    slices.Clone(g.Nodes),
		Parents:  cloneParents(g.Parents),
		Children: cloneChildren(g.Children),
		Scene:    slices.Clone(g.Scene),
	}
}

// Node finds a node by id.
func (g *GameState) Node(id NodeID) (NodeRef, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeRef{}, false
}

// Ancestors walks the parent links from id upwards, nearest first.
func (g *GameState) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	seen := map[NodeID]bool{id: true}
	for {
		parent, ok := g.Parents[id]
		if !ok || parent == 0 || seen[parent] {
			return out
		}
		out = append(out, parent)
		seen[parent] = true
		id = parent
	}
}

func cloneParents(m map[NodeID]NodeID) map[NodeID]NodeID {
	if m == nil {
		return map[NodeID]NodeID{}
	}
	return maps.Clone(m)
}

func cloneChildren(m map[NodeID][]NodeID) map[NodeID][]NodeID {
	out := make(map[NodeID][]NodeID, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}
