package state

import (
	"errors"
	"slices"
	"strings"

	"github.com/vovakirdan/tui-stage/internal/shape"
)

// ErrUnknownPath is returned when a reducer's path does not resolve to a
// value in the current state.
var ErrUnknownPath = errors.New("unknown state path")

// Path addresses a subtree of GameState with static type S.
type Path[S any] struct {
	keys   []string
	at     func(*GameState) *S
	detach func(*GameState)
}

// Keys returns the path's key sequence from the root.
func (p Path[S]) Keys() []string { return slices.Clone(p.keys) }

func (p Path[S]) String() string {
	if len(p.keys) == 0 {
		return "<root>"
	}
	return strings.Join(p.keys, ".")
}

// The fixed subtrees of GameState.
var (
	RootPath = Path[GameState]{
		at:     func(g *GameState) *GameState { return g },
		detach: func(g *GameState) { *g = g.Clone() },
	}
	PhysicsPath = Path[Physics]{
		keys:   []string{"physics"},
		at:     func(g *GameState) *Physics { return &g.Physics },
		detach: func(*GameState) {},
	}
	NodesPath = Path[[]NodeRef]{
		keys:   []string{"nodes"},
		at:     func(g *GameState) *[]NodeRef { return &g.Nodes },
		detach: func(g *GameState) { g.Nodes = slices.Clone(g.Nodes) },
	}
	ParentsPath = Path[map[NodeID]NodeID]{
		keys:   []string{"parents"},
		at:     func(g *GameState) *map[NodeID]NodeID { return &g.Parents },
		detach: func(g *GameState) { g.Parents = cloneParents(g.Parents) },
	}
	ChildrenPath = Path[map[NodeID][]NodeID]{
		keys:   []string{"children"},
		at:     func(g *GameState) *map[NodeID][]NodeID { return &g.Children },
		detach: func(g *GameState) { g.Children = cloneChildren(g.Children) },
	}
	ScenePath = Path[[]*shape.Shape]{
		keys:   []string{"scene"},
		at:     func(g *GameState) *[]*shape.Shape { return &g.Scene },
		detach: func(g *GameState) { g.Scene = slices.Clone(g.Scene) },
	}
)

// Child extends parent by one step. step may return nil when the key does
// not exist in a given state; dispatching against it then fails with
// ErrUnknownPath.
func Child[P, S any](parent Path[P], key string, step func(*P) *S) Path[S] {
	return Path[S]{
		keys: append(slices.Clone(parent.keys), key),
		at: func(g *GameState) *S {
			p := parent.at(g)
			if p == nil {
				return nil
			}
			return step(p)
		},
		detach: parent.detach,
	}
}
