package nodes

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/vovakirdan/tui-stage/internal/state"
)

var (
	ErrParentNotFound    = errors.New("parent node not found")
	ErrNodeNotFound      = errors.New("node not found")
	ErrUnknownCode       = errors.New("unknown node code")
	ErrMissingDependency = errors.New("missing dependency")
	ErrDependencyCycle   = errors.New("dependency cycle")
)

// AddPayload asks for a node of Code under To (zero for a top-level node).
// ID is stamped by the creator.
type AddPayload struct {
	To   state.NodeID `json:"to"`
	Code string       `json:"code"`
	ID   state.NodeID `json:"id"`
}

// RemovePayload names the node to remove.
type RemovePayload struct {
	ID state.NodeID `json:"id"`
}

var lastID atomic.Uint64

// Graph node actions.
var (
	AddNode = state.NewActionWith("[node] add node", func(p AddPayload) AddPayload {
		p.ID = state.NodeID(lastID.Add(1))
		return p
	})
	RemoveNode = state.NewAction[RemovePayload]("[node] remove node")
)

// Register installs the graph node reducers into reg.
func Register(reg *state.Registry) {
	state.ReduceHere(reg, state.RootPath).
		On(state.When(AddNode, addNode)).
		On(state.When(RemoveNode, removeNode))
}

func addNode(g *state.GameState, p AddPayload) error {
	g.Nodes = append(g.Nodes, state.NodeRef{ID: p.ID, Code: p.Code})
	if p.To == 0 {
		return nil
	}
	if _, ok := g.Node(p.To); !ok {
		return fmt.Errorf("nodes: add %q under %d: %w", p.Code, p.To, ErrParentNotFound)
	}
	g.Parents[p.ID] = p.To
	g.Children[p.To] = append(g.Children[p.To], p.ID)
	return nil
}

func removeNode(g *state.GameState, p RemovePayload) error {
	i := slices.IndexFunc(g.Nodes, func(n state.NodeRef) bool { return n.ID == p.ID })
	if i < 0 {
		return fmt.Errorf("nodes: remove %d: %w", p.ID, ErrNodeNotFound)
	}
	g.Nodes = slices.Delete(g.Nodes, i, i+1)
	if parent, ok := g.Parents[p.ID]; ok {
		siblings := slices.DeleteFunc(g.Children[parent], func(id state.NodeID) bool { return id == p.ID })
		if len(siblings) == 0 {
			delete(g.Children, parent)
		} else {
			g.Children[parent] = siblings
		}
	}
	delete(g.Parents, p.ID)
	delete(g.Children, p.ID)
	return nil
}
