package nodes

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/state"
)

// Instance is a constructed graph node.
type Instance struct {
	ID       state.NodeID
	Code     string
	Class    string
	Value    any
	provided map[registry.Token]any
}

// Provided returns the value the node provides for t, if any.
func (in *Instance) Provided(t registry.Token) (any, bool) {
	v, ok := in.provided[t]
	return v, ok
}

// resolver builds one node. Own providers are consulted first, then each
// ancestor's, nearest first.
type resolver struct {
	own       []registry.Provider
	ancestors []*Instance
	resolved  map[registry.Token]any
	building  []string
}

func newResolver(def registry.Definition, ancestors []*Instance) *resolver {
	return &resolver{
		own:       def.Providers,
		ancestors: ancestors,
		resolved:  make(map[registry.Token]any),
	}
}

// build resolves every own provider, then instantiates the node's class.
func (r *resolver) build(def registry.Definition) (any, error) {
	for _, p := range r.own {
		if _, err := r.provide(p); err != nil {
			return nil, err
		}
	}
	return r.instantiate(def.Class)
}

func (r *resolver) instantiate(c registry.Class) (any, error) {
	for _, name := range r.building {
		if name == c.Name {
			chain := append(append([]string(nil), r.building...), c.Name)
			return nil, fmt.Errorf("nodes: %s: %w", strings.Join(chain, " -> "), ErrDependencyCycle)
		}
	}
	r.building = append(r.building, c.Name)
	defer func() { r.building = r.building[:len(r.building)-1] }()

	args := make([]any, len(c.Deps))
	for i, t := range c.Deps {
		v, err := r.lookup(t)
		if err != nil {
			return nil, fmt.Errorf("nodes: %s: %w", c.Name, err)
		}
		args[i] = v
	}
	return c.New(args)
}

// lookup resolves t from the definition's own providers first, so a node
// can override a token its ancestors provide. Ancestors are searched
// nearest first.
func (r *resolver) lookup(t registry.Token) (any, error) {
	for _, p := range r.own {
		if p.Token == t {
			return r.provide(p)
		}
	}
	for _, a := range r.ancestors {
		if v, ok := a.provided[t]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("token %q: %w", t, ErrMissingDependency)
}

func (r *resolver) provide(p registry.Provider) (any, error) {
	if v, ok := r.resolved[p.Token]; ok {
		return v, nil
	}
	class, ok := p.Class()
	if !ok {
		r.resolved[p.Token] = p.Value()
		return p.Value(), nil
	}
	for _, a := range r.ancestors {
		if a.Class == class.Name {
			r.resolved[p.Token] = a.Value
			return a.Value, nil
		}
	}
	v, err := r.instantiate(class)
	if err != nil {
		return nil, err
	}
	r.resolved[p.Token] = v
	return v, nil
}
