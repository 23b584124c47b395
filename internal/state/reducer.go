package state

import (
	"fmt"
	"reflect"
	"sort"
)

// Registry maps action types to the reducers that handle them.
// Registration is expected up front, before the first dispatch; there is
// no way to unregister.
type Registry struct {
	byType map[string][]entry
}

type entry struct {
	path  string
	apply func(before, draft *GameState, a Action) (changed bool, err error)
}

// NewRegistry creates an empty reducer registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string][]entry)}
}

// Types lists the action types with at least one reducer, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.byType))
	for t := range r.byType {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Paths lists, in application order, the paths reduced for an action type.
func (r *Registry) Paths(kind string) []string {
	entries := r.byType[kind]
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.path
	}
	return out
}

func (r *Registry) lookup(kind string) []entry {
	return r.byType[kind]
}

// Case pairs an action type with an updater for subtree S.
type Case[S any] struct {
	kind   string
	update func(*S, Action) error
}

// When builds a Case from a creator and a typed updater. The updater edits
// the draft subtree in place; returning an error aborts the dispatch.
func When[S, P any](c Creator[P], fn func(draft *S, payload P) error) Case[S] {
	return Case[S]{
		kind: c.Type(),
		update: func(draft *S, a Action) error {
			p, ok := c.Match(a)
			if !ok {
				return fmt.Errorf("state: action %q does not carry %T", a.Type(), p)
			}
			return fn(draft, p)
		},
	}
}

// Reducer registers cases against one fixed path.
type Reducer[S any] struct {
	reg  *Registry
	path Path[S]
}

// ReduceHere starts registering reducers for the subtree at p.
func ReduceHere[S any](reg *Registry, p Path[S]) *Reducer[S] {
	return &Reducer[S]{reg: reg, path: p}
}

// On appends c to the reducers of its action type and returns r, so several
// action types can be chained against the same path.
func (r *Reducer[S]) On(c Case[S]) *Reducer[S] {
	p := r.path
	r.reg.byType[c.kind] = append(r.reg.byType[c.kind], entry{
		path: p.String(),
		apply: func(before, draft *GameState, a Action) (bool, error) {
			p.detach(draft)
			dst := p.at(draft)
			if dst == nil {
				return false, fmt.Errorf("state: %s: %w", p, ErrUnknownPath)
			}
			if err := c.update(dst, a); err != nil {
				return false, err
			}
			return !reflect.DeepEqual(p.at(before), dst), nil
		},
	})
	return r
}
