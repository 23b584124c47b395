// Package registry holds graph node definitions: what a node code builds
// and which values it provides to its descendants.
//
// Dependencies are declared explicitly as tokens. A Provider either hands
// out a literal value or names a Class to instantiate; nothing is
// discovered by reflection.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Token names a dependency.
type Token string

// Class describes how to build a value: the tokens it needs, in order, and
// a constructor receiving them resolved in the same order.
type Class struct {
	Name string
	Deps []Token
	New  func(deps []any) (any, error)
}

// Provider makes a token available to a node and its descendants.
// It is either a literal value or a class to instantiate.
type Provider struct {
	Token Token
	value any
	class *Class
}

// UseValue provides v for t.
func UseValue(t Token, v any) Provider {
	return Provider{Token: t, value: v}
}

// UseClass provides an instance of c for t.
func UseClass(t Token, c Class) Provider {
	return Provider{Token: t, class: &c}
}

// Class returns the class to instantiate, if the provider has one.
func (p Provider) Class() (Class, bool) {
	if p.class == nil {
		return Class{}, false
	}
	return *p.class, true
}

// Value returns the literal value of a UseValue provider.
func (p Provider) Value() any { return p.value }

// Definition is everything registered under one node code.
type Definition struct {
	Code      string
	Title     string
	Class     Class
	Providers []Provider
}

// Info is a summary of a registered definition for listings.
type Info struct {
	Code     string
	Title    string
	Class    string
	Deps     []Token
	Provides []Token
}

// Registry maps node codes to definitions.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a definition.
// Panics if the code is already registered or the class has no constructor.
func (r *Registry) Register(d Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[d.Code]; exists {
		panic(fmt.Sprintf("registry: node code %q already registered", d.Code))
	}
	if d.Class.New == nil {
		panic(fmt.Sprintf("registry: node code %q has no constructor", d.Code))
	}
	if d.Title == "" {
		d.Title = d.Code
	}
	r.defs[d.Code] = d
}

// Lookup returns the definition registered under code.
func (r *Registry) Lookup(code string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.defs[code]
	return d, ok
}

// List returns information about all registered definitions, sorted by code.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Info, 0, len(r.defs))
	for code, d := range r.defs {
		info := Info{
			Code:  code,
			Title: d.Title,
			Class: d.Class.Name,
			Deps:  append([]Token(nil), d.Class.Deps...),
		}
		for _, p := range d.Providers {
			info.Provides = append(info.Provides, p.Token)
		}
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})

	return result
}

// Exists checks if a definition with the given code is registered.
func (r *Registry) Exists(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.defs[code]
	return ok
}
