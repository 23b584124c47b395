package nodes

import (
	"fmt"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/shape"
	"github.com/vovakirdan/tui-stage/internal/state"
	"github.com/vovakirdan/tui-stage/internal/world"
)

// Tokens provided by the built-in nodes.
const (
	TokenStore   registry.Token = "store"
	TokenWorld   registry.Token = "world"
	TokenPalette registry.Token = "palette"
	TokenMeaning registry.Token = "meaning"
)

// Built-in node codes.
const (
	CodeRoot  = "root"
	CodeShape = "shape"
	CodeProbe = "probe"
)

// Root is the top of a stage's node tree.
type Root struct {
	Store *state.Store
	World *world.World
}

// Palette hands out fill colors in rotation.
type Palette struct {
	colors []core.Color
	next   int
}

// NewPalette creates a palette cycling through colors.
func NewPalette(colors ...core.Color) *Palette {
	if len(colors) == 0 {
		colors = []core.Color{core.ColorCyan}
	}
	return &Palette{colors: colors}
}

// Next returns the next color.
func (p *Palette) Next() core.Color {
	c := p.colors[p.next%len(p.colors)]
	p.next++
	return c
}

// ShapeNode owns one world object for the node's lifetime.
type ShapeNode struct {
	Handle *world.Handle
}

// OnDestroy removes the node's object from the world.
func (n *ShapeNode) OnDestroy() {
	if !n.Handle.Removed() {
		_ = n.Handle.Remove()
	}
}

// Probe records its lifecycle; it exists to show literal value injection.
type Probe struct {
	Meaning int
	Store   *state.Store
	Events  []string
}

// OnDestroy records the destruction.
func (p *Probe) OnDestroy() {
	p.Events = append(p.Events, "destroyed")
}

func dep[T any](deps []any, i int, t registry.Token) (T, error) {
	v, ok := deps[i].(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("nodes: token %q is %T, expected %T", t, deps[i], zero)
	}
	return v, nil
}

// PaletteClass builds the default shape palette.
var PaletteClass = registry.Class{
	Name: "Palette",
	New: func([]any) (any, error) {
		return NewPalette(core.ColorCyan, core.ColorMagenta, core.ColorYellow, core.ColorGreen), nil
	},
}

// RegisterBuiltins registers root, shape and probe. Root provides store
// and w to every node below it.
func RegisterBuiltins(reg *registry.Registry, store *state.Store, w *world.World) {
	reg.Register(registry.Definition{
		Code:  CodeRoot,
		Title: "Root node",
		Class: registry.Class{
			Name: "RootNode",
			Deps: []registry.Token{TokenStore, TokenWorld},
			New: func(deps []any) (any, error) {
				s, err := dep[*state.Store](deps, 0, TokenStore)
				if err != nil {
					return nil, err
				}
				w, err := dep[*world.World](deps, 1, TokenWorld)
				if err != nil {
					return nil, err
				}
				return &Root{Store: s, World: w}, nil
			},
		},
		Providers: []registry.Provider{
			registry.UseValue(TokenStore, store),
			registry.UseValue(TokenWorld, w),
			registry.UseClass(TokenPalette, PaletteClass),
		},
	})

	reg.Register(registry.Definition{
		Code:  CodeShape,
		Title: "Shape node",
		Class: registry.Class{
			Name: "ShapeNode",
			Deps: []registry.Token{TokenWorld, TokenPalette},
			New: func(deps []any) (any, error) {
				w, err := dep[*world.World](deps, 0, TokenWorld)
				if err != nil {
					return nil, err
				}
				p, err := dep[*Palette](deps, 1, TokenPalette)
				if err != nil {
					return nil, err
				}
				slot := float64(len(w.ObjectsByTag("node")))
				s := shape.New().
					Square(4, 2).
					At(2+slot*6, 1).
					MoveToLayer(1).
					Fill(p.Next()).
					AddHitbox()
				return &ShapeNode{Handle: w.AddObject(s, "node")}, nil
			},
		},
	})

	reg.Register(registry.Definition{
		Code:  CodeProbe,
		Title: "Probe node",
		Class: registry.Class{
			Name: "ProbeNode",
			Deps: []registry.Token{TokenStore, TokenMeaning},
			New: func(deps []any) (any, error) {
				s, err := dep[*state.Store](deps, 0, TokenStore)
				if err != nil {
					return nil, err
				}
				m, err := dep[int](deps, 1, TokenMeaning)
				if err != nil {
					return nil, err
				}
				return &Probe{Meaning: m, Store: s, Events: []string{"created"}}, nil
			},
		},
		Providers: []registry.Provider{registry.UseValue(TokenMeaning, 42)},
	})
}
