// Package shape is the drawable entity the stage moves around: a square or
// circle with a position, layer, colors and an optional hitbox.
//
// Setters mutate the shape in place and return it, so calls chain:
//
//	s := shape.New().Square(10, 4).At(3, 2).Fill(core.ColorRed).AddHitbox()
//
// A shape keeps its ID across every mutation; Clone is the only way to get
// a new one.
package shape

import (
	"encoding/json"
	"sync/atomic"

	"github.com/vovakirdan/tui-stage/internal/core"
)

// ID identifies a shape for its whole life.
type ID uint64

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

// Kind is the outline a shape is drawn and hit-tested with.
type Kind int

const (
	KindSquare Kind = iota
	KindCircle
)

// String returns the kind's config name.
func (k Kind) String() string {
	if k == KindCircle {
		return "circle"
	}
	return "square"
}

// Shape is a mutable drawable record.
type Shape struct {
	id          ID
	kind        Kind
	pos         core.Coord
	origin      core.Coord
	dim         core.Dimension
	layer       int
	fill        core.Color
	stroke      core.Color
	strokeWidth float64
	hitbox      *core.Rect
}

// New creates an empty, transparent square of zero size at the origin.
func New() *Shape {
	return &Shape{
		id:     nextID(),
		kind:   KindSquare,
		stroke: core.ColorGray,
	}
}

// ID returns the shape's identity.
func (s *Shape) ID() ID { return s.id }

// Clone copies every field into a shape with a fresh ID.
func (s *Shape) Clone() *Shape {
	c := *s
	c.id = nextID()
	if s.hitbox != nil {
		hb := *s.hitbox
		c.hitbox = &hb
	}
	return &c
}

// At places the shape's position.
func (s *Shape) At(x, y float64) *Shape {
	s.pos = core.C(x, y)
	return s
}

// AtOrigin sets the offset subtracted from the position when drawing and
// hit-testing, so a shape can be anchored at its center or any other point.
// Hitboxes stay relative to the position.
func (s *Shape) AtOrigin(x, y float64) *Shape {
	s.origin = core.C(x, y)
	return s
}

// Move translates the position.
func (s *Shape) Move(dx, dy float64) *Shape {
	s.pos = s.pos.Add(core.C(dx, dy))
	return s
}

// MoveToLayer sets the draw and hit-test order. Higher is on top.
func (s *Shape) MoveToLayer(layer int) *Shape {
	s.layer = layer
	return s
}

// Square turns the shape into a w×h rectangle.
func (s *Shape) Square(w, h float64) *Shape {
	s.kind = KindSquare
	s.dim = core.D(w, h)
	return s
}

// Circle turns the shape into a circle of the given diameter.
func (s *Shape) Circle(diameter float64) *Shape {
	s.kind = KindCircle
	s.dim = core.D(diameter, diameter)
	return s
}

// Fill sets the fill color. ColorDefault means transparent.
func (s *Shape) Fill(c core.Color) *Shape {
	s.fill = c
	return s
}

// Stroke sets the outline width and color. Zero width draws no outline.
func (s *Shape) Stroke(width float64, c core.Color) *Shape {
	s.strokeWidth = width
	s.stroke = c
	return s
}

// AddHitbox gives the shape a hitbox covering its whole dimension.
func (s *Shape) AddHitbox() *Shape {
	return s.WithHitbox(core.NewRect(0, 0, s.dim.W, s.dim.H))
}

// WithHitbox sets a hitbox relative to the shape's position.
func (s *Shape) WithHitbox(r core.Rect) *Shape {
	s.hitbox = &r
	return s
}

// ClearHitbox removes the hitbox; the shape stops colliding.
func (s *Shape) ClearHitbox() *Shape {
	s.hitbox = nil
	return s
}

// Kind returns whether the shape is a square or a circle.
func (s *Shape) Kind() Kind { return s.kind }

// Position returns the top-left corner before the origin offset.
func (s *Shape) Position() core.Coord { return s.pos }

// Origin returns the offset subtracted from the position when drawing.
func (s *Shape) Origin() core.Coord { return s.origin }

// Dimension returns the shape's width and height.
func (s *Shape) Dimension() core.Dimension { return s.dim }

// Layer returns the draw and hit-test order.
func (s *Shape) Layer() int { return s.layer }

// FillColor returns the fill color.
func (s *Shape) FillColor() core.Color { return s.fill }

// StrokeColor returns the outline color.
func (s *Shape) StrokeColor() core.Color { return s.stroke }

// StrokeWidth returns the outline width; zero draws no outline.
func (s *Shape) StrokeWidth() float64 { return s.strokeWidth }

// Hitbox returns the hitbox relative to the position.
func (s *Shape) Hitbox() (core.Rect, bool) {
	if s.hitbox == nil {
		return core.Rect{}, false
	}
	return *s.hitbox, true
}

// HitboxRect returns the hitbox in stage coordinates.
func (s *Shape) HitboxRect() (core.Rect, bool) {
	if s.hitbox == nil {
		return core.Rect{}, false
	}
	return s.hitbox.Translate(s.pos), true
}

// Bounds returns the drawn rectangle in stage coordinates.
func (s *Shape) Bounds() core.Rect {
	return core.NewRect(s.pos.X-s.origin.X, s.pos.Y-s.origin.Y, s.dim.W, s.dim.H)
}

// ContainsPoint hit-tests a stage coordinate against the drawn outline.
func (s *Shape) ContainsPoint(p core.Coord) bool {
	b := s.Bounds()
	if s.kind == KindSquare {
		return b.Contains(p.X, p.Y)
	}
	cx, cy := b.Center()
	r := b.W / 2
	dx, dy := p.X-cx, p.Y-cy
	return dx*dx+dy*dy <= r*r
}

// Collides reports whether both shapes have hitboxes and they overlap.
// Touching edges do not collide.
func (s *Shape) Collides(other *Shape) bool {
	if other == nil {
		return false
	}
	r, ok := other.HitboxRect()
	if !ok {
		return false
	}
	return s.CollidesRect(r)
}

// CollidesRect reports whether the shape's hitbox overlaps r.
func (s *Shape) CollidesRect(r core.Rect) bool {
	mine, ok := s.HitboxRect()
	if !ok {
		return false
	}
	return mine.Intersects(r)
}

type jsonShape struct {
	ID          ID         `json:"id"`
	Kind        string     `json:"kind"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	W           float64    `json:"w"`
	H           float64    `json:"h"`
	Layer       int        `json:"layer"`
	Fill        core.Color `json:"fill"`
	Stroke      core.Color `json:"stroke,omitempty"`
	StrokeWidth float64    `json:"strokeWidth,omitempty"`
	Hitbox      *core.Rect `json:"hitbox,omitempty"`
}

// MarshalJSON encodes the public fields, used by the action journal.
func (s *Shape) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonShape{
		ID:          s.id,
		Kind:        s.kind.String(),
		X:           s.pos.X,
		Y:           s.pos.Y,
		W:           s.dim.W,
		H:           s.dim.H,
		Layer:       s.layer,
		Fill:        s.fill,
		Stroke:      s.stroke,
		StrokeWidth: s.strokeWidth,
		Hitbox:      s.hitbox,
	})
}
