package world

import (
	"github.com/vovakirdan/tui-stage/internal/shape"
	"github.com/vovakirdan/tui-stage/internal/signal"
)

// Horizontal tells on which side of the other object an object sits.
type Horizontal string

// Vertical tells above or below which the other object an object sits.
type Vertical string

const (
	Left   Horizontal = "left"
	Right  Horizontal = "right"
	Top    Vertical   = "top"
	Bottom Vertical   = "bottom"
)

// Collision is one overlapping pair seen from the object being asked.
// Horizontal is Right when the asking object's hitbox center lies right of
// the target's, Vertical is Bottom when it lies below; equal centers resolve
// to Left and Top. It is a direction hint, not a penetration depth.
type Collision struct {
	Target     *shape.Shape
	Horizontal Horizontal
	Vertical   Vertical
}

// Detect returns every shape in others whose hitbox overlaps self's.
// self itself and shapes without a hitbox are skipped. A self without a
// hitbox collides with nothing.
func Detect(self *shape.Shape, others []*shape.Shape) []Collision {
	mine, ok := self.HitboxRect()
	if !ok {
		return nil
	}
	mx, my := mine.Center()

	var out []Collision
	for _, other := range others {
		if other == self {
			continue
		}
		theirs, ok := other.HitboxRect()
		if !ok || !mine.Intersects(theirs) {
			continue
		}
		tx, ty := theirs.Center()
		c := Collision{Target: other, Horizontal: Left, Vertical: Top}
		if mx > tx {
			c.Horizontal = Right
		}
		if my > ty {
			c.Vertical = Bottom
		}
		out = append(out, c)
	}
	return out
}

// Colliding calls fn on every frame where a overlaps b, with the collision
// as seen from a. It stops for good once either handle is removed.
func Colliding(a, b *Handle, fn func(Collision)) signal.Subscription {
	var scope signal.Group
	scope.Add(a.OnCollisions(func(cs []Collision) {
		if b.Removed() {
			return
		}
		target := b.Get().ID()
		for _, c := range cs {
			if c.Target.ID() == target {
				fn(c)
				return
			}
		}
	}))
	scope.Add(b.OnRemove(func(*shape.Shape) { scope.Unsubscribe() }))
	scope.Add(a.OnRemove(func(*shape.Shape) { scope.Unsubscribe() }))
	return &scope
}
