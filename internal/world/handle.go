package world

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-stage/internal/shape"
	"github.com/vovakirdan/tui-stage/internal/signal"
)

// ErrRemoved is returned when a handle is removed twice.
var ErrRemoved = errors.New("object already removed")

// Handle is one live object in a World.
type Handle struct {
	world      *World
	index      int
	tags       []string
	removed    bool
	removedSub signal.Subscription
	scope      signal.Group
	onRemove   signal.Once[*shape.Shape]
}

// Get returns the handle's current shape. It panics on a removed handle.
func (h *Handle) Get() *shape.Shape {
	if h.removed {
		panic(fmt.Sprintf("world: Get on removed object (index %d)", h.index))
	}
	return h.world.shapes[h.index]
}

// Index returns the handle's position in the arena.
func (h *Handle) Index() int { return h.index }

// Tags returns the tags the handle was created with.
func (h *Handle) Tags() []string { return append([]string(nil), h.tags...) }

// Removed reports whether Remove has been called.
func (h *Handle) Removed() bool { return h.removed }

// Remove takes the object out of the arena. Its click and collision
// subscriptions end, OnRemove subscribers get the shape, its tags are
// dropped, and every other handle is told which index went away.
func (h *Handle) Remove() error {
	if h.removed {
		return ErrRemoved
	}
	w := h.world
	s := h.Get()

	h.removedSub.Unsubscribe()
	for i, candidate := range w.shapes {
		if candidate == s {
			w.shapes = append(w.shapes[:i:i], w.shapes[i+1:]...)
			break
		}
	}
	h.removed = true
	h.onRemove.Fire(s)
	h.scope.Unsubscribe()
	for _, tag := range h.tags {
		w.tags.Remove(tag, h)
	}
	w.removed.Emit(h.index)
	w.logger.Debug("object removed", "shape", s.ID(), "index", h.index)
	return nil
}

// OnRemove subscribes fn to the removal. Subscribing after removal calls fn
// right away with the removed shape.
func (h *Handle) OnRemove(fn func(*shape.Shape)) signal.Subscription {
	return h.onRemove.Subscribe(fn)
}

// OnClick calls fn with the handle's shape each time a routed click hits it,
// until the handle is removed.
func (h *Handle) OnClick(fn func(*shape.Shape)) signal.Subscription {
	sub := h.world.clicks.Subscribe(func(ev ClickEvent) {
		if h.removed {
			return
		}
		if s := h.Get(); s.ID() == ev.Shape.ID() {
			fn(s)
		}
	})
	h.scope.Add(sub)
	return sub
}

// Collisions computes the current collision set against the arena.
// It is nil when the handle has no hitbox.
func (h *Handle) Collisions() []Collision {
	return Detect(h.Get(), h.world.shapes)
}

// OnCollisions calls fn once per frame with the full collision set, possibly
// empty, on every frame where the handle has a hitbox. It stops at removal.
func (h *Handle) OnCollisions(fn func([]Collision)) signal.Subscription {
	if h.world.frames == nil {
		return signal.Func(nil)
	}
	sub := h.world.frames.OnFrame(func(uint64) {
		if h.removed {
			return
		}
		s := h.Get()
		if _, ok := s.Hitbox(); !ok {
			return
		}
		cs := Detect(s, h.world.shapes)
		if cs == nil {
			cs = []Collision{}
		}
		fn(cs)
	})
	h.scope.Add(sub)
	return sub
}
