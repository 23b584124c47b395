// Package world is the live object arena: an ordered collection of shapes,
// each wrapped in a Handle that knows its own position in the collection
// and exposes click, collision and removal notifications.
//
// Handles store an index into the arena. When a handle is removed every
// other live handle is told the removed index and shifts its own down if it
// sat above, so Get always returns the handle's own shape.
package world

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/shape"
	"github.com/vovakirdan/tui-stage/internal/signal"
	"github.com/vovakirdan/tui-stage/internal/tags"
)

// FrameSource paces per-frame work such as collision detection.
type FrameSource interface {
	OnFrame(fn func(frame uint64)) signal.Subscription
}

// ClickEvent is a click already resolved to the topmost shape under it.
type ClickEvent struct {
	Shape *shape.Shape
	At    core.Coord
}

// World owns the arena, the tag index and the click stream.
// It is driven from one goroutine.
type World struct {
	shapes  []*shape.Shape
	removed signal.Subject[int]
	clicks  signal.Subject[ClickEvent]
	tags    tags.Index[*Handle]
	frames  FrameSource
	logger  *log.Logger
}

// Option configures a World.
type Option func(*World)

// WithLogger routes arena diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(w *World) { w.logger = l }
}

// New creates an empty world paced by frames.
func New(frames FrameSource, opts ...Option) *World {
	w := &World{frames: frames}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	return w
}

// AddObject appends s to the arena and returns its handle.
func (w *World) AddObject(s *shape.Shape, tagList ...string) *Handle {
	w.shapes = append(w.shapes, s)
	h := &Handle{
		world: w,
		index: len(w.shapes) - 1,
		tags:  append([]string(nil), tagList...),
	}
	h.removedSub = w.removed.Subscribe(func(i int) {
		if i < h.index {
			h.index--
		}
	})
	for _, tag := range h.tags {
		w.tags.Add(tag, h)
	}
	w.logger.Debug("object added", "shape", s.ID(), "index", h.index, "tags", h.tags)
	return h
}

// ObjectsByTag returns the live handles carrying tag, oldest first.
func (w *World) ObjectsByTag(tag string) []*Handle {
	return w.tags.All(tag)
}

// ObjectByTag returns the oldest live handle carrying tag, or nil.
func (w *World) ObjectByTag(tag string) *Handle {
	h, _ := w.tags.First(tag)
	return h
}

// Tags lists the tags with live members.
func (w *World) Tags() []string {
	return w.tags.Tags()
}

// Shapes returns the arena in insertion order. The slice is a copy.
func (w *World) Shapes() []*shape.Shape {
	return append([]*shape.Shape(nil), w.shapes...)
}

// Len returns the number of live objects.
func (w *World) Len() int {
	return len(w.shapes)
}

// ShapeAt returns the topmost arena shape under at, or nil.
func (w *World) ShapeAt(at core.Coord) *shape.Shape {
	return TopmostAt(w.shapes, at)
}

// Route delivers a resolved click to the handle whose shape it hit.
// Events without a shape are dropped.
func (w *World) Route(ev ClickEvent) {
	if ev.Shape == nil {
		return
	}
	w.clicks.Emit(ev)
}

// Click resolves at against the arena and routes the hit, if any.
func (w *World) Click(at core.Coord) bool {
	s := w.ShapeAt(at)
	if s == nil {
		return false
	}
	w.Route(ClickEvent{Shape: s, At: at})
	return true
}

// TopmostAt tests shapes from the highest layer down and returns the first
// one containing at. Within a layer, insertion order decides.
func TopmostAt(shapes []*shape.Shape, at core.Coord) *shape.Shape {
	order := append([]*shape.Shape(nil), shapes...)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Layer() > order[j].Layer()
	})
	for _, s := range order {
		if s.ContainsPoint(at) {
			return s
		}
	}
	return nil
}
