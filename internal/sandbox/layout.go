package sandbox

import (
	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/shape"
)

// Build turns an object description into a shape laid out on a
// width x height screen.
func Build(o config.ObjectConfig, width, height int) *shape.Shape {
	w, h := o.W, o.H
	switch o.Span {
	case config.SpanWidth:
		w = float64(width)
	case config.SpanScreen:
		w, h = float64(width), float64(height)
	}

	y := o.Y
	if o.Anchor == config.AnchorBottom {
		y = float64(height) - h - o.Y
	}

	s := shape.New().
		At(o.X, y).
		MoveToLayer(o.Layer).
		Fill(config.Color(o.Fill))
	if o.Kind == config.KindCircle {
		s.Circle(w)
	} else {
		s.Square(w, h)
	}
	if o.StrokeWidth > 0 {
		s.Stroke(o.StrokeWidth, config.Color(o.Stroke))
	}

	switch {
	case o.Hitbox != nil:
		s.WithHitbox(core.NewRect(o.Hitbox.X, o.Hitbox.Y, o.Hitbox.W, o.Hitbox.H))
	case o.AutoHitbox:
		s.AddHitbox()
	}
	return s
}
