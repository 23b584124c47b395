// Package config provides YAML-based stage configuration loading.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-stage/internal/core"
)

// StageConfig contains all configuration for the stage.
type StageConfig struct {
	TickRate   int             `yaml:"tick_rate"`
	HoldFrames int             `yaml:"hold_frames"`
	Physics    PhysicsConfig   `yaml:"physics"`
	Player     PlayerConfig    `yaml:"player"`
	Collision  CollisionColors `yaml:"collision"`
	Objects    []ObjectConfig  `yaml:"objects"`
}

// PhysicsConfig seeds the physics slice of the state.
type PhysicsConfig struct {
	Gravity    float64 `yaml:"gravity"`
	Drag       float64 `yaml:"drag"`
	GroundDrag float64 `yaml:"ground_drag"`
}

// PlayerConfig defines how the player object moves and recolors.
type PlayerConfig struct {
	Speed   float64  `yaml:"speed"` // cells per frame while an arrow is held
	Palette []string `yaml:"palette"`
}

// CollisionColors picks the target's color by the side the player hits.
type CollisionColors struct {
	LeftTop     string `yaml:"left_top"`
	LeftBottom  string `yaml:"left_bottom"`
	RightBottom string `yaml:"right_bottom"`
	Other       string `yaml:"other"`
}

// Object kinds and owners.
const (
	KindSquare = "square"
	KindCircle = "circle"

	OwnerWorld = "world"
	OwnerScene = "scene"

	SpanWidth  = "width"  // W becomes the screen width
	SpanScreen = "screen" // W and H become the screen size

	AnchorBottom = "bottom" // Y is measured up from the bottom edge
)

// ObjectConfig describes one object placed at startup.
type ObjectConfig struct {
	Name        string        `yaml:"name"`
	Kind        string        `yaml:"kind"`
	X           float64       `yaml:"x"`
	Y           float64       `yaml:"y"`
	W           float64       `yaml:"w"` // diameter for circles
	H           float64       `yaml:"h"`
	Span        string        `yaml:"span,omitempty"`
	Anchor      string        `yaml:"anchor,omitempty"`
	Layer       int           `yaml:"layer"`
	Fill        string        `yaml:"fill"`
	Stroke      string        `yaml:"stroke,omitempty"`
	StrokeWidth float64       `yaml:"stroke_width,omitempty"`
	Hitbox      *HitboxConfig `yaml:"hitbox,omitempty"`
	AutoHitbox  bool          `yaml:"auto_hitbox,omitempty"` // hitbox covering the whole object
	Tags        []string      `yaml:"tags"`
	Owner       string        `yaml:"owner"`
}

// HitboxConfig is a hitbox relative to the object's position.
type HitboxConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid stage config")

// Validate checks names, kinds, owners and colors.
func (c StageConfig) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, c.TickRate)
	}
	for _, name := range c.Player.Palette {
		if _, ok := core.ParseColor(name); !ok {
			return fmt.Errorf("%w: player palette: unknown color %q", ErrInvalid, name)
		}
	}
	for _, name := range []string{c.Collision.LeftTop, c.Collision.LeftBottom, c.Collision.RightBottom, c.Collision.Other} {
		if _, ok := core.ParseColor(name); !ok {
			return fmt.Errorf("%w: collision: unknown color %q", ErrInvalid, name)
		}
	}

	seen := make(map[string]bool)
	players := 0
	for i, o := range c.Objects {
		if o.Name == "" {
			return fmt.Errorf("%w: object %d has no name", ErrInvalid, i)
		}
		if seen[o.Name] {
			return fmt.Errorf("%w: duplicate object %q", ErrInvalid, o.Name)
		}
		seen[o.Name] = true
		if err := o.validate(); err != nil {
			return fmt.Errorf("%w: object %q: %v", ErrInvalid, o.Name, err)
		}
		for _, tag := range o.Tags {
			if tag == "player" {
				players++
				if o.Owner != OwnerWorld {
					return fmt.Errorf("%w: player %q must be owned by the world", ErrInvalid, o.Name)
				}
			}
		}
	}
	if players != 1 {
		return fmt.Errorf("%w: exactly one object must be tagged player, found %d", ErrInvalid, players)
	}
	return nil
}

func (o ObjectConfig) validate() error {
	switch o.Kind {
	case KindSquare, KindCircle:
	default:
		return fmt.Errorf("unknown kind %q", o.Kind)
	}
	switch o.Owner {
	case OwnerWorld, OwnerScene:
	default:
		return fmt.Errorf("unknown owner %q", o.Owner)
	}
	switch o.Span {
	case "", SpanWidth, SpanScreen:
	default:
		return fmt.Errorf("unknown span %q", o.Span)
	}
	if o.Anchor != "" && o.Anchor != AnchorBottom {
		return fmt.Errorf("unknown anchor %q", o.Anchor)
	}
	if _, ok := core.ParseColor(o.Fill); !ok {
		return fmt.Errorf("unknown fill %q", o.Fill)
	}
	if _, ok := core.ParseColor(o.Stroke); !ok {
		return fmt.Errorf("unknown stroke %q", o.Stroke)
	}
	return nil
}

// Color resolves a validated color name.
func Color(name string) core.Color {
	c, _ := core.ParseColor(name)
	return c
}
