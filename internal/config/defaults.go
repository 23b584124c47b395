package config

import (
	_ "embed"
)

//go:embed defaults/stage.yaml
var defaultStageYAML []byte

// DefaultStageConfig returns the default stage configuration.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		TickRate:   60,
		HoldFrames: 8,
		Physics: PhysicsConfig{
			Gravity:    0.2,
			Drag:       0.999,
			GroundDrag: 0.9,
		},
		Player: PlayerConfig{
			Speed:   0.5,
			Palette: []string{"red", "green", "yellow", "magenta", "cyan", "orange", "bright-blue", "white"},
		},
		Collision: CollisionColors{
			LeftTop:     "red",
			LeftBottom:  "green",
			RightBottom: "blue",
			Other:       "gold",
		},
		Objects: []ObjectConfig{
			{
				Name:  "sky",
				Kind:  KindSquare,
				Span:  SpanScreen,
				Layer: -1,
				Fill:  "sky",
				Tags:  []string{"scene", "background"},
				Owner: OwnerScene,
			},
			{
				Name:       "ground",
				Kind:       KindSquare,
				H:          1,
				Span:       SpanWidth,
				Anchor:     AnchorBottom,
				Fill:       "brown",
				AutoHitbox: true,
				Tags:       []string{"scene", "ground"},
				Owner:      OwnerScene,
			},
			{
				Name:        "circle",
				Kind:        KindCircle,
				X:           4,
				Y:           2,
				W:           12,
				Layer:       2,
				Fill:        "bright-blue",
				Stroke:      "white",
				StrokeWidth: 1,
				Hitbox:      &HitboxConfig{X: 2, Y: 2, W: 8, H: 8},
				Tags:        []string{"target"},
				Owner:       OwnerWorld,
			},
			{
				Name:       "player",
				Kind:       KindSquare,
				X:          30,
				Y:          8,
				W:          6,
				H:          3,
				Fill:       "red",
				AutoHitbox: true,
				Tags:       []string{"player"},
				Owner:      OwnerWorld,
			},
		},
	}
}
