package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(defaultStageYAML)
	if err != nil {
		t.Fatalf("Parse(defaults) error: %v", err)
	}
	if want := DefaultStageConfig(); !reflect.DeepEqual(cfg, want) {
		t.Errorf("embedded defaults = %+v\nexpected %+v", cfg, want)
	}
}

func TestDefaultStageConfigValid(t *testing.T) {
	if err := DefaultStageConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	doc := `
tick_rate: 30
hold_frames: 4
player:
  speed: 1
  palette: [red]
collision: {left_top: red, left_bottom: red, right_bottom: red, other: red}
objects:
  - {name: me, kind: square, w: 2, h: 2, fill: red, tags: [player], owner: world}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s) error: %v", path, err)
	}
	if cfg.TickRate != 30 || cfg.HoldFrames != 4 {
		t.Errorf("tick/hold = %d/%d, expected 30/4", cfg.TickRate, cfg.HoldFrames)
	}
	if len(cfg.Objects) != 1 || cfg.Objects[0].Name != "me" {
		t.Errorf("objects = %+v", cfg.Objects)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("tick_rate: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StageConfig)
	}{
		{"zero tick rate", func(c *StageConfig) { c.TickRate = 0 }},
		{"bad palette color", func(c *StageConfig) { c.Player.Palette = []string{"ultraviolet"} }},
		{"bad collision color", func(c *StageConfig) { c.Collision.Other = "plaid" }},
		{"bad kind", func(c *StageConfig) { c.Objects[0].Kind = "triangle" }},
		{"bad owner", func(c *StageConfig) { c.Objects[0].Owner = "nobody" }},
		{"bad span", func(c *StageConfig) { c.Objects[0].Span = "half" }},
		{"bad anchor", func(c *StageConfig) { c.Objects[0].Anchor = "top" }},
		{"bad fill", func(c *StageConfig) { c.Objects[0].Fill = "plaid" }},
		{"duplicate name", func(c *StageConfig) { c.Objects[1].Name = c.Objects[0].Name }},
		{"missing name", func(c *StageConfig) { c.Objects[0].Name = "" }},
		{"no player", func(c *StageConfig) { c.Objects = c.Objects[:3] }},
		{"player in scene", func(c *StageConfig) { c.Objects[3].Owner = OwnerScene }},
		{"two players", func(c *StageConfig) { c.Objects[2].Tags = append(c.Objects[2].Tags, "player") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultStageConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestColor(t *testing.T) {
	if got := Color("bright-blue"); got.String() != "bright-blue" {
		t.Errorf("Color(bright-blue) = %v", got)
	}
}
