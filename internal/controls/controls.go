// Package controls tracks which keys are held and where the mouse is.
//
// Terminals report key presses but not releases, so a pressed key stays
// held for a fixed number of frames after its last press; auto-repeat keeps
// it alive while the user holds it down. Hosts that do see releases call
// Release directly.
package controls

import (
	"sort"

	"github.com/vovakirdan/tui-stage/internal/core"
)

// DefaultHoldFrames is how long a press lasts without a repeat.
const DefaultHoldFrames = 8

// Controls is the input state read by the stage on every frame.
type Controls struct {
	holdFrames int
	held       map[core.Key]int
	mouseDown  bool
	mouse      core.Coord
}

// New creates empty controls. holdFrames <= 0 uses DefaultHoldFrames.
func New(holdFrames int) *Controls {
	if holdFrames <= 0 {
		holdFrames = DefaultHoldFrames
	}
	return &Controls{
		holdFrames: holdFrames,
		held:       make(map[core.Key]int),
	}
}

// Press marks k held, restarting its decay.
func (c *Controls) Press(k core.Key) {
	if k == core.KeyNone {
		return
	}
	c.held[k] = c.holdFrames
}

// Release drops k immediately.
func (c *Controls) Release(k core.Key) {
	delete(c.held, k)
}

// Held reports whether k is down.
func (c *Controls) Held(k core.Key) bool {
	return c.held[k] > 0
}

// HeldKeys lists the keys currently down, in Key order.
func (c *Controls) HeldKeys() []core.Key {
	keys := make([]core.Key, 0, len(c.held))
	for k := range c.held {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Frame ages every held key by one frame.
func (c *Controls) Frame() {
	for k, left := range c.held {
		if left <= 1 {
			delete(c.held, k)
			continue
		}
		c.held[k] = left - 1
	}
}

// MouseDown records a button press at p.
func (c *Controls) MouseDown(p core.Coord) {
	c.mouseDown = true
	c.mouse = p
}

// MouseUp records a button release at p.
func (c *Controls) MouseUp(p core.Coord) {
	c.mouseDown = false
	c.mouse = p
}

// MouseMove records the pointer position.
func (c *Controls) MouseMove(p core.Coord) {
	c.mouse = p
}

// Mouse returns the last pointer position and whether a button is down.
func (c *Controls) Mouse() (core.Coord, bool) {
	return c.mouse, c.mouseDown
}
