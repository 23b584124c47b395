// Package clock is the stage's frame source. The host calls Tick once per
// display frame; subscribers run only while the stage is visible.
package clock

import (
	"time"

	"github.com/vovakirdan/tui-stage/internal/signal"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

// Clock counts frames and fans them out to subscribers.
type Clock struct {
	frame   uint64
	hidden  bool
	frames  signal.Subject[uint64]
	skipped uint64
}

// New creates a visible clock at frame zero.
func New() *Clock {
	return &Clock{}
}

// Tick advances one frame. Subscribers are notified unless the clock is
// hidden; it reports whether they were.
func (c *Clock) Tick() bool {
	c.frame++
	if c.hidden {
		c.skipped++
		return false
	}
	c.frames.Emit(c.frame)
	return true
}

// SetVisible toggles emission. A hidden clock still counts frames.
func (c *Clock) SetVisible(visible bool) {
	c.hidden = !visible
}

// Visible reports whether ticks reach subscribers.
func (c *Clock) Visible() bool { return !c.hidden }

// Frame returns the number of ticks so far.
func (c *Clock) Frame() uint64 { return c.frame }

// Skipped returns the number of ticks swallowed while hidden.
func (c *Clock) Skipped() uint64 { return c.skipped }

// OnFrame subscribes fn to visible ticks.
func (c *Clock) OnFrame(fn func(frame uint64)) signal.Subscription {
	return c.frames.Subscribe(fn)
}

// Interval converts a frame rate to a tick period.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
