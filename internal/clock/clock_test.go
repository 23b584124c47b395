package clock

import (
	"testing"
	"time"
)

func TestTickSkipsWhileHidden(t *testing.T) {
	c := New()
	var got []uint64
	c.OnFrame(func(f uint64) { got = append(got, f) })

	c.Tick()
	c.SetVisible(false)
	if c.Tick() {
		t.Error("Tick should report false while hidden")
	}
	c.SetVisible(true)
	c.Tick()

	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("frames = %v, expected [1 3]", got)
	}
	if c.Frame() != 3 || c.Skipped() != 1 {
		t.Errorf("Frame() = %d, Skipped() = %d", c.Frame(), c.Skipped())
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		fps      int
		expected time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
		{-5, time.Second / 60},
	}

	for _, tc := range tests {
		if got := Interval(tc.fps); got != tc.expected {
			t.Errorf("Interval(%d) = %v, expected %v", tc.fps, got, tc.expected)
		}
	}
}
