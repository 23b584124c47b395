// Package tui hosts a stage in Bubble Tea: the frame loop, key and mouse
// input, focus tracking, and rendering of the cell buffer.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-stage/internal/clock"
)

// TickMsg is sent once per display frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(clock.Interval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
