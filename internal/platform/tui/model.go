package tui

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/sandbox"
)

const pausedBanner = " paused: focus the terminal to resume "

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model hosting one stage.
type Model struct {
	stage    *sandbox.Sandbox
	keys     KeyMap
	help     help.Model
	tickRate int
	width    int
	height   int
	logger   *log.Logger
	quitting bool
}

// NewModel creates a model for stage. The terminal is width x height; the
// stage takes all rows but the last, which holds the status bar.
func NewModel(stage *sandbox.Sandbox, tickRate, width, height int, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := help.New()
	h.Width = width
	return Model{
		stage:    stage,
		keys:     DefaultKeyMap(),
		help:     h,
		tickRate: tickRate,
		width:    width,
		height:   height,
		logger:   logger,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.FocusMsg:
		m.stage.SetVisible(true)
		return m, nil

	case tea.BlurMsg:
		m.stage.SetVisible(false)
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.stage.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.stage.Tick()
		return m, tickCmd(m.tickRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Spawn):
		if id, err := m.stage.Spawn(); err != nil {
			m.logger.Warn("spawn failed", "error", err)
		} else {
			m.logger.Debug("node spawned", "id", id)
		}
		return m, nil

	case key.Matches(msg, m.keys.Despawn):
		if err := m.stage.Despawn(); err != nil {
			m.logger.Debug("despawn skipped", "error", err)
		}
		return m, nil
	}

	if k := m.keys.StageKey(msg); k != core.KeyNone {
		m.stage.Press(k)
	}
	return m, nil
}

// handleMouse converts a terminal cell to the stage point at its center.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	at := core.C(float64(msg.X)+0.5, float64(msg.Y)+0.5)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.stage.MouseDown(at)
		}
	case tea.MouseActionRelease:
		m.stage.MouseUp(at)
	case tea.MouseActionMotion:
		m.stage.MouseMove(at)
	}
	return m, nil
}

// View renders the stage with the status bar, or the help over its bottom rows.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	screen := m.stage.Render()
	if !m.stage.Status().Visible {
		screen.DrawTextCentered(screen.Height()/2, pausedBanner, core.ColorWhite)
	}
	rows := strings.Split(RenderScreen(screen), "\n")
	footer := RenderStatus(m.stage.Status(), m.width)
	if m.help.ShowAll {
		footer = helpStyle.Render(m.help.View(m.keys))
	}
	footerRows := strings.Split(footer, "\n")
	if cut := len(footerRows) - 1; cut > 0 && cut < len(rows) {
		rows = rows[:len(rows)-cut]
	}
	return strings.Join(append(rows, footerRows...), "\n")
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

// ProgramOptions are the Bubble Tea options a stage needs.
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks and drags arrive as cell coordinates
		tea.WithReportFocus(),     // Focus loss pauses the clock
	}
}

// Run starts the Bubble Tea program for session.
func Run(session *Session, tickRate, width, height int, logger *log.Logger) error {
	model := NewModel(session.Stage, tickRate, width, height, logger)
	p := tea.NewProgram(model, ProgramOptions()...)
	_, err := p.Run()
	return err
}
