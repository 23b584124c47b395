package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-stage/internal/storage"
)

const maxSessions = 100

// JournalKeyMap defines the key bindings for the journal browser.
type JournalKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k JournalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k JournalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Back, k.Quit},
	}
}

// DefaultJournalKeyMap returns default key bindings.
func DefaultJournalKeyMap() JournalKeyMap {
	return JournalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open session"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// JournalModel browses recorded sessions and their actions.
type JournalModel struct {
	journal  *storage.Journal
	sessions []storage.Session
	actions  []storage.Entry
	open     string // session being shown, empty for the session list
	table    table.Model
	help     help.Model
	keys     JournalKeyMap
	width    int
	height   int
	err      error
	quitting bool
}

// NewJournalModel creates a journal browser. If session is not empty it
// opens on that session's actions.
func NewJournalModel(j *storage.Journal, session string, width, height int) JournalModel {
	m := JournalModel{
		journal: j,
		keys:    DefaultJournalKeyMap(),
		help:    help.New(),
		width:   width,
		height:  height,
	}
	if session != "" {
		m.openSession(session)
	} else {
		m.loadSessions()
	}
	return m
}

func (m *JournalModel) loadSessions() {
	m.open = ""
	m.sessions, m.err = m.journal.RecentSessions(maxSessions)
	m.table = m.createTable(sessionColumns(m.width))
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		rows[i] = table.Row{
			s.ID[:8],
			s.Host,
			fmt.Sprintf("%d", s.Actions),
			s.StartedAt.Format("Jan 02 15:04:05"),
		}
	}
	m.table.SetRows(rows)
}

func (m *JournalModel) openSession(id string) {
	m.open = id
	m.actions, m.err = m.journal.SessionActions(id)
	m.table = m.createTable(actionColumns(m.width))
	rows := make([]table.Row, len(m.actions))
	for i, e := range m.actions {
		rows[i] = table.Row{
			fmt.Sprintf("%d", e.Seq),
			e.Type,
			e.Payload,
		}
	}
	m.table.SetRows(rows)
}

func sessionColumns(width int) []table.Column {
	return []table.Column{
		{Title: "Session", Width: 10},
		{Title: "Host", Width: max(width-52, 12)},
		{Title: "Actions", Width: 8},
		{Title: "Started", Width: 16},
	}
}

func actionColumns(width int) []table.Column {
	return []table.Column{
		{Title: "Seq", Width: 6},
		{Title: "Type", Width: 24},
		{Title: "Payload", Width: max(width-42, 20)},
	}
}

// createTable creates a new table with the given columns.
func (m *JournalModel) createTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Init initializes the journal model.
func (m JournalModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the journal browser.
func (m JournalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.open == "" {
				m.quitting = true
				return m, tea.Quit
			}
			m.loadSessions()
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.open == "" {
				if i := m.table.Cursor(); i >= 0 && i < len(m.sessions) {
					m.openSession(m.sessions[i].ID)
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.open == "" {
			m.loadSessions()
		} else {
			m.openSession(m.open)
		}
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the journal browser.
func (m JournalModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "ACTION JOURNAL"
	if m.open != "" {
		title = fmt.Sprintf("ACTION JOURNAL - %s", m.open)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m JournalModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return emptyStyle.Render("Could not read the journal:\n" + m.err.Error())
	case m.open == "" && len(m.sessions) == 0:
		return emptyStyle.Render("No sessions recorded yet.\nRun 'stage play --journal' to record one.")
	case m.open != "" && len(m.actions) == 0:
		return emptyStyle.Render("This session recorded no actions.")
	}
	return m.table.View()
}

// Open returns the id of the session being shown, or empty for the list.
func (m JournalModel) Open() string {
	return m.open
}

// centerText pads s so it sits in the middle of width cells.
func centerText(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", (width-w)/2) + s
}

// RunJournal runs the journal browser.
func RunJournal(j *storage.Journal, session string, width, height int) error {
	p := tea.NewProgram(NewJournalModel(j, session, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
