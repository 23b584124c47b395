package tui

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/metrics"
	"github.com/vovakirdan/tui-stage/internal/storage"
)

func newTestSession(t *testing.T, obs Observers) *Session {
	t.Helper()
	cfg := config.DefaultStageConfig()
	cfg.Player.Palette = []string{"green"}
	s, err := NewSession(cfg, core.RuntimeConfig{ScreenW: 80, ScreenH: 23, TickRate: 60, Seed: 3}, obs)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestModelArrowMovesOnTick(t *testing.T) {
	s := newTestSession(t, Observers{})
	m := NewModel(s.Stage, 60, 80, 24, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, cmd := update(t, m, TickMsg{})
	assert.NotNil(t, cmd, "tick reschedules itself")
	assert.Equal(t, core.C(30.5, 8), s.Stage.Player().Get().Position())
	_ = m
}

func TestModelBlurPausesStage(t *testing.T) {
	s := newTestSession(t, Observers{})
	m := NewModel(s.Stage, 60, 80, 24, nil)

	m, _ = update(t, m, tea.BlurMsg{})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, TickMsg{})
	assert.Equal(t, core.C(30, 8), s.Stage.Player().Get().Position())
	assert.Contains(t, m.View(), "paused")
	rows := strings.Split(stripANSI(m.View()), "\n")
	assert.Contains(t, rows[23/2], strings.TrimSpace(pausedBanner))

	m, _ = update(t, m, tea.FocusMsg{})
	m, _ = update(t, m, TickMsg{})
	assert.Equal(t, core.C(30.5, 8), s.Stage.Player().Get().Position())
	assert.NotContains(t, stripANSI(m.View()), strings.TrimSpace(pausedBanner))
}

func TestModelSpaceAndClickRecolor(t *testing.T) {
	s := newTestSession(t, Observers{})
	m := NewModel(s.Stage, 60, 80, 24, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, core.ColorGreen, s.Stage.Player().Get().FillColor())

	s.Stage.Player().Get().Fill(core.ColorRed)
	update(t, m, tea.MouseMsg{X: 31, Y: 9, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, core.ColorGreen, s.Stage.Player().Get().FillColor())
}

func TestModelSpawnAndDespawn(t *testing.T) {
	s := newTestSession(t, Observers{})
	m := NewModel(s.Stage, 60, 80, 24, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Equal(t, 3, s.Stage.World().Len())
	update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Equal(t, 2, s.Stage.World().Len())
}

func TestModelQuit(t *testing.T) {
	s := newTestSession(t, Observers{})
	m := NewModel(s.Stage, 60, 80, 24, nil)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Quitting())
	assert.Empty(t, m.View())
}

func TestModelViewHeight(t *testing.T) {
	s := newTestSession(t, Observers{})
	m := NewModel(s.Stage, 60, 80, 24, nil)

	assert.Len(t, strings.Split(m.View(), "\n"), 24)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Len(t, strings.Split(m.View(), "\n"), 24, "full help replaces the bottom rows")
}

func TestSessionJournalsAndCounts(t *testing.T) {
	j, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()
	rec, err := j.StartSession("test")
	require.NoError(t, err)

	met := metrics.New()
	s := newTestSession(t, Observers{Journal: rec, Metrics: met})

	s.Stage.Tick()
	s.Stage.Click(core.C(31, 9))

	entries, err := j.SessionActions(rec.Session())
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "[physics] configure", entries[0].Type)
	assert.Contains(t, entries[0].Payload, "0.2")

	families, err := met.Gatherer().Gather()
	require.NoError(t, err)
	names := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				names[mf.GetName()] += c.GetValue()
			} else {
				names[mf.GetName()] += metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, names["stage_frames_total"])
	assert.Equal(t, 1.0, names["stage_clicks_total"])
	assert.Equal(t, 1.0, names["stage_sessions_active"])
	assert.Equal(t, float64(len(entries)), names["stage_actions_total"])

	s.Close()
	s.Close()
	families, _ = met.Gatherer().Gather()
	for _, mf := range families {
		if mf.GetName() == "stage_sessions_active" {
			assert.Equal(t, 0.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestSessionCloseFromManyGoroutines(t *testing.T) {
	met := metrics.New()
	s := newTestSession(t, Observers{Metrics: met})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Close()
		}()
	}
	wg.Wait()

	families, err := met.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "stage_sessions_active" {
			assert.Equal(t, 0.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestKeyMapStageKey(t *testing.T) {
	k := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Key
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.KeyUp},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, core.KeyLeft},
		{tea.KeyMsg{Type: tea.KeySpace}, core.KeySpace},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.KeyEnter},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, core.KeyNone},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, k.StageKey(tc.msg), tc.msg.String())
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab", core.ColorRed)
	s.DrawText(2, 0, "cd", core.ColorSky)

	out := RenderScreen(s)
	assert.Len(t, strings.Split(out, "\n"), 2)
	assert.Contains(t, stripANSI(out), "abcd")
}

// stripANSI drops CSI escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
