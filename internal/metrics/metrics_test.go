package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m *Metrics, name string, label string) float64 {
	t.Helper()
	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			matched := label == ""
			for _, lp := range metric.GetLabel() {
				if lp.GetValue() == label {
					matched = true
				}
			}
			if !matched {
				continue
			}
			if c := metric.GetCounter(); c != nil {
				return c.GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

func TestCounters(t *testing.T) {
	m := New()
	m.Action("[scene node] add node")
	m.Action("[scene node] add node")
	m.Action("[node] add node")
	m.Frame()
	m.Click()
	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded()

	assert.Equal(t, 2.0, value(t, m, "stage_actions_total", "[scene node] add node"))
	assert.Equal(t, 1.0, value(t, m, "stage_actions_total", "[node] add node"))
	assert.Equal(t, 1.0, value(t, m, "stage_frames_total", ""))
	assert.Equal(t, 1.0, value(t, m, "stage_clicks_total", ""))
	assert.Equal(t, 1.0, value(t, m, "stage_sessions_active", ""))
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Frame()
	assert.Equal(t, 1.0, value(t, a, "stage_frames_total", ""))
	assert.Equal(t, 0.0, value(t, b, "stage_frames_total", ""))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Click()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), "stage_clicks_total 1"), string(body))
}
