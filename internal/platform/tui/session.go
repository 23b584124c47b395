package tui

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/metrics"
	"github.com/vovakirdan/tui-stage/internal/sandbox"
	"github.com/vovakirdan/tui-stage/internal/signal"
	"github.com/vovakirdan/tui-stage/internal/state"
	"github.com/vovakirdan/tui-stage/internal/storage"
	"github.com/vovakirdan/tui-stage/internal/world"
)

// Observers are the optional sinks a hosted stage reports to.
type Observers struct {
	Journal *storage.Recorder
	Metrics *metrics.Metrics
	Logger  *log.Logger
}

// Session is one hosted stage with its observers attached.
type Session struct {
	Stage  *sandbox.Sandbox
	obs    Observers
	subs   signal.Group
	close  sync.Once
}

// NewSession builds a stage and wires obs to it. Observers are attached
// before the stage is built, so the journal holds every action from the
// first one.
func NewSession(cfg config.StageConfig, rt core.RuntimeConfig, obs Observers) (*Session, error) {
	if obs.Logger == nil {
		obs.Logger = log.New(io.Discard)
	}
	s := &Session{obs: obs}

	bus := state.NewBus(obs.Logger.WithPrefix("bus"))
	s.subs.Add(bus.Subscribe(s.onAction))

	stage, err := sandbox.New(cfg, rt, sandbox.WithBus(bus), sandbox.WithLogger(obs.Logger))
	if err != nil {
		s.subs.Unsubscribe()
		return nil, err
	}
	s.Stage = stage

	if m := obs.Metrics; m != nil {
		s.subs.Add(
			stage.Clock().OnFrame(func(uint64) { m.Frame() }),
			stage.OnClick(func(world.ClickEvent) { m.Click() }),
		)
		m.SessionStarted()
	}
	return s, nil
}

func (s *Session) onAction(a state.Action) {
	if s.obs.Metrics != nil {
		s.obs.Metrics.Action(a.Type())
	}
	if s.obs.Journal != nil {
		if err := s.obs.Journal.Record(a.Type(), state.PayloadOf(a)); err != nil {
			s.obs.Logger.Warn("journal write failed", "type", a.Type(), "error", err)
		}
	}
}

// Close detaches the observers and stops the stage. It may be called more
// than once, from any goroutine.
func (s *Session) Close() {
	s.close.Do(func() {
		s.subs.Unsubscribe()
		s.Stage.Close()
		if s.obs.Metrics != nil {
			s.obs.Metrics.SessionEnded()
		}
	})
}
