package state

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/signal"
)

// Store holds the current snapshot and applies dispatched actions.
//
// A Store is driven from one goroutine. Dispatch may be called again from a
// bus subscriber; the nested dispatch sees the state committed by the outer
// one.
type Store struct {
	reducers *Registry
	bus      *Bus
	current  *signal.Latest[*GameState]
	commits  signal.Subject[Action]
	logger   *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes store diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithBus makes the store publish on b instead of a private bus.
func WithBus(b *Bus) Option {
	return func(s *Store) { s.bus = b }
}

// WithReducers makes the store apply the reducers in r.
func WithReducers(r *Registry) Option {
	return func(s *Store) { s.reducers = r }
}

// NewStore creates a store holding initial.
func NewStore(initial GameState, opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.bus == nil {
		s.bus = NewBus(s.logger)
	}
	if s.reducers == nil {
		s.reducers = NewRegistry()
	}
	if initial.Parents == nil {
		initial.Parents = map[NodeID]NodeID{}
	}
	if initial.Children == nil {
		initial.Children = map[NodeID][]NodeID{}
	}
	s.current = signal.NewLatest(&initial)
	return s
}

// Reducers returns the registry the store applies.
func (s *Store) Reducers() *Registry { return s.reducers }

// Bus returns the bus every dispatched action is published on.
func (s *Store) Bus() *Bus { return s.bus }

// State returns the current snapshot. The pointer changes only when a
// dispatch actually changed something.
func (s *Store) State() *GameState { return s.current.Value() }

// Subscribe calls fn with the current snapshot now and with every new
// snapshot after that.
func (s *Store) Subscribe(fn func(*GameState)) signal.Subscription {
	return s.current.Subscribe(fn)
}

// OnCommit calls fn for every action whose reducers succeeded, before the
// new snapshot or the action reaches any other subscriber. State still
// returns the previous snapshot while fn runs. Bookkeeping derived from the
// state, such as node indices, is rebased here.
func (s *Store) OnCommit(fn func(Action)) signal.Subscription {
	return s.commits.Subscribe(fn)
}

// Dispatch applies every reducer registered for a's type, in registration
// order, each one seeing the result of the previous one. A new snapshot is
// published only if some reducer changed its subtree. The action is then
// published on the bus, whether or not any reducer exists for it.
//
// If a reducer fails, nothing is committed, the action is not published
// and the error is returned.
func (s *Store) Dispatch(a Action) error {
	entries := s.reducers.lookup(a.Type())
	if len(entries) > 0 {
		cur := s.current.Value()
		draft := *cur
		changed := false
		for _, e := range entries {
			before := draft
			ok, err := e.apply(&before, &draft, a)
			if err != nil {
				s.logger.Error("reducer failed", "type", a.Type(), "path", e.path, "error", err)
				return fmt.Errorf("state: dispatch %q: %w", a.Type(), err)
			}
			changed = changed || ok
		}
		s.commits.Emit(a)
		if changed {
			next := draft
			s.current.Set(&next)
		}
		s.logger.Debug("dispatch", "type", a.Type(), "reducers", len(entries), "changed", changed)
	} else {
		s.commits.Emit(a)
		s.logger.Debug("dispatch", "type", a.Type(), "reducers", 0)
	}
	s.bus.Publish(a)
	return nil
}
