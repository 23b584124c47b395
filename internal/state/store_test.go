package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-stage/internal/shape"
)

var (
	bump   = NewAction[float64]("[test] bump")
	noop   = NewAction[Empty]("[test] noop")
	fail   = NewAction[Empty]("[test] fail")
	attach = NewAction[NodeRef]("[test] attach")
)

func newTestStore(t *testing.T, initial GameState) (*Store, *[]string) {
	t.Helper()
	s := NewStore(initial)
	var seen []string
	s.Bus().Subscribe(func(a Action) { seen = append(seen, a.Type()) })
	return s, &seen
}

func TestDispatchWithoutReducersKeepsSnapshot(t *testing.T) {
	s, seen := newTestStore(t, InitialState())
	before := s.State()

	require.NoError(t, s.Dispatch(noop.New(Empty{})))

	assert.Same(t, before, s.State())
	assert.Equal(t, []string{noop.Type()}, *seen)
}

func TestReducersComposeInOrder(t *testing.T) {
	initial := InitialState()
	initial.Physics.Gravity = 1
	s, _ := newTestStore(t, initial)

	ReduceHere(s.Reducers(), PhysicsPath).
		On(When(bump, func(p *Physics, by float64) error {
			p.Gravity += by
			return nil
		})).
		On(When(bump, func(p *Physics, _ float64) error {
			p.Gravity *= 2
			return nil
		}))

	require.NoError(t, s.Dispatch(bump.New(1)))

	assert.Equal(t, 4.0, s.State().Physics.Gravity)
	assert.Equal(t, []string{"physics", "physics"}, s.Reducers().Paths(bump.Type()))
}

func TestUnchangedDraftPublishesNoSnapshot(t *testing.T) {
	s, seen := newTestStore(t, InitialState())
	ReduceHere(s.Reducers(), NodesPath).
		On(When(noop, func(*[]NodeRef, Empty) error { return nil }))

	snapshots := 0
	s.Subscribe(func(*GameState) { snapshots++ })
	before := s.State()

	require.NoError(t, s.Dispatch(noop.New(Empty{})))

	assert.Same(t, before, s.State())
	assert.Equal(t, 1, snapshots, "only the replay on subscribe")
	assert.Equal(t, []string{noop.Type()}, *seen, "action is broadcast even without a change")
}

func TestPreviousSnapshotIsNotMutated(t *testing.T) {
	s, _ := newTestStore(t, InitialState())
	ReduceHere(s.Reducers(), RootPath).
		On(When(attach, func(g *GameState, ref NodeRef) error {
			g.Nodes = append(g.Nodes, ref)
			g.Children[0] = append(g.Children[0], ref.ID)
			return nil
		}))

	first := s.State()
	require.NoError(t, s.Dispatch(attach.New(NodeRef{ID: 1, Code: "root"})))
	second := s.State()
	require.NoError(t, s.Dispatch(attach.New(NodeRef{ID: 2, Code: "probe"})))

	assert.NotSame(t, first, second)
	assert.Empty(t, first.Nodes)
	assert.Empty(t, first.Children)
	assert.Len(t, second.Nodes, 1)
	assert.Equal(t, []NodeID{1}, second.Children[0])
	assert.Len(t, s.State().Nodes, 2)
}

func TestFailingReducerAbortsDispatch(t *testing.T) {
	s, seen := newTestStore(t, InitialState())
	boom := errors.New("boom")
	ReduceHere(s.Reducers(), PhysicsPath).
		On(When(fail, func(p *Physics, _ Empty) error {
			p.Gravity = 100
			return nil
		})).
		On(When(fail, func(*Physics, Empty) error { return boom }))

	before := s.State()
	err := s.Dispatch(fail.New(Empty{}))

	require.ErrorIs(t, err, boom)
	assert.Same(t, before, s.State())
	assert.Equal(t, DefaultPhysics().Gravity, s.State().Physics.Gravity)
	assert.Empty(t, *seen)
}

func TestUnresolvedPathFails(t *testing.T) {
	s, _ := newTestStore(t, InitialState())
	firstScene := Child(ScenePath, "0", func(scene *[]*shape.Shape) *shape.Shape {
		if len(*scene) == 0 {
			return nil
		}
		return (*scene)[0]
	})
	ReduceHere(s.Reducers(), firstScene).
		On(When(noop, func(*shape.Shape, Empty) error { return nil }))

	err := s.Dispatch(noop.New(Empty{}))
	require.ErrorIs(t, err, ErrUnknownPath)
	assert.Contains(t, err.Error(), "scene.0")
}

func TestOnCommitRunsBeforeSubscribers(t *testing.T) {
	s := NewStore(InitialState())
	ReduceHere(s.Reducers(), PhysicsPath).
		On(When(bump, func(p *Physics, by float64) error {
			p.Gravity += by
			return nil
		})).
		On(When(fail, func(*Physics, Empty) error { return errors.New("boom") }))
	before := s.State()

	var order []string
	sawPrevious := false
	s.OnCommit(func(a Action) {
		order = append(order, "commit "+a.Type())
		if a.Type() == bump.Type() {
			sawPrevious = s.State() == before
		}
	})
	s.Subscribe(func(*GameState) { order = append(order, "state") })
	s.Bus().Subscribe(func(a Action) { order = append(order, "bus "+a.Type()) })
	order = nil

	require.NoError(t, s.Dispatch(bump.New(1)))
	require.NoError(t, s.Dispatch(noop.New(Empty{})))
	require.Error(t, s.Dispatch(fail.New(Empty{})))

	assert.True(t, sawPrevious)
	assert.Equal(t, []string{
		"commit " + bump.Type(), "state", "bus " + bump.Type(),
		"commit " + noop.Type(), "bus " + noop.Type(),
	}, order)
}

func TestConfigurePhysics(t *testing.T) {
	s, _ := newTestStore(t, InitialState())
	RegisterPhysics(s.Reducers())

	want := Physics{Gravity: 1, Drag: 0.5, GroundDrag: 0.25}
	require.NoError(t, s.Dispatch(ConfigurePhysics.New(want)))

	assert.Equal(t, want, s.State().Physics)
	assert.Contains(t, s.Reducers().Types(), ConfigurePhysics.Type())
}

func TestSubscribeReplaysCurrent(t *testing.T) {
	s, _ := newTestStore(t, InitialState())
	RegisterPhysics(s.Reducers())

	var got []*GameState
	sub := s.Subscribe(func(g *GameState) { got = append(got, g) })
	require.NoError(t, s.Dispatch(ConfigurePhysics.New(Physics{Gravity: 9})))
	sub.Unsubscribe()
	require.NoError(t, s.Dispatch(ConfigurePhysics.New(Physics{Gravity: 3})))

	require.Len(t, got, 2)
	assert.Equal(t, DefaultPhysics(), got[0].Physics)
	assert.Equal(t, 9.0, got[1].Physics.Gravity)
}

func TestAncestors(t *testing.T) {
	g := InitialState()
	g.Parents[3] = 2
	g.Parents[2] = 1

	assert.Equal(t, []NodeID{2, 1}, g.Ancestors(3))
	assert.Empty(t, g.Ancestors(1))
}
