package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/shape"
	"github.com/vovakirdan/tui-stage/internal/state"
	"github.com/vovakirdan/tui-stage/internal/world"
)

func newScene(t *testing.T) (*Scene, *state.Store) {
	t.Helper()
	store := state.NewStore(state.InitialState())
	return New(store), store
}

func TestAddPublishesSnapshot(t *testing.T) {
	sc, store := newScene(t)
	before := store.State()
	var seen []string
	store.Bus().Subscribe(func(a state.Action) { seen = append(seen, a.Type()) })

	s := shape.New().Square(3, 3)
	n, err := sc.Add(s, "sky")
	require.NoError(t, err)

	assert.NotSame(t, before, store.State())
	assert.Empty(t, before.Scene)
	assert.Same(t, s, n.Get())
	assert.Equal(t, []string{AddShape.Type()}, seen)
	assert.Same(t, n, sc.ObjectByTag("sky"))
}

func TestNewRegistersReducersOnce(t *testing.T) {
	store := state.NewStore(state.InitialState())
	New(store)
	sc := New(store)

	_, err := sc.Add(shape.New())
	require.NoError(t, err)
	assert.Len(t, store.State().Scene, 1)
}

func TestRemoveKeepsOtherNodesIntact(t *testing.T) {
	sc, store := newScene(t)
	var nodes []*Node
	var shapes []*shape.Shape
	for i := 0; i < 4; i++ {
		s := shape.New().Square(1, 1).At(float64(i), 0)
		n, err := sc.Add(s, "scene")
		require.NoError(t, err)
		nodes = append(nodes, n)
		shapes = append(shapes, s)
	}

	var gone *shape.Shape
	nodes[1].OnRemove(func(s *shape.Shape) { gone = s })
	require.NoError(t, nodes[1].Remove())

	assert.Same(t, shapes[1], gone)
	for _, i := range []int{0, 2, 3} {
		assert.Same(t, shapes[i], nodes[i].Get())
	}
	assert.Len(t, store.State().Scene, 3)
	assert.Len(t, sc.ObjectsByTag("scene"), 3)

	assert.ErrorIs(t, nodes[1].Remove(), ErrRemoved)
	assert.Panics(t, func() { nodes[1].Get() })
}

func TestSurvivorsResolveDuringRemoveBroadcast(t *testing.T) {
	sc, store := newScene(t)
	a, err := sc.Add(shape.New().Square(1, 1), "scene")
	require.NoError(t, err)
	bShape := shape.New().Square(1, 1).At(2, 0)
	b, err := sc.Add(bShape, "scene")
	require.NoError(t, err)

	var onBus, onState *shape.Shape
	state.OfType(store.Bus(), RemoveShape, func(*shape.Shape) { onBus = b.Get() })
	sub := store.Subscribe(func(*state.GameState) {
		if b.Index() < len(store.State().Scene) {
			onState = b.Get()
		}
	})
	defer sub.Unsubscribe()
	onState = nil

	require.NoError(t, a.Remove())

	assert.Same(t, bShape, onBus)
	assert.Same(t, bShape, onState)
	assert.Equal(t, 0, b.Index())
}

func TestRemoveUnknownShapeFails(t *testing.T) {
	_, store := newScene(t)
	err := store.Dispatch(RemoveShape.New(shape.New()))
	assert.ErrorIs(t, err, ErrRemoved)
}

func TestClickAndCollisions(t *testing.T) {
	sc, _ := newScene(t)
	sky, err := sc.Add(shape.New().Square(40, 20).MoveToLayer(-1), "background")
	require.NoError(t, err)
	ground, err := sc.Add(shape.New().Square(40, 2).At(0, 18).AddHitbox(), "ground")
	require.NoError(t, err)

	var skyHits, groundHits int
	sky.OnClick(func(*shape.Shape) { skyHits++ })
	ground.OnClick(func(*shape.Shape) { groundHits++ })

	assert.True(t, sc.Click(core.C(5, 19)))
	assert.True(t, sc.Click(core.C(5, 5)))
	assert.False(t, sc.Click(core.C(100, 100)))
	assert.Equal(t, 1, skyHits)
	assert.Equal(t, 1, groundHits)

	player := shape.New().Square(4, 4).At(2, 16).AddHitbox()
	cs := sc.Collisions(player)
	require.Len(t, cs, 1)
	assert.Same(t, ground.Get(), cs[0].Target)
	assert.Equal(t, world.Top, cs[0].Vertical)
	assert.Empty(t, ground.Collisions())

	require.NoError(t, ground.Remove())
	sc.Route(world.ClickEvent{Shape: shape.New(), At: core.C(5, 19)})
	assert.Equal(t, 1, groundHits)
}
