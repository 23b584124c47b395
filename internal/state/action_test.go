package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatorPrepareAndMatch(t *testing.T) {
	next := NodeID(0)
	add := NewActionWith("[test] add", func(ref NodeRef) NodeRef {
		next++
		ref.ID = next
		return ref
	})
	other := NewAction[NodeRef]("[test] other")

	a := add.New(NodeRef{Code: "probe"})
	b := add.New(NodeRef{Code: "probe"})

	assert.Equal(t, "[test] add", a.Type())
	assert.Equal(t, NodeID(1), a.Payload.ID)
	assert.Equal(t, NodeID(2), b.Payload.ID)

	p, ok := add.Match(a)
	require.True(t, ok)
	assert.Equal(t, "probe", p.Code)

	_, ok = other.Match(a)
	assert.False(t, ok, "different type must not match")
	_, ok = add.Match(nil)
	assert.False(t, ok)
}

func TestBusIsolatesPanickingSubscriber(t *testing.T) {
	bus := NewBus(nil)
	ping := NewAction[int]("[test] ping")

	var got []int
	bus.Subscribe(func(Action) { panic("first subscriber breaks") })
	OfType(bus, ping, func(v int) { got = append(got, v) })
	OfType(bus, NewAction[int]("[test] pong"), func(int) { t.Error("pong subscriber must not see ping") })

	assert.NotPanics(t, func() { bus.Publish(ping.New(7)) })
	assert.Equal(t, []int{7}, got)
}

func TestBusLateSubscriberMissesActions(t *testing.T) {
	bus := NewBus(nil)
	ping := NewAction[int]("[test] ping")
	bus.Publish(ping.New(1))

	var got []int
	OfType(bus, ping, func(v int) { got = append(got, v) })
	bus.Publish(ping.New(2))

	assert.Equal(t, []int{2}, got)
}

type bareAction string

func (b bareAction) Type() string { return string(b) }

func TestPayloadOf(t *testing.T) {
	ping := NewAction[int]("[test] ping")
	assert.Equal(t, 3, PayloadOf(ping.New(3)))
	assert.Nil(t, PayloadOf(bareAction("[test] bare")))
}
