package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarchlab/nocsim/sim"
)

func flitAt(packetID, index int, t sim.Cycle) *Flit {
	f := NewFlit(packetID, index, 0, 0, RouteInfo{}, 4, 16, t)
	return f
}

func TestBufferOrdersByTime(t *testing.T) {
	b := NewFlitBuffer()

	late := flitAt(0, 0, 9)
	early := flitAt(1, 0, 2)

	b.Insert(late)
	b.Insert(early)

	assert.Same(t, early, b.Pop())
	assert.Same(t, late, b.Pop())
	assert.True(t, b.Empty())
}

func TestBufferBreaksTimeTiesByPacketIndex(t *testing.T) {
	b := NewFlitBuffer()

	second := flitAt(7, 1, 5)
	first := flitAt(7, 0, 5)

	b.Insert(second)
	b.Insert(first)

	assert.Same(t, first, b.Pop())
	assert.Same(t, second, b.Pop())
}

func TestBufferIsReady(t *testing.T) {
	b := NewFlitBuffer()

	assert.False(t, b.IsReady(100))

	b.Insert(flitAt(0, 0, 6))

	assert.False(t, b.IsReady(5))
	assert.True(t, b.IsReady(6))
	assert.True(t, b.IsReady(7))
}

func TestBufferKeepsInsertionOrderOnFullTies(t *testing.T) {
	b := NewCreditBuffer()

	c1 := NewCredit(3, false, 4)
	c2 := NewCredit(1, true, 4)

	b.Insert(c1)
	b.Insert(c2)

	assert.Same(t, c1, b.Pop())
	assert.Same(t, c2, b.Pop())
}

func TestFlitTypeFromPosition(t *testing.T) {
	assert.Equal(t, HeadTail, NewFlit(0, 0, 0, 0, RouteInfo{}, 1, 16, 0).Type)
	assert.Equal(t, Head, NewFlit(0, 0, 0, 0, RouteInfo{}, 3, 16, 0).Type)
	assert.Equal(t, Body, NewFlit(0, 1, 0, 0, RouteInfo{}, 3, 16, 0).Type)
	assert.Equal(t, Tail, NewFlit(0, 2, 0, 0, RouteInfo{}, 3, 16, 0).Type)
}

func TestFlitStage(t *testing.T) {
	f := flitAt(0, 0, 0)

	f.AdvanceStage(StageSA, 4)

	assert.False(t, f.IsStage(StageSA, 3))
	assert.True(t, f.IsStage(StageSA, 4))
	assert.True(t, f.IsStage(StageSA, 10))
	assert.False(t, f.IsStage(StageST, 4))
}

func TestNetDest(t *testing.T) {
	var a, b NetDest

	a.Add(3)
	a.Add(130)
	b.Add(130)

	assert.True(t, a.Contains(3))
	assert.False(t, a.Contains(4))
	assert.True(t, a.IntersectsWith(b))
	assert.False(t, b.IntersectsWith(NetDest{}))
	assert.True(t, NetDest{}.Empty())
	assert.False(t, a.Empty())
}
