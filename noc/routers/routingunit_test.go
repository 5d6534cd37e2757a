package routers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarchlab/nocsim/network"
	"github.com/sarchlab/nocsim/noc/messaging"
)

func testRouter(t *testing.T, id, x, y, z int) *Router {
	t.Helper()

	cfg := network.DefaultConfig()
	cfg.Rows = 2
	cfg.Cols = 2
	cfg.Depth = 2
	net := network.New(cfg)

	return NewRouter(Params{
		ID: id, X: x, Y: y, Z: z, Latency: 1, Network: net,
	})
}

func routeTo(destRouter, destNI int) messaging.RouteInfo {
	route := messaging.RouteInfo{
		DestRouter: destRouter,
		DestNI:     destNI,
		Hops:       -1,
	}
	route.Dest.Add(destNI)

	return route
}

func TestXYResolvesXBeforeYBeforeZ(t *testing.T) {
	r := testRouter(t, 0, 0, 0, 0)
	ru := r.routingUnit
	ru.AddOutDirection(Local, 0)
	ru.AddOutDirection(East, 1)
	ru.AddOutDirection(South, 2)
	ru.AddOutDirection(Up, 3)

	// Router 3 sits at (1, 1, 0): X differs, so East wins over South.
	assert.Equal(t, 1, ru.outportComputeXY(routeTo(3, 3)))

	// Router 2 sits at (0, 1, 0): only Y differs.
	assert.Equal(t, 2, ru.outportComputeXY(routeTo(2, 2)))

	// Router 4 sits at (0, 0, 1): only Z differs.
	assert.Equal(t, 3, ru.outportComputeXY(routeTo(4, 4)))

	// Destination is this router.
	assert.Equal(t, 0, ru.outportComputeXY(routeTo(0, 0)))
}

func TestXYReturnsNoRouteWithoutThePort(t *testing.T) {
	r := testRouter(t, 0, 0, 0, 0)
	ru := r.routingUnit
	ru.AddOutDirection(Local, 0)

	assert.Equal(t, -1, ru.outportComputeXY(routeTo(3, 3)))
}

func TestTableLookupPicksMinimumWeight(t *testing.T) {
	r := testRouter(t, 0, 0, 0, 0)
	ru := r.routingUnit

	var toNI5 messaging.NetDest
	toNI5.Add(5)

	// Two ports reach NI 5; the second is cheaper.
	ru.AddRoute([]messaging.NetDest{toNI5, toNI5})
	ru.AddWeight(3)
	ru.AddRoute([]messaging.NetDest{toNI5, toNI5})
	ru.AddWeight(1)

	var dest messaging.NetDest
	dest.Add(5)

	assert.Equal(t, 1, ru.lookupRoutingTable(0, dest))
}

func TestTableLookupBreaksWeightTiesFirstListed(t *testing.T) {
	r := testRouter(t, 0, 0, 0, 0)
	ru := r.routingUnit

	var toNI2 messaging.NetDest
	toNI2.Add(2)

	ru.AddRoute([]messaging.NetDest{toNI2, toNI2})
	ru.AddWeight(1)
	ru.AddRoute([]messaging.NetDest{toNI2, toNI2})
	ru.AddWeight(1)

	var dest messaging.NetDest
	dest.Add(2)

	assert.Equal(t, 0, ru.lookupRoutingTable(0, dest))
}

func TestTableLookupMissesReturnMinusOne(t *testing.T) {
	r := testRouter(t, 0, 0, 0, 0)
	ru := r.routingUnit

	ru.AddRouteForPort(0, 1)

	var dest messaging.NetDest
	dest.Add(9)

	assert.Equal(t, -1, ru.lookupRoutingTable(0, dest))
	assert.Equal(t, -1, ru.lookupRoutingTable(5, dest))
}

func TestAddRouteForPortPopulatesAllVNets(t *testing.T) {
	r := testRouter(t, 0, 0, 0, 0)
	ru := r.routingUnit

	ru.AddRouteForPort(1, 7)

	var dest messaging.NetDest
	dest.Add(7)

	for vnet := 0; vnet < r.VNets(); vnet++ {
		assert.Equal(t, 1, ru.lookupRoutingTable(vnet, dest))
	}
}

func TestDirectionInterning(t *testing.T) {
	assert.Equal(t, East, DirectionByName("East"))
	assert.Equal(t, "South", South.String())

	custom := DirectionByName("RingCW")
	assert.Equal(t, custom, DirectionByName("RingCW"))
	assert.NotEqual(t, custom, DirectionByName("RingCCW"))
	assert.Equal(t, "RingCW", custom.String())
}

func TestOutVCStateCreditBounds(t *testing.T) {
	s := NewOutVCState(2)

	assert.True(t, s.HasCredit())
	s.DecrementCredit()
	s.DecrementCredit()
	assert.False(t, s.HasCredit())
	assert.Panics(t, func() { s.DecrementCredit() })

	s.IncrementCredit()
	s.IncrementCredit()
	assert.Panics(t, func() { s.IncrementCredit() })
}
