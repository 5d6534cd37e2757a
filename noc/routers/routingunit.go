package routers

import (
	"log"

	"github.com/sarchlab/nocsim/noc/messaging"
)

// The RoutingUnit computes the output port for a packet. It supports
// deterministic XY (and Z) dimension-order routing and weighted
// routing-table lookup; table lookup also serves as the fallback when
// dimension-order routing has no opinion. Route computation has no side
// effects.
type RoutingUnit struct {
	router *Router

	// routingTable[vnet][outport] is the destination set reachable through
	// that port on that virtual network.
	routingTable [][]messaging.NetDest
	weightTable  []int

	inportIdx  map[Direction]int
	outportIdx map[Direction]int
}

func newRoutingUnit(router *Router) *RoutingUnit {
	return &RoutingUnit{
		router:     router,
		inportIdx:  make(map[Direction]int),
		outportIdx: make(map[Direction]int),
	}
}

// AddRoute appends one outport column to the routing table, one destination
// set per virtual network.
func (ru *RoutingUnit) AddRoute(entry []messaging.NetDest) {
	if len(entry) > len(ru.routingTable) {
		grown := make([][]messaging.NetDest, len(entry))
		copy(grown, ru.routingTable)
		ru.routingTable = grown
	}

	for vnet := range entry {
		ru.routingTable[vnet] = append(ru.routingTable[vnet], entry[vnet])
	}
}

// AddWeight records the link weight of the most recently added outport.
func (ru *RoutingUnit) AddWeight(weight int) {
	ru.weightTable = append(ru.weightTable, weight)
}

// AddRouteForPort adds one destination NI to an outport's set on every
// virtual network. Topology files populate tables this way.
func (ru *RoutingUnit) AddRouteForPort(port, destNI int) {
	vnets := ru.router.VNets()
	for len(ru.routingTable) < vnets {
		ru.routingTable = append(ru.routingTable, nil)
	}

	for vnet := 0; vnet < vnets; vnet++ {
		for len(ru.routingTable[vnet]) <= port {
			ru.routingTable[vnet] =
				append(ru.routingTable[vnet], messaging.NetDest{})
		}
		ru.routingTable[vnet][port].Add(destNI)
	}

	for len(ru.weightTable) <= port {
		ru.weightTable = append(ru.weightTable, 1)
	}
}

// AddInDirection registers an input port's direction label.
func (ru *RoutingUnit) AddInDirection(dir Direction, inport int) {
	ru.inportIdx[dir] = inport
}

// AddOutDirection registers an output port's direction label.
func (ru *RoutingUnit) AddOutDirection(dir Direction, outport int) {
	ru.outportIdx[dir] = outport
}

// OutportIndex resolves a direction label to an outport index.
func (ru *RoutingUnit) OutportIndex(dir Direction) (int, bool) {
	idx, ok := ru.outportIdx[dir]
	return idx, ok
}

// OutportCompute picks the output port for a route. Unroutable packets are a
// topology misconfiguration and abort the simulation.
func (ru *RoutingUnit) OutportCompute(
	route messaging.RouteInfo, inport int, inDir Direction,
) int {
	outport := -1
	if ru.router.RoutingAlgorithm() == routingAlgorithmXY {
		outport = ru.outportComputeXY(route)
	}

	if outport == -1 {
		outport = ru.lookupRoutingTable(route.VNet, route.Dest)
	}

	if outport == -1 {
		log.Panicf("router %d: no route from inport %s to NI %d",
			ru.router.ID(), inDir, route.DestNI)
	}

	return outport
}

// outportComputeXY resolves all X hops, then Y, then Z. The destination
// router's coordinates derive from its id and the mesh shape.
func (ru *RoutingUnit) outportComputeXY(route messaging.RouteInfo) int {
	cols := ru.router.MeshCols()
	rows := ru.router.MeshRows()

	destX := route.DestRouter % cols
	destY := (route.DestRouter / cols) % rows
	destZ := route.DestRouter / (cols * rows)

	var dir Direction
	switch {
	case destX > ru.router.X():
		dir = East
	case destX < ru.router.X():
		dir = West
	case destY > ru.router.Y():
		dir = South
	case destY < ru.router.Y():
		dir = North
	case destZ > ru.router.Z():
		dir = Up
	case destZ < ru.router.Z():
		dir = Down
	default:
		dir = Local
	}

	outport, ok := ru.outportIdx[dir]
	if !ok {
		return -1
	}

	return outport
}

// lookupRoutingTable returns the first outport of minimum weight whose
// destination set intersects the packet's destinations, or -1.
func (ru *RoutingUnit) lookupRoutingTable(
	vnet int, dest messaging.NetDest,
) int {
	if vnet >= len(ru.routingTable) {
		return -1
	}

	minWeight := -1
	for port, entry := range ru.routingTable[vnet] {
		if !dest.IntersectsWith(entry) {
			continue
		}

		weight := ru.portWeight(port)
		if minWeight == -1 || weight < minWeight {
			minWeight = weight
		}
	}

	for port, entry := range ru.routingTable[vnet] {
		if dest.IntersectsWith(entry) && ru.portWeight(port) == minWeight {
			return port
		}
	}

	return -1
}

func (ru *RoutingUnit) portWeight(port int) int {
	if port < len(ru.weightTable) {
		return ru.weightTable[port]
	}

	return 1
}
