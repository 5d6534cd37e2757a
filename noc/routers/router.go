package routers

import (
	"fmt"
	"io"

	"github.com/sarchlab/nocsim/faultmodel"
	"github.com/sarchlab/nocsim/network"
	"github.com/sarchlab/nocsim/noc/links"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

const routingAlgorithmXY = network.RoutingXY

// baselineTemperature is the temperature the fault-model report uses.
const baselineTemperature = 71

// Params configures one router.
type Params struct {
	ID      int
	X, Y, Z int
	Latency sim.Cycle
	Network *network.Network
}

// A Router aggregates the per-port input and output units with the shared
// routing unit, switch allocator, and crossbar. One wakeup runs one router
// cycle: input units, output units, allocation, traversal, in that order.
type Router struct {
	net     *network.Network
	id      int
	x, y, z int
	latency sim.Cycle

	vnets      int
	vcsPerVNet int
	numVCs     int

	routingUnit     *RoutingUnit
	switchAllocator *SwitchAllocator
	crossbar        *CrossbarSwitch
	inputUnits      []*InputUnit
	outputUnits     []*OutputUnit

	faultID int

	lastWakeup sim.Cycle
	hasWoken   bool
}

// NewRouter creates a router. Ports are added afterwards; call Init once all
// ports are in place.
func NewRouter(p Params) *Router {
	cfg := p.Network.Config()

	r := &Router{
		net:        p.Network,
		id:         p.ID,
		x:          p.X,
		y:          p.Y,
		z:          p.Z,
		latency:    p.Latency,
		vnets:      cfg.VNets,
		vcsPerVNet: cfg.VCsPerVNet,
		numVCs:     cfg.NumVCs(),
		faultID:    -1,
	}

	r.routingUnit = newRoutingUnit(r)
	r.switchAllocator = newSwitchAllocator(r)
	r.crossbar = newCrossbarSwitch(r)

	return r
}

// AddInPort attaches an incoming flit link and the matching upstream-bound
// credit link, creating the port's input unit.
func (r *Router) AddInPort(
	dir Direction,
	inLink *links.NetworkLink,
	creditLink *links.CreditLink,
) {
	port := len(r.inputUnits)
	iu := newInputUnit(r, port, dir)
	iu.inLink = inLink
	iu.creditLink = creditLink

	inLink.SetConsumer(r)
	inLink.SetVCsPerVNet(r.vcsPerVNet)
	creditLink.SetSourceQueue(iu.creditQueue)
	creditLink.SetVCsPerVNet(r.vcsPerVNet)

	r.inputUnits = append(r.inputUnits, iu)
	r.routingUnit.AddInDirection(dir, port)
}

// AddOutPort attaches an outgoing flit link and the credit link coming back
// from the downstream consumer, creating the port's output unit. The routing
// entry and weight feed the routing table; consumerVCs is the downstream
// port's VC count per virtual network.
func (r *Router) AddOutPort(
	dir Direction,
	outLink *links.NetworkLink,
	routingEntry []messaging.NetDest,
	weight int,
	creditLink *links.CreditLink,
	consumerVCs int,
) {
	port := len(r.outputUnits)
	ou := newOutputUnit(r, port, dir, consumerVCs)
	ou.outLink = outLink
	ou.creditLink = creditLink

	creditLink.SetConsumer(r)
	creditLink.SetVCsPerVNet(consumerVCs)
	outLink.SetSourceQueue(ou.outQueue)
	outLink.SetVCsPerVNet(consumerVCs)

	r.outputUnits = append(r.outputUnits, ou)
	r.routingUnit.AddRoute(routingEntry)
	r.routingUnit.AddWeight(weight)
	r.routingUnit.AddOutDirection(dir, port)
}

// Init prepares the allocator and crossbar. Call once, after all ports.
func (r *Router) Init() {
	r.switchAllocator.Init()
	r.crossbar.Init()
}

// Wakeup runs one router cycle. The driver and link events may deliver
// several wakeups within one cycle; repeats are ignored so the pipeline
// stages run exactly once per cycle.
func (r *Router) Wakeup() {
	now := r.Now()
	if r.hasWoken && r.lastWakeup == now {
		return
	}
	r.lastWakeup = now
	r.hasWoken = true

	for _, iu := range r.inputUnits {
		iu.Wakeup()
	}
	for _, ou := range r.outputUnits {
		ou.Wakeup()
	}
	r.switchAllocator.Wakeup()
	r.crossbar.Wakeup()

	for _, iu := range r.inputUnits {
		if iu.HasPendingFlits() {
			r.ScheduleEvent(1)
			break
		}
	}
}

// ScheduleEvent arranges a router wakeup delta cycles from now.
func (r *Router) ScheduleEvent(delta sim.Cycle) {
	r.net.EventQueue().Schedule(r, delta)
}

// RouteCompute asks the routing unit for the packet's output port.
func (r *Router) RouteCompute(
	route messaging.RouteInfo, inport int, inDir Direction,
) int {
	return r.routingUnit.OutportCompute(route, inport, inDir)
}

// GrantSwitch hands a winning flit to the crossbar.
func (r *Router) GrantSwitch(inport int, f *messaging.Flit) {
	r.crossbar.UpdateSwWinner(inport, f)
}

// AddRouteForPort adds a destination NI to an outport's routing entry.
func (r *Router) AddRouteForPort(port, destNI int) {
	r.routingUnit.AddRouteForPort(port, destNI)
}

// OutportIndex resolves a direction label to an outport index.
func (r *Router) OutportIndex(dir Direction) (int, bool) {
	return r.routingUnit.OutportIndex(dir)
}

// Now returns the current simulation cycle.
func (r *Router) Now() sim.Cycle { return r.net.Now() }

// ID returns the router's identifier.
func (r *Router) ID() int { return r.id }

// X returns the router's column coordinate.
func (r *Router) X() int { return r.x }

// Y returns the router's row coordinate.
func (r *Router) Y() int { return r.y }

// Z returns the router's layer coordinate.
func (r *Router) Z() int { return r.z }

// MeshCols returns the mesh column count used by XY routing.
func (r *Router) MeshCols() int { return r.net.Config().Cols }

// MeshRows returns the mesh row count used by XY routing.
func (r *Router) MeshRows() int { return r.net.Config().Rows }

// PipeStages returns the router pipeline depth in cycles.
func (r *Router) PipeStages() sim.Cycle { return r.latency }

// VNets returns the number of virtual networks.
func (r *Router) VNets() int { return r.vnets }

// VCsPerVNet returns the VC count per virtual network.
func (r *Router) VCsPerVNet() int { return r.vcsPerVNet }

// NumVCs returns the total VC count per input port.
func (r *Router) NumVCs() int { return r.numVCs }

// NumInports returns the number of input ports.
func (r *Router) NumInports() int { return len(r.inputUnits) }

// NumOutports returns the number of output ports.
func (r *Router) NumOutports() int { return len(r.outputUnits) }

// InputUnit returns the input unit of a port.
func (r *Router) InputUnit(port int) *InputUnit { return r.inputUnits[port] }

// OutputUnit returns the output unit of a port.
func (r *Router) OutputUnit(port int) *OutputUnit {
	return r.outputUnits[port]
}

// RoutingAlgorithm returns the network's routing algorithm selector.
func (r *Router) RoutingAlgorithm() int {
	return r.net.Config().RoutingAlgorithm
}

// SetFaultID records the handle the fault model assigned to this router.
func (r *Router) SetFaultID(id int) { r.faultID = id }

// FaultVector returns the router's per-fault-type probabilities at the
// given temperature. The router must be declared to the fault model.
func (r *Router) FaultVector(
	temperature int,
) ([faultmodel.NumFaultTypes]float64, bool) {
	return r.net.FaultModel().FaultVector(r.faultID, temperature)
}

// AggregateFaultProb returns the probability of any fault at the given
// temperature.
func (r *Router) AggregateFaultProb(temperature int) (float64, bool) {
	return r.net.FaultModel().FaultProb(r.faultID, temperature)
}

// PrintFaultVector reports the fault vector at the baseline temperature.
func (r *Router) PrintFaultVector(w io.Writer) {
	vector, _ := r.FaultVector(baselineTemperature)

	fmt.Fprintf(w, "Router-%d fault vector:\n", r.id)
	for ft := faultmodel.FaultType(0); ft < faultmodel.NumFaultTypes; ft++ {
		fmt.Fprintf(w, " - probability of (%s) = %g\n", ft, vector[ft])
	}
}

// PrintAggregateFaultProbability reports the aggregate fault probability at
// the baseline temperature.
func (r *Router) PrintAggregateFaultProbability(w io.Writer) {
	prob, _ := r.AggregateFaultProb(baselineTemperature)
	fmt.Fprintf(w, "Router-%d fault probability: %g\n", r.id, prob)
}
