// Package endpoint implements the network interface that couples a traffic
// generator to the fabric: flit injection against credits, ejection, and the
// NI side of the credit protocol.
package endpoint

import (
	"log"

	"github.com/sarchlab/nocsim/network"
	"github.com/sarchlab/nocsim/noc/links"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/routers"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/traffic"
)

// An inputPort receives flits from a router and returns credits to it.
type inputPort struct {
	inLink      *links.NetworkLink
	creditLink  *links.CreditLink
	creditQueue *messaging.CreditBuffer
}

// An outputPort sends flits to a router and receives its credits.
type outputPort struct {
	outLink      *links.NetworkLink
	creditLink   *links.CreditLink
	outQueue     *messaging.FlitBuffer
	routerID     int
	vcRoundRobin int
}

// Params configures one NetworkInterface.
type Params struct {
	ID      int
	Network *network.Network
}

// A NetworkInterface injects its generator's flits into per-VC output
// queues, drains them to the router against credits, and ejects delivered
// flits back to the generator. A packet claims one out-VC at its head flit
// and keeps it until the tail leaves, so two packets never interleave on a
// virtual network.
type NetworkInterface struct {
	net        *network.Network
	id         int
	vnets      int
	vcsPerVNet int
	numVCs     int

	generator traffic.Generator

	inPorts  []*inputPort
	outPorts []*outputPort

	niOutVCs    []*messaging.FlitBuffer
	outVCs      []*routers.OutVCState
	vcAllocator []int
	vnetToVC    []int

	stallCount []uint64

	lastWakeup sim.Cycle
	hasWoken   bool
}

// NewNetworkInterface creates an NI. Ports are added afterwards.
func NewNetworkInterface(p Params) *NetworkInterface {
	cfg := p.Network.Config()

	ni := &NetworkInterface{
		net:        p.Network,
		id:         p.ID,
		vnets:      cfg.VNets,
		vcsPerVNet: cfg.VCsPerVNet,
		numVCs:     cfg.NumVCs(),
	}

	ni.niOutVCs = make([]*messaging.FlitBuffer, ni.numVCs)
	ni.outVCs = make([]*routers.OutVCState, ni.numVCs)
	for vc := range ni.niOutVCs {
		ni.niOutVCs[vc] = messaging.NewFlitBuffer()
		ni.outVCs[vc] = routers.NewOutVCState(
			cfg.BuffersPerVC(vc / ni.vcsPerVNet))
	}

	ni.vcAllocator = make([]int, ni.vnets)
	ni.vnetToVC = make([]int, ni.vnets)
	for vnet := range ni.vnetToVC {
		ni.vnetToVC[vnet] = -1
	}

	ni.stallCount = make([]uint64, ni.vnets)

	return ni
}

// ID returns the NI's identifier.
func (ni *NetworkInterface) ID() int { return ni.id }

// SetGenerator attaches the traffic generator the NI serves.
func (ni *NetworkInterface) SetGenerator(g traffic.Generator) {
	ni.generator = g
}

// StallCount returns how often injection stalled on a virtual network.
func (ni *NetworkInterface) StallCount(vnet int) uint64 {
	return ni.stallCount[vnet]
}

// AddInPort attaches the link from the router and the credit link going
// back to it.
func (ni *NetworkInterface) AddInPort(
	inLink *links.NetworkLink, creditLink *links.CreditLink,
) {
	port := &inputPort{
		inLink:      inLink,
		creditLink:  creditLink,
		creditQueue: messaging.NewCreditBuffer(),
	}

	inLink.SetConsumer(ni)
	inLink.SetVCsPerVNet(ni.vcsPerVNet)
	creditLink.SetSourceQueue(port.creditQueue)
	creditLink.SetVCsPerVNet(ni.vcsPerVNet)

	ni.inPorts = append(ni.inPorts, port)
}

// AddOutPort attaches the link to the router and the credit link coming
// back from it.
func (ni *NetworkInterface) AddOutPort(
	outLink *links.NetworkLink,
	creditLink *links.CreditLink,
	routerID int,
) {
	port := &outputPort{
		outLink:    outLink,
		creditLink: creditLink,
		outQueue:   messaging.NewFlitBuffer(),
		routerID:   routerID,
	}

	outLink.SetSourceQueue(port.outQueue)
	outLink.SetVCsPerVNet(ni.vcsPerVNet)
	creditLink.SetConsumer(ni)
	creditLink.SetVCsPerVNet(ni.vcsPerVNet)

	ni.outPorts = append(ni.outPorts, port)
}

// ScheduleEvent arranges an NI wakeup delta cycles from now.
func (ni *NetworkInterface) ScheduleEvent(delta sim.Cycle) {
	ni.net.EventQueue().Schedule(ni, delta)
}

// Wakeup runs one NI cycle: eject a delivered flit, consume arrived credits,
// pull one flit from the generator, and drain the out-VCs to the router.
// Repeat wakeups within a cycle are ignored.
func (ni *NetworkInterface) Wakeup() {
	now := ni.net.Now()
	if ni.hasWoken && ni.lastWakeup == now {
		return
	}
	ni.lastWakeup = now
	ni.hasWoken = true

	if ejected := ni.flitEject(); ejected != nil {
		ni.generator.ReceiveFlit(ejected)
	}

	// Credits are consumed before injection and output scheduling, so a VC
	// freed this cycle is usable this cycle.
	for _, port := range ni.outPorts {
		if port.creditLink.IsReady(now) {
			credit := port.creditLink.Consume()
			ni.outVCs[credit.VC].IncrementCredit()
			if credit.FreeSignal {
				ni.outVCs[credit.VC].SetIdle()
			}
		}
	}

	if f := ni.generator.SendFlit(); f != nil {
		if !ni.flitInject(f) {
			ni.generator.RequeueFlit(f)
			ni.stallCount[f.VNet]++
		}
	}

	ni.scheduleOutputLinks()

	for _, port := range ni.inPorts {
		if port.creditQueue.Size() > 0 {
			port.creditLink.ScheduleEvent(1)
		}
	}
}

// calculateVC picks an idle out-VC on the virtual network, round-robin.
func (ni *NetworkInterface) calculateVC(vnet int) int {
	for i := 0; i < ni.vcsPerVNet; i++ {
		delta := ni.vcAllocator[vnet]
		ni.vcAllocator[vnet] = (delta + 1) % ni.vcsPerVNet

		vc := vnet*ni.vcsPerVNet + delta
		if ni.outVCs[vc].IsIdle() {
			return vc
		}
	}

	return -1
}

// flitInject places a flit into its packet's out-VC. A head flit claims a
// fresh VC; with none idle the injection stalls and the flit goes back to
// the generator. Body and tail flits reuse the claimed VC.
func (ni *NetworkInterface) flitInject(f *messaging.Flit) bool {
	now := ni.net.Now()
	vnet := f.VNet
	vc := ni.vnetToVC[vnet]

	if f.Type.IsHead() {
		if vc != -1 {
			log.Panicf("NI %d: head flit while vnet %d packet in flight",
				ni.id, vnet)
		}

		vc = ni.calculateVC(vnet)
		if vc == -1 {
			ni.net.Logf("[cycle %d] NI %d stalled: no free VC for packet %d",
				now, ni.id, f.PacketID)

			return false
		}

		ni.vnetToVC[vnet] = vc
		ni.outVCs[vc].SetActive()
	} else {
		if vc == -1 {
			log.Panicf("NI %d: %s flit on vnet %d without a head",
				ni.id, f.Type, vnet)
		}
	}

	f.VC = vc
	f.SetTime(now)
	ni.niOutVCs[vc].Insert(f)

	ni.net.Logf("[cycle %d] NI %d injected %s into VC %d",
		now, ni.id, f, vc)

	if f.Type.IsTail() {
		ni.vnetToVC[vnet] = -1
	}

	return true
}

// scheduleOutputLinks serves each output port: one flit per cycle, chosen
// round-robin over the NI's out-VCs, gated by downstream credits.
func (ni *NetworkInterface) scheduleOutputLinks() {
	now := ni.net.Now()

	for _, port := range ni.outPorts {
		vc := port.vcRoundRobin

		for i := 0; i < ni.numVCs; i++ {
			vc = (vc + 1) % ni.numVCs

			if !ni.niOutVCs[vc].IsReady(now) || !ni.outVCs[vc].HasCredit() {
				continue
			}

			port.vcRoundRobin = vc
			ni.outVCs[vc].DecrementCredit()

			f := ni.niOutVCs[vc].Pop()
			f.SetTime(now + 1)
			port.outQueue.Insert(f)
			port.outLink.ScheduleEvent(1)

			break
		}
	}
}

// flitEject pulls one delivered flit off an input link and immediately
// queues a credit back to the router.
func (ni *NetworkInterface) flitEject() *messaging.Flit {
	now := ni.net.Now()

	for _, port := range ni.inPorts {
		if !port.inLink.IsReady(now) {
			continue
		}

		f := port.inLink.Consume()

		credit := messaging.NewCredit(f.VC, f.Type.IsTail(), now)
		port.creditQueue.Insert(credit)
		port.creditLink.ScheduleEvent(1)

		ni.net.Logf("[cycle %d] NI %d ejected %s", now, ni.id, f)

		return f
	}

	return nil
}
